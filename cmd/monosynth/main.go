package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"golang.org/x/term"

	"github.com/cbegin/monosynth-go"
	"github.com/cbegin/monosynth-go/internal/audio"
)

const help = "keys: a-l play (w e t y u o sharps), again/space release, z/x octave, " +
	"1-4 select cutoff/res/env/detune, [ ] adjust, v osc2, p stop all, q quit"

func main() {
	var (
		sampleRate  = flag.Int("sample-rate", 48000, "output sample rate")
		backendName = flag.String("backend", "oto", "audio backend: oto|ebiten")
		blockSize   = flag.Int("block", monosynth.DefaultBlockSize, "frames rendered per control read")
		attack      = flag.Float64("attack", 0.01, "envelope attack seconds")
		decay       = flag.Float64("decay", 0.25, "envelope decay seconds")
		curve       = flag.Float64("curve", 0, "envelope curve (0 = linear)")
		order       = flag.Int("order", 4, "lowpass order (even)")
		volume      = flag.Float64("volume", 0.8, "master volume scalar")
	)
	flag.Parse()

	backend, err := audio.ParseBackend(*backendName)
	if err != nil {
		log.Fatal(err)
	}
	synth, err := monosynth.NewSynth(*sampleRate,
		monosynth.WithBackend(backend),
		monosynth.WithBlockSize(*blockSize),
		monosynth.WithFilterOrder(*order),
		monosynth.WithEnvelope(monosynth.EnvelopeParams{AttackSec: *attack, DecaySec: *decay, Curve: *curve}),
	)
	if err != nil {
		log.Fatal(err)
	}
	synth.SetMasterVolume(*volume)
	if err := synth.Start(); err != nil {
		log.Fatalf("start audio: %v", err)
	}
	defer synth.Stop()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		log.Fatal("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		log.Fatalf("raw mode: %v", err)
	}
	defer term.Restore(fd, oldState)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Print(help + "\r\n")
	keys := readKeys(os.Stdin)

	var knobs [4]float64
	for k := range knobs {
		knobs[k] = synth.Knob(monosynth.Knob(k))
	}
	kb := newKeyboard(knobs)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Print("\r\n")
			return
		case <-ticker.C:
			fmt.Printf("\r%s\x1b[K", synth.Display())
		case b, ok := <-keys:
			if !ok {
				fmt.Print("\r\n")
				return
			}
			act := kb.handle(b)
			switch act.kind {
			case actNoteOn:
				if !synth.NoteOn(act.note, 100) {
					log.Printf("note %d dropped\r", act.note)
				}
			case actNoteOff:
				synth.NoteOff(act.note)
			case actPanic:
				synth.AllNotesOff()
			case actKnob:
				synth.SetKnob(act.knob, act.value)
			case actOsc2:
				synth.ToggleOsc2()
			case actQuit:
				synth.AllNotesOff()
				fmt.Print("\r\n")
				return
			}
		}
	}
}

// readKeys forwards raw stdin bytes until the reader fails.
func readKeys(r io.Reader) <-chan byte {
	ch := make(chan byte, 16)
	go func() {
		defer close(ch)
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				ch <- buf[0]
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}
