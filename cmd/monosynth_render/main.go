package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	dsptime "github.com/cwbudde/algo-dsp/stats/time"

	"github.com/cbegin/monosynth-go"
	"github.com/cbegin/monosynth-go/internal/script"
)

// A short bass riff sweeping the filter.
const defaultScript = `
knob("cutoff", 0.35)
knob("resonance", 0.8)
knob("envdepth", 0.6)
for i, n in ipairs({36, 36, 48, 36, 39, 36, 43, 41}) do
  knob("cutoff", 0.2 + i * 0.06)
  note_on(n, 100)
  wait(0.12)
  note_off(n)
  wait(0.08)
end
osc2(true)
knob("detune", 0.62)
note_on(36, 100)
wait(0.6)
note_off(36)
wait(0.5)
`

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		scriptPath = flag.String("script", "", "path to a Lua performance script")
		inline     = flag.String("e", "", "inline Lua script")
		outPath    = flag.String("out", "monosynth.wav", "output WAV path")
		maxSeconds = flag.Float64("max-seconds", script.DefaultMaxSeconds, "upper bound on rendered length")
		attack     = flag.Float64("attack", 0.01, "envelope attack seconds")
		decay      = flag.Float64("decay", 0.25, "envelope decay seconds")
		curve      = flag.Float64("curve", 0, "envelope curve (0 = linear)")
		volume     = flag.Float64("volume", 0.8, "master volume scalar")
	)
	flag.Parse()

	synth, err := monosynth.NewSynth(*sampleRate,
		monosynth.WithEnvelope(monosynth.EnvelopeParams{AttackSec: *attack, DecaySec: *decay, Curve: *curve}),
	)
	if err != nil {
		log.Fatal(err)
	}
	synth.SetMasterVolume(*volume)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := script.NewRunner(synth)
	runner.MaxSeconds = *maxSeconds
	var samples []float32
	switch {
	case strings.TrimSpace(*inline) != "":
		samples, err = runner.Run(ctx, *inline)
	case strings.TrimSpace(*scriptPath) != "":
		samples, err = runner.RunFile(ctx, *scriptPath)
	default:
		samples, err = runner.Run(ctx, defaultScript)
	}
	if err != nil {
		log.Fatal(err)
	}
	if len(samples) == 0 {
		log.Fatal("script rendered no audio (call wait)")
	}
	if err := monosynth.WriteWAV(*outPath, samples, *sampleRate); err != nil {
		log.Fatalf("write %s: %v", *outPath, err)
	}

	left := make([]float64, len(samples)/2)
	for i := range left {
		left[i] = float64(samples[2*i])
	}
	st := dsptime.Calculate(left)
	fmt.Printf("wrote %s: %.2fs, peak %.1f dBFS, rms %.1f dBFS, crest %.1f dB\n",
		*outPath, float64(len(left))/float64(*sampleRate), st.Peak_dB, st.RMS_dB, st.CrestFactor_dB)
	if st.Peak >= 1 {
		log.Printf("output clips (peak %.3f); lower -volume", st.Peak)
	}
}
