package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/cbegin/monosynth-go"
	"github.com/cbegin/monosynth-go/internal/control"
)

const (
	windowW    = 1100
	windowH    = 720
	minWindowW = 980
	minWindowH = 640

	textScale = 2
	charW     = 7 * textScale
	lineH     = 14 * textScale

	pianoKeysShown = 25
)

var knobLabels = [4]string{"Cutoff", "Reso", "Env", "Detune"}

// Computer keyboard piano: home row whites, upper row sharps.
var keyOffsets = []struct {
	key ebiten.Key
	off int
}{
	{ebiten.KeyA, 0}, {ebiten.KeyW, 1}, {ebiten.KeyS, 2}, {ebiten.KeyE, 3},
	{ebiten.KeyD, 4}, {ebiten.KeyF, 5}, {ebiten.KeyT, 6}, {ebiten.KeyG, 7},
	{ebiten.KeyY, 8}, {ebiten.KeyH, 9}, {ebiten.KeyU, 10}, {ebiten.KeyJ, 11},
	{ebiten.KeyK, 12}, {ebiten.KeyO, 13}, {ebiten.KeyL, 14},
}

type game struct {
	synth    *monosynth.Synth
	analyzer *analyzer

	scopeImg *ebiten.Image
	scopeW   int
	scopeH   int
	snap     []float32
	specBins []float64
	wavePeak float64
	noteHz   float64
	cutoffHz float64

	knobs    [4]float64
	volume   float64
	baseNote int
	// Note started by this UI (computer keys or mouse), -1 when none.
	held     int
	dragging int // -1 none, 0..3 knob, 4 volume
	mouseKey int // note pressed with the mouse, -1 when none

	display   monosynth.DisplayState
	textCache map[string]*ebiten.Image
	viewW     int
	viewH     int
}

func newGame(sampleRate int, opts ...monosynth.Option) (*game, error) {
	a, err := newAnalyzer(sampleRate)
	if err != nil {
		return nil, err
	}
	opts = append(opts, monosynth.WithSampleTap(a.Tap), monosynth.WithBackend(monosynth.BackendEbiten))
	s, err := monosynth.NewSynth(sampleRate, opts...)
	if err != nil {
		return nil, err
	}
	g := &game{
		synth:     s,
		analyzer:  a,
		volume:    0.8,
		baseNote:  48,
		held:      -1,
		dragging:  -1,
		mouseKey:  -1,
		textCache: make(map[string]*ebiten.Image, 256),
		viewW:     windowW,
		viewH:     windowH,
	}
	for k := range g.knobs {
		g.knobs[k] = s.Knob(monosynth.Knob(k))
	}
	s.SetMasterVolume(g.volume)
	if err := s.Start(); err != nil {
		return nil, fmt.Errorf("start audio: %w", err)
	}
	return g, nil
}

func (g *game) Close() { _ = g.synth.Stop() }

func (g *game) Update() error {
	g.handleKeys()
	g.handleMouse()
	g.synth.Poll(g)
	g.display = g.synth.Display()
	g.cutoffHz = float64(g.display.FilterHz)
	if n := g.synth.HeldNote(); n >= 0 {
		g.noteHz = control.NoteToHz(control.Note(n))
	}
	return nil
}

// Knobs makes the on-screen sliders the synth's knob source; Update polls
// them once per frame like a hardware control loop.
func (g *game) Knobs() [control.NumKnobs]float64 { return g.knobs }

func (g *game) handleKeys() {
	for _, k := range keyOffsets {
		note := g.baseNote + k.off
		if inpututil.IsKeyJustPressed(k.key) {
			g.noteOn(note)
		}
		if inpututil.IsKeyJustReleased(k.key) {
			g.noteOff(note)
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyZ):
		g.shiftOctave(-12)
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		g.shiftOctave(12)
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		g.synth.ToggleOsc2()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.synth.AllNotesOff()
		g.held = -1
	}
}

func (g *game) noteOn(note int) {
	if note > 127 {
		return
	}
	if g.synth.NoteOn(note, 100) {
		g.held = note
	}
}

// noteOff releases note only if it is still the one this UI started, so
// rolling from one key to the next keeps the newer note sounding.
func (g *game) noteOff(note int) {
	if note != g.held {
		return
	}
	g.synth.NoteOff(note)
	g.held = -1
}

func (g *game) shiftOctave(delta int) {
	n := g.baseNote + delta
	if n < 0 || n+pianoKeysShown-1 > 127 {
		return
	}
	g.baseNote = n
}

type uiLayout struct {
	sliders [5]slider // four knobs then volume
	osc2    image.Rectangle
	stop    image.Rectangle
	octDown image.Rectangle
	octUp   image.Rectangle
	scope   image.Rectangle
	display image.Rectangle
	piano   image.Rectangle
}

func (g *game) layoutRects() uiLayout {
	const pad = 16
	var l uiLayout
	leftW := 500
	y := pad
	for i := range l.sliders {
		label := "Volume"
		if i < len(knobLabels) {
			label = knobLabels[i]
		}
		l.sliders[i] = slider{label: label, rect: image.Rect(pad, y, pad+leftW, y+64)}
		y += 72
	}
	btnW := (leftW - 3*8) / 4
	for i, r := range []*image.Rectangle{&l.osc2, &l.stop, &l.octDown, &l.octUp} {
		x := pad + i*(btnW+8)
		*r = image.Rect(x, y, x+btnW, y+44)
	}
	pianoH := 130
	l.piano = image.Rect(pad, g.viewH-pad-pianoH, g.viewW-pad, g.viewH-pad)
	l.display = image.Rect(pad, l.piano.Min.Y-8-44, g.viewW-pad, l.piano.Min.Y-8)
	l.scope = image.Rect(pad+leftW+pad, pad, g.viewW-pad, l.display.Min.Y-8)
	return l
}

func (g *game) handleMouse() {
	l := g.layoutRects()
	mx, my := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		for i, s := range l.sliders {
			if pointInRect(mx, my, s.rect) {
				g.dragging = i
			}
		}
		switch {
		case pointInRect(mx, my, l.osc2):
			g.synth.ToggleOsc2()
		case pointInRect(mx, my, l.stop):
			g.synth.AllNotesOff()
			g.held = -1
		case pointInRect(mx, my, l.octDown):
			g.shiftOctave(-12)
		case pointInRect(mx, my, l.octUp):
			g.shiftOctave(12)
		case pointInRect(mx, my, l.piano):
			if note, ok := g.pianoNoteAt(mx, my, l.piano); ok {
				g.mouseKey = note
				g.noteOn(note)
			}
		}
	}
	if g.dragging >= 0 && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		v := l.sliders[g.dragging].valueAt(mx)
		if g.dragging < len(g.knobs) {
			g.knobs[g.dragging] = v
		} else {
			g.volume = v
			g.synth.SetMasterVolume(v)
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.dragging = -1
		if g.mouseKey >= 0 {
			g.noteOff(g.mouseKey)
			g.mouseKey = -1
		}
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	l := g.layoutRects()
	d := g.display

	readouts := [5]string{
		fmt.Sprintf("%d Hz (now %d)", d.CutoffHz, d.FilterHz),
		fmt.Sprintf("Q %.2f", d.Resonance),
		fmt.Sprintf("+%d Hz", d.EnvDepthHz),
		fmt.Sprintf("%+.1f cents", d.DetuneCents),
		fmt.Sprintf("%d%%", int(g.volume*100+0.5)),
	}
	for i, s := range l.sliders {
		v := g.volume
		if i < len(g.knobs) {
			v = g.knobs[i]
		}
		g.drawSlider(screen, s, v, readouts[i])
	}
	g.drawButton(screen, l.osc2, "Osc2", d.Osc2)
	g.drawButton(screen, l.stop, "Stop", false)
	g.drawButton(screen, l.octDown, "Oct-", false)
	g.drawButton(screen, l.octUp, "Oct+", false)

	g.drawSunkenPanel(screen, l.scope)
	g.drawScope(screen, l.scope)

	g.drawSunkenPanel(screen, l.display)
	g.drawText(screen, strings.Join(strings.Fields(d.String()), " "), l.display.Min.X+8, l.display.Min.Y+8)

	g.drawPiano(screen, l.piano)
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	g.viewW = max(outsideW, minWindowW)
	g.viewH = max(outsideH, minWindowH)
	return g.viewW, g.viewH
}

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		attack     = flag.Float64("attack", 0.01, "envelope attack seconds")
		decay      = flag.Float64("decay", 0.25, "envelope decay seconds")
		curve      = flag.Float64("curve", 0, "envelope curve (0 = linear)")
		order      = flag.Int("order", 4, "lowpass order (even)")
	)
	flag.Parse()

	g, err := newGame(*sampleRate,
		monosynth.WithFilterOrder(*order),
		monosynth.WithEnvelope(monosynth.EnvelopeParams{AttackSec: *attack, DecaySec: *decay, Curve: *curve}),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(minWindowW, minWindowH, -1, -1)
	ebiten.SetWindowTitle("monosynth")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
