package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/cbegin/monosynth-go/internal/control"
)

var blackInOctave = [12]bool{1: true, 3: true, 6: true, 8: true, 10: true}

func isBlack(note int) bool { return blackInOctave[note%12] }

// pianoKeys lays out pianoKeysShown keys from base across rect. White keys
// come first in the result so black keys, drawn later, sit on top.
func pianoKeys(base int, rect image.Rectangle) (notes []int, rects []image.Rectangle) {
	whites := 0
	for n := base; n < base+pianoKeysShown; n++ {
		if !isBlack(n) {
			whites++
		}
	}
	if whites == 0 {
		return nil, nil
	}
	keyW := rect.Dx() / whites
	x := rect.Min.X
	for n := base; n < base+pianoKeysShown; n++ {
		if isBlack(n) {
			continue
		}
		notes = append(notes, n)
		rects = append(rects, image.Rect(x, rect.Min.Y, x+keyW-1, rect.Max.Y))
		x += keyW
	}
	x = rect.Min.X
	for n := base; n < base+pianoKeysShown; n++ {
		if !isBlack(n) {
			x += keyW
			continue
		}
		bw := keyW * 2 / 3
		notes = append(notes, n)
		rects = append(rects, image.Rect(x-bw/2, rect.Min.Y, x+bw/2, rect.Min.Y+rect.Dy()*3/5))
	}
	return notes, rects
}

func (g *game) pianoNoteAt(mx, my int, rect image.Rectangle) (int, bool) {
	notes, rects := pianoKeys(g.baseNote, rect)
	for i := len(rects) - 1; i >= 0; i-- {
		if pointInRect(mx, my, rects[i]) {
			return notes[i], true
		}
	}
	return 0, false
}

func (g *game) drawPiano(screen *ebiten.Image, rect image.Rectangle) {
	g.drawSunkenPanel(screen, rect)
	inner := rect.Inset(4)
	held := g.synth.HeldNote()
	notes, rects := pianoKeys(g.baseNote, inner)
	for i, n := range notes {
		r := rects[i]
		c := whiteKeyColor
		if isBlack(n) {
			c = blackKeyColor
		}
		if n == held {
			c = heldKeyColor
		}
		ebitenutil.DrawRect(screen, float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()), c)
		if n%12 == 0 {
			g.drawText(screen, control.Note(n).String(), r.Min.X+4, r.Max.Y-lineH-4)
		}
	}
}
