package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

var (
	bgColor       = color.RGBA{192, 192, 192, 255}
	panelColor    = color.RGBA{192, 192, 192, 255}
	borderColor   = color.RGBA{128, 128, 128, 255}
	litColor      = color.RGBA{0, 0, 128, 255}
	bevelLight    = color.RGBA{255, 255, 255, 255}
	bevelDarker   = color.RGBA{64, 64, 64, 255}
	sunkenBgColor = color.RGBA{24, 24, 32, 255}

	whiteKeyColor = color.RGBA{236, 236, 228, 255}
	blackKeyColor = color.RGBA{24, 24, 28, 255}
	heldKeyColor  = color.RGBA{80, 200, 255, 255}
)

// slider is a horizontal 0..1 control.
type slider struct {
	label string
	rect  image.Rectangle
}

const sliderLabelW = 150

func (s slider) track() image.Rectangle {
	y := s.rect.Min.Y + s.rect.Dy()/2 - 4
	return image.Rect(s.rect.Min.X+sliderLabelW, y, s.rect.Max.X-16, y+8)
}

// valueAt maps a mouse x position onto the slider range.
func (s slider) valueAt(mx int) float64 {
	tr := s.track()
	if tr.Dx() <= 0 {
		return 0
	}
	return clamp(float64(mx-tr.Min.X)/float64(tr.Dx()), 0, 1)
}

func (g *game) drawSlider(screen *ebiten.Image, s slider, value float64, readout string) {
	g.drawPanel(screen, s.rect)
	g.drawText(screen, s.label, s.rect.Min.X+8, s.rect.Min.Y+8)
	tr := s.track()
	if tr.Dx() < 20 {
		return
	}
	// Sunken track groove.
	ebitenutil.DrawRect(screen, float64(tr.Min.X), float64(tr.Min.Y), float64(tr.Dx()), 8, bevelDarker)
	ebitenutil.DrawRect(screen, float64(tr.Min.X), float64(tr.Min.Y), float64(tr.Dx()-1), 1, borderColor)
	ebitenutil.DrawRect(screen, float64(tr.Min.X), float64(tr.Min.Y), 1, 7, borderColor)
	fillW := int(float64(tr.Dx()) * clamp(value, 0, 1))
	if fillW > 2 {
		ebitenutil.DrawRect(screen, float64(tr.Min.X+1), float64(tr.Min.Y+1), float64(fillW-1), 6, litColor)
	}
	// Raised knob.
	knobX := min(max(tr.Min.X+fillW-5, tr.Min.X-5), tr.Max.X-5)
	knobRect := image.Rect(knobX, tr.Min.Y-4, knobX+10, tr.Min.Y+12)
	ebitenutil.DrawRect(screen, float64(knobRect.Min.X), float64(knobRect.Min.Y), float64(knobRect.Dx()), float64(knobRect.Dy()), panelColor)
	drawBorder(screen, knobRect)
	g.drawText(screen, readout, tr.Min.X, s.rect.Max.Y-lineH-2)
}

func (g *game) drawPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), panelColor)
	drawBorder(screen, rect)
}

func (g *game) drawSunkenPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), sunkenBgColor)
	drawSunkenBorder(screen, rect)
}

func (g *game) drawButton(screen *ebiten.Image, rect image.Rectangle, label string, lit bool) {
	fill := color.Color(panelColor)
	if lit {
		fill = litColor
	}
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), fill)
	if lit {
		drawSunkenBorder(screen, rect)
	} else {
		drawBorder(screen, rect)
	}
	labelW := len([]rune(label)) * charW
	x := rect.Min.X + (rect.Dx()-labelW)/2
	y := rect.Min.Y + (rect.Dy()-lineH)/2
	g.drawText(screen, label, x, y)
}

// drawBorder draws a raised 3D bevel (highlight top/left, shadow bottom/right).
func drawBorder(screen *ebiten.Image, rect image.Rectangle) {
	x := float64(rect.Min.X)
	y := float64(rect.Min.Y)
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, bevelLight)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, bevelLight)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+h-2, w-3, 1, borderColor)
	ebitenutil.DrawRect(screen, x+w-2, y+1, 1, h-3, borderColor)
}

// drawSunkenBorder draws a sunken 3D bevel (shadow top/left, highlight bottom/right).
func drawSunkenBorder(screen *ebiten.Image, rect image.Rectangle) {
	x := float64(rect.Min.X)
	y := float64(rect.Min.Y)
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, borderColor)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, borderColor)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelLight)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelLight)
	ebitenutil.DrawRect(screen, x+1, y+1, w-3, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+2, 1, h-4, bevelDarker)
}

func (g *game) drawText(screen *ebiten.Image, msg string, x int, y int) {
	if msg == "" {
		return
	}
	img := g.textCache[msg]
	if img == nil {
		w := max(1, len([]rune(msg))*7)
		img = ebiten.NewImage(w, 14)
		ebitenutil.DebugPrintAt(img, msg, 0, 0)
		if len(g.textCache) > 3000 {
			g.textCache = make(map[string]*ebiten.Image, 1024)
		}
		g.textCache[msg] = img
	}
	// Embossed shadow.
	opS := &ebiten.DrawImageOptions{}
	opS.GeoM.Scale(textScale, textScale)
	opS.GeoM.Translate(float64(x+2), float64(y+2))
	opS.ColorScale.Scale(0, 0, 0, 1)
	screen.DrawImage(img, opS)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(textScale, textScale)
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(img, op)
}

func clamp(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}
