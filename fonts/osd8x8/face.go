package osd8x8

import (
	"image"
	"image/color"

	"github.com/embeddedgo/display/font/subfont"
)

// NewFace wraps the OSD glyph table in a subfont.Face so collaborators that
// draw through the display pipeline can reuse the same letterforms.
func NewFace() *subfont.Face {
	return &subfont.Face{
		Height: Height,
		Ascent: Height,
		Subfonts: []*subfont.Subfont{{
			First:  First,
			Last:   Last,
			Offset: 0,
			Data:   glyphData{},
		}},
	}
}

type glyphData struct{}

func (glyphData) Advance(i int) int {
	return Width
}

// Glyph renders one glyph of the table into an alpha image. i is relative to
// the subfont's First rune.
func (glyphData) Glyph(i int) (img image.Image, origin image.Point, advance int) {
	if i < 0 || First+i > Last {
		i = 0
	}
	a := image.NewAlpha(image.Rect(0, 0, Width, Height))
	for y := 0; y < Height; y++ {
		bits := Line(byte(First+i), y)
		for x := 0; x < Width; x++ {
			if bits&(0x80>>x) != 0 {
				a.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}
	return a, image.Point{X: 0, Y: Height}, Width
}
