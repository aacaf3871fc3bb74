package layout

import (
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Measurer reports the rendered width of a string at a font size.
type Measurer interface {
	Width(s string, fontSize float64) float64
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(s string, fontSize float64) float64

// Width implements Measurer.
func (f MeasurerFunc) Width(s string, fontSize float64) float64 { return f(s, fontSize) }

// PixelMeasurer measures with the 7x13 bitmap face, scaled linearly from its
// 13px height to the requested size.
type PixelMeasurer struct {
	Face font.Face
}

// NewPixelMeasurer returns a measurer backed by basicfont.Face7x13.
func NewPixelMeasurer() PixelMeasurer {
	return PixelMeasurer{Face: basicfont.Face7x13}
}

// Width implements Measurer.
func (m PixelMeasurer) Width(s string, fontSize float64) float64 {
	face := m.Face
	if face == nil {
		face = basicfont.Face7x13
	}
	adv := font.MeasureString(face, s)
	px := float64(adv) / 64
	return px * fontSize / 13
}

// CellMeasurer measures in terminal cells. Font size is ignored.
type CellMeasurer struct{}

// Width implements Measurer.
func (CellMeasurer) Width(s string, _ float64) float64 {
	return float64(runewidth.StringWidth(s))
}
