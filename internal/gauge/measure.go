package gauge

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// TextMeasurer reports the rendered width of text at a font size, in the same
// units as the gauge dimensions.
type TextMeasurer interface {
	MeasureText(text string, fontSize float64) float64
}

// FontMeasurer measures text with a bitmap face, scaled linearly from the
// face's native height to the requested font size.
type FontMeasurer struct {
	Face font.Face
	// Height is the native pixel height of Face.
	Height float64
}

// NewFontMeasurer returns a measurer backed by basicfont.Face7x13.
func NewFontMeasurer() *FontMeasurer {
	return &FontMeasurer{Face: basicfont.Face7x13, Height: 13}
}

// MeasureText implements TextMeasurer.
func (m *FontMeasurer) MeasureText(text string, fontSize float64) float64 {
	if text == "" || fontSize <= 0 {
		return 0
	}
	advance := font.MeasureString(m.Face, text)
	return float64(advance) / 64 * fontSize / m.Height
}
