package theme

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/jwulff/gauge-go/internal/domain"
)

// Mix linearly interpolates two colors in sRGB space. t is clamped to [0,1].
func Mix(a, b domain.RGB, t float64) domain.RGB {
	t = math.Max(0, math.Min(1, t))
	return domain.RGBFromColorful(a.Colorful().BlendRgb(b.Colorful(), t))
}

// Lighten raises HSL lightness by amount (0-1).
func Lighten(c domain.RGB, amount float64) domain.RGB {
	h, s, l := c.Colorful().Hsl()
	return domain.RGBFromColorful(colorful.Hsl(h, s, clamp01(l+amount)))
}

// Darken lowers HSL lightness by amount (0-1).
func Darken(c domain.RGB, amount float64) domain.RGB {
	return Lighten(c, -amount)
}

// Saturate raises HSL saturation by amount (0-1); negative amounts desaturate.
func Saturate(c domain.RGB, amount float64) domain.RGB {
	h, s, l := c.Colorful().Hsl()
	return domain.RGBFromColorful(colorful.Hsl(h, clamp01(s+amount), l))
}

// Spin rotates the hue by deg degrees.
func Spin(c domain.RGB, deg float64) domain.RGB {
	h, s, l := c.Colorful().Hsl()
	h = math.Mod(h+deg, 360)
	if h < 0 {
		h += 360
	}
	return domain.RGBFromColorful(colorful.Hsl(h, s, l))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
