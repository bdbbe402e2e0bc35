package render

import (
	"github.com/jwulff/gauge-go/internal/domain"
)

// ColorBlack is the fully dimmed color.
var ColorBlack = domain.NewRGB(0, 0, 0)

// Glow strength relative to the value color.
const (
	glowAlpha   = 0.35
	glowDimming = 0.8
)

// DimColor reduces the brightness of a color by a factor (0-1).
func DimColor(c domain.RGB, factor float64) domain.RGB {
	if factor <= 0 {
		return ColorBlack
	}
	if factor >= 1 {
		return c
	}
	return domain.NewRGB(
		uint8(float64(c.R)*factor),
		uint8(float64(c.G)*factor),
		uint8(float64(c.B)*factor),
	)
}

// GlowColor returns the halo color drawn behind a value arc.
func GlowColor(c domain.RGB) domain.RGB {
	return DimColor(c, glowDimming)
}
