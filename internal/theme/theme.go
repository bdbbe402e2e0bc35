// Package theme resolves named colors, continuous color ramps and contrast
// choices for light and dark gauge backgrounds.
package theme

import (
	"fmt"
	"math"
	"strings"

	"github.com/jwulff/gauge-go/internal/domain"
)

// Theme names.
const (
	NameDark  = "dark"
	NameLight = "light"
)

// ContrastConfig holds the text colors used on top of colored surfaces and the
// minimum contrast ratio the darker text must reach to be chosen.
type ContrastConfig struct {
	Gray05    string  `koanf:"gray05" json:"gray05"`
	Gray90    string  `koanf:"gray90" json:"gray90"`
	Threshold float64 `koanf:"threshold" json:"threshold"`
}

// DefaultContrast returns the stock contrast colors (WCAG AA ratio).
func DefaultContrast() ContrastConfig {
	return ContrastConfig{
		Gray05:    "#111217",
		Gray90:    "#e0e0e0",
		Threshold: 4.5,
	}
}

// ApplyDefaults applies default values to zero fields.
func (c *ContrastConfig) ApplyDefaults() {
	d := DefaultContrast()
	if c.Gray05 == "" {
		c.Gray05 = d.Gray05
	}
	if c.Gray90 == "" {
		c.Gray90 = d.Gray90
	}
	if c.Threshold <= 0 {
		c.Threshold = d.Threshold
	}
}

// Theme describes the surface colors a gauge is drawn on.
type Theme struct {
	Name          string
	IsDark        bool
	Background    string
	Track         string
	Text          string
	FallbackColor string
	Contrast      ContrastConfig
}

// Dark returns the dark theme.
func Dark() *Theme {
	return &Theme{
		Name:          NameDark,
		IsDark:        true,
		Background:    "#111217",
		Track:         "#2c3235",
		Text:          "#ccccdc",
		FallbackColor: "#73bf69",
		Contrast:      DefaultContrast(),
	}
}

// Light returns the light theme.
func Light() *Theme {
	return &Theme{
		Name:          NameLight,
		IsDark:        false,
		Background:    "#ffffff",
		Track:         "#e9edf2",
		Text:          "#24292e",
		FallbackColor: "#56a64b",
		Contrast:      DefaultContrast(),
	}
}

// ByName returns the named theme. Unknown names are an error.
func ByName(name string) (*Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameDark:
		return Dark(), nil
	case NameLight:
		return Light(), nil
	default:
		return nil, fmt.Errorf("unknown theme %q", name)
	}
}

// WithContrast returns a copy of the theme using the given contrast settings.
func (t *Theme) WithContrast(c ContrastConfig) *Theme {
	c.ApplyDefaults()
	clone := *t
	clone.Contrast = c
	return &clone
}

// ParseColor resolves a palette name ("green", "semi-dark-red") or a hex color.
func ParseColor(s string) (domain.RGB, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := palette[key]; ok {
		key = hex
	}
	return domain.ParseHex(key)
}

// ParseColor resolves a palette name or hex color.
func (t *Theme) ParseColor(s string) (domain.RGB, error) {
	return ParseColor(s)
}

// Color resolves s like ParseColor but falls back to the theme's fallback color.
func (t *Theme) Color(s string) domain.RGB {
	if c, err := t.ParseColor(s); err == nil {
		return c
	}
	c, err := domain.ParseHex(t.FallbackColor)
	if err != nil {
		return domain.NewRGB(0x73, 0xbf, 0x69)
	}
	return c
}

// Hex resolves s to "#rrggbb", keeping s unchanged when it cannot be parsed.
func (t *Theme) Hex(s string) string {
	c, err := t.ParseColor(s)
	if err != nil {
		return s
	}
	return c.Hex()
}

// ContrastText picks Gray05 when it is readable on bg, Gray90 otherwise.
func (t *Theme) ContrastText(bg domain.RGB) domain.RGB {
	dark := t.Color(t.Contrast.Gray05)
	light := t.Color(t.Contrast.Gray90)
	if ContrastRatio(bg, dark) >= t.Contrast.Threshold {
		return dark
	}
	return light
}

// RelativeLuminance returns the WCAG relative luminance of c.
func RelativeLuminance(c domain.RGB) float64 {
	r, g, b := c.Colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio returns the WCAG contrast ratio between two colors (1-21).
func ContrastRatio(a, b domain.RGB) float64 {
	la := RelativeLuminance(a)
	lb := RelativeLuminance(b)
	return (math.Max(la, lb) + 0.05) / (math.Min(la, lb) + 0.05)
}
