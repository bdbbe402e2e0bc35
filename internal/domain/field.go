package domain

import (
	"math"
	"strings"
)

// GradientStop anchors one color of a gradient at a fraction of its length.
type GradientStop struct {
	Color   string  `json:"color"`
	Percent float64 `json:"percent"`
}

// RadialShape selects between a full ring and a partial arc.
type RadialShape string

const (
	ShapeCircle RadialShape = "circle"
	ShapeGauge  RadialShape = "gauge"
)

// ColorMode controls how a field's color (and gradient) is derived.
type ColorMode string

const (
	ColorModeFixed          ColorMode = "fixed"
	ColorModePaletteClassic ColorMode = "palette-classic"
	ColorModeThresholds     ColorMode = "thresholds"
	ColorModeShades         ColorMode = "shades"

	continuousPrefix = "continuous-"
)

// ContinuousColorMode returns the color mode for a continuous scheme, e.g. "GrYlRd".
func ContinuousColorMode(scheme string) ColorMode {
	return ColorMode(continuousPrefix + scheme)
}

// IsContinuous reports whether the mode samples a continuous color ramp.
func (m ColorMode) IsContinuous() bool {
	return strings.HasPrefix(string(m), continuousPrefix)
}

// Scheme returns the ramp name of a continuous mode, or "" otherwise.
func (m ColorMode) Scheme() string {
	if !m.IsContinuous() {
		return ""
	}
	return strings.TrimPrefix(string(m), continuousPrefix)
}

// ThresholdsMode tells whether step values are absolute or percentages of the range.
type ThresholdsMode string

const (
	ThresholdsAbsolute   ThresholdsMode = "absolute"
	ThresholdsPercentage ThresholdsMode = "percentage"
)

// Threshold is a single step. The first step of a set is the base and covers -Inf.
type Threshold struct {
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Thresholds is an ordered set of steps.
type Thresholds struct {
	Mode  ThresholdsMode `json:"mode"`
	Steps []Threshold    `json:"steps"`
}

// ResolveValue returns the absolute value of step i within [min, max].
// The base step always resolves to -Inf.
func (t Thresholds) ResolveValue(i int, min, max float64) float64 {
	if i == 0 {
		return math.Inf(-1)
	}
	v := t.Steps[i].Value
	if t.Mode == ThresholdsPercentage {
		return min + (max-min)*v/100
	}
	return v
}

// ColorFor returns the color of the highest step whose value is <= value.
func (t Thresholds) ColorFor(value, min, max float64) string {
	if len(t.Steps) == 0 {
		return ""
	}
	color := t.Steps[0].Color
	for i := 1; i < len(t.Steps); i++ {
		if t.ResolveValue(i, min, max) > value {
			break
		}
		color = t.Steps[i].Color
	}
	return color
}

// FieldConfig is the stored description of how a value is displayed.
type FieldConfig struct {
	Min        float64    `json:"min"`
	Max        float64    `json:"max"`
	Unit       string     `json:"unit,omitempty"`
	Decimals   int        `json:"decimals"`
	ColorMode  ColorMode  `json:"colorMode"`
	FixedColor string     `json:"fixedColor,omitempty"`
	Thresholds Thresholds `json:"thresholds"`
}

// ApplyDefaults applies default values to zero fields.
func (c *FieldConfig) ApplyDefaults() {
	if c.Min == 0 && c.Max == 0 {
		c.Max = 100
	}
	if c.ColorMode == "" {
		c.ColorMode = ColorModeThresholds
	}
	if len(c.Thresholds.Steps) == 0 {
		c.Thresholds.Steps = []Threshold{
			{Color: "green"},
			{Value: 80, Color: "red"},
		}
	}
	if c.Thresholds.Mode == "" {
		c.Thresholds.Mode = ThresholdsAbsolute
	}
}

// FieldDisplay is a fully resolved value ready for rendering.
type FieldDisplay struct {
	Value      float64    `json:"value"`
	Percent    float64    `json:"percent"`
	Color      string     `json:"color"`
	Text       string     `json:"text"`
	Min        float64    `json:"min"`
	Max        float64    `json:"max"`
	ColorMode  ColorMode  `json:"colorMode"`
	FixedColor string     `json:"fixedColor,omitempty"`
	Thresholds Thresholds `json:"thresholds"`
}

// RangePercent returns (value-min)/(max-min) clamped to [0,1]. An empty range yields 0.
func RangePercent(value, min, max float64) float64 {
	if max <= min || math.IsNaN(value) {
		return 0
	}
	p := (value - min) / (max - min)
	return math.Max(0, math.Min(1, p))
}
