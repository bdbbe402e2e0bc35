package domain

import (
	"fmt"
	"strings"
	"time"
)

// Default gauge layout values.
const (
	DefaultSize           = 200
	DefaultGaugeSweep     = 240
	DefaultBarWidthFactor = 0.4
	DefaultSegments       = 96
)

// GaugeOptions holds the style flags and layout parameters of one gauge.
type GaugeOptions struct {
	Width           float64     `json:"width"`
	Height          float64     `json:"height"`
	Shape           RadialShape `json:"shape"`
	EndAngle        float64     `json:"endAngle,omitempty"` // sweep in degrees for gauge shapes
	BarWidthFactor  float64     `json:"barWidthFactor"`
	Glow            bool        `json:"glow"`
	RoundedBars     bool        `json:"roundedBars"`
	Gradient        bool        `json:"gradient"`
	ThresholdsBar   bool        `json:"thresholdsBar"`
	ShowScaleLabels bool        `json:"showScaleLabels"`
	Neutral         *float64    `json:"neutral,omitempty"`
	Segments        int         `json:"segments,omitempty"` // sub-arcs used to paint gradients
}

// ApplyDefaults applies default values to zero fields.
func (o *GaugeOptions) ApplyDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultSize
	}
	if o.Height <= 0 {
		o.Height = DefaultSize
	}
	if o.Shape == "" {
		o.Shape = ShapeGauge
	}
	if o.EndAngle <= 0 {
		o.EndAngle = DefaultGaugeSweep
	}
	if o.BarWidthFactor <= 0 {
		o.BarWidthFactor = DefaultBarWidthFactor
	}
	if o.Segments <= 0 {
		o.Segments = DefaultSegments
	}
}

// Sweep returns the angular span of the gauge in degrees.
func (o GaugeOptions) Sweep() float64 {
	if o.Shape == ShapeCircle {
		return 360
	}
	if o.EndAngle > 360 {
		return 360
	}
	return o.EndAngle
}

// StartAngle returns where the arc begins; gauges are centered about the top.
func (o GaugeOptions) StartAngle() float64 {
	if o.Shape == ShapeCircle {
		return 0
	}
	return -o.Sweep() / 2
}

// ArcEndAngle returns where the arc ends, measured clockwise from the top.
func (o GaugeOptions) ArcEndAngle() float64 {
	return o.StartAngle() + o.Sweep()
}

// Panel is a stored gauge definition.
type Panel struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Theme     string       `json:"theme,omitempty"`
	Options   GaugeOptions `json:"options"`
	Field     FieldConfig  `json:"field"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NewPanel creates a panel with defaults applied.
func NewPanel(id, title string) *Panel {
	now := time.Now()
	p := &Panel{
		ID:        id,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.ApplyDefaults()
	return p
}

// ApplyDefaults applies defaults to the panel's options and field config.
func (p *Panel) ApplyDefaults() {
	p.Options.ApplyDefaults()
	p.Field.ApplyDefaults()
}

// Touch records a modification.
func (p *Panel) Touch() {
	p.UpdatedAt = time.Now()
}

// Validate reports the first problem that would keep the panel from rendering.
func (p *Panel) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("title is required")
	}
	switch p.Options.Shape {
	case "", ShapeCircle, ShapeGauge:
	default:
		return fmt.Errorf("unknown shape %q", p.Options.Shape)
	}
	if p.Options.Width < 0 || p.Options.Height < 0 {
		return fmt.Errorf("size must not be negative, got %gx%g", p.Options.Width, p.Options.Height)
	}
	if p.Field.Max < p.Field.Min {
		return fmt.Errorf("max %g is below min %g", p.Field.Max, p.Field.Min)
	}
	return nil
}
