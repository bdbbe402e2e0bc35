package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorModeContinuous(t *testing.T) {
	m := ContinuousColorMode("GrYlRd")

	assert.True(t, m.IsContinuous())
	assert.Equal(t, "GrYlRd", m.Scheme())

	assert.False(t, ColorModeThresholds.IsContinuous())
	assert.Empty(t, ColorModeFixed.Scheme())
}

func TestThresholdsResolveValue(t *testing.T) {
	th := Thresholds{
		Mode:  ThresholdsPercentage,
		Steps: []Threshold{{Color: "green"}, {Value: 50, Color: "red"}},
	}

	assert.True(t, math.IsInf(th.ResolveValue(0, 0, 200), -1))
	assert.Equal(t, 100.0, th.ResolveValue(1, 0, 200))

	th.Mode = ThresholdsAbsolute
	assert.Equal(t, 50.0, th.ResolveValue(1, 0, 200))
}

func TestThresholdsColorFor(t *testing.T) {
	th := Thresholds{
		Mode: ThresholdsAbsolute,
		Steps: []Threshold{
			{Color: "green"},
			{Value: 60, Color: "orange"},
			{Value: 80, Color: "red"},
		},
	}

	assert.Equal(t, "green", th.ColorFor(-1000, 0, 100))
	assert.Equal(t, "green", th.ColorFor(59.9, 0, 100))
	assert.Equal(t, "orange", th.ColorFor(60, 0, 100))
	assert.Equal(t, "red", th.ColorFor(80, 0, 100))
	assert.Equal(t, "red", th.ColorFor(1e9, 0, 100))

	assert.Empty(t, Thresholds{}.ColorFor(1, 0, 100))
}

func TestRangePercent(t *testing.T) {
	assert.Equal(t, 0.5, RangePercent(50, 0, 100))
	assert.Equal(t, 0.0, RangePercent(-10, 0, 100))
	assert.Equal(t, 1.0, RangePercent(110, 0, 100))
	assert.Equal(t, 0.0, RangePercent(5, 10, 10), "empty range")
	assert.Equal(t, 0.0, RangePercent(math.NaN(), 0, 10))
}

func TestFieldConfigDefaults(t *testing.T) {
	var cfg FieldConfig
	cfg.ApplyDefaults()

	assert.Equal(t, 100.0, cfg.Max)
	assert.Equal(t, ColorModeThresholds, cfg.ColorMode)
	assert.Equal(t, ThresholdsAbsolute, cfg.Thresholds.Mode)
	require.Len(t, cfg.Thresholds.Steps, 2)
}

func TestGaugeOptionsDefaults(t *testing.T) {
	var opts GaugeOptions
	opts.ApplyDefaults()

	assert.Equal(t, float64(DefaultSize), opts.Width)
	assert.Equal(t, ShapeGauge, opts.Shape)
	assert.Equal(t, 240.0, opts.Sweep())
	assert.Equal(t, -120.0, opts.StartAngle())
	assert.Equal(t, 120.0, opts.ArcEndAngle())
	assert.Equal(t, DefaultBarWidthFactor, opts.BarWidthFactor)
}

func TestGaugeOptionsCircle(t *testing.T) {
	opts := GaugeOptions{Shape: ShapeCircle}
	opts.ApplyDefaults()

	assert.Equal(t, 360.0, opts.Sweep())
	assert.Equal(t, 0.0, opts.StartAngle())
	assert.Equal(t, 360.0, opts.ArcEndAngle())
}

func TestPanelJSON(t *testing.T) {
	p := NewPanel("p-1", "CPU")
	neutral := 0.0
	p.Options.Neutral = &neutral

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded Panel
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p.ID, decoded.ID)
	assert.Equal(t, p.Options, decoded.Options)
	assert.Equal(t, p.Field, decoded.Field)
}
