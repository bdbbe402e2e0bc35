package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPanelDefaults(t *testing.T) {
	p := NewPanel("p1", "CPU")

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, float64(DefaultSize), p.Options.Width)
	assert.Equal(t, ShapeGauge, p.Options.Shape)
	assert.Equal(t, 100.0, p.Field.Max)
	assert.Equal(t, ColorModeThresholds, p.Field.ColorMode)
	require.Len(t, p.Field.Thresholds.Steps, 2)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestPanelValidate(t *testing.T) {
	assert.NoError(t, NewPanel("p1", "CPU").Validate())

	p := NewPanel("p1", " ")
	assert.EqualError(t, p.Validate(), "title is required")

	p = NewPanel("p1", "CPU")
	p.Options.Shape = "square"
	assert.EqualError(t, p.Validate(), `unknown shape "square"`)

	p = NewPanel("p1", "CPU")
	p.Field.Min, p.Field.Max = 10, 5
	assert.EqualError(t, p.Validate(), "max 5 is below min 10")
}

func TestGaugeOptionsAngles(t *testing.T) {
	o := GaugeOptions{}
	o.ApplyDefaults()
	assert.Equal(t, 240.0, o.Sweep())
	assert.Equal(t, -120.0, o.StartAngle())
	assert.Equal(t, 120.0, o.ArcEndAngle())

	c := GaugeOptions{Shape: ShapeCircle, EndAngle: 90}
	assert.Equal(t, 360.0, c.Sweep())
	assert.Equal(t, 0.0, c.StartAngle())
}
