package gauge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/gauge-go/internal/domain"
)

type fixedMeasurer float64

func (m fixedMeasurer) MeasureText(string, float64) float64 { return float64(m) }

// tenDegrees returns a measurer whose every text spans 10 degrees of the label ring.
func tenDegrees(dims Dimensions) fixedMeasurer {
	return fixedMeasurer(2 * math.Pi * dims.ScaleLabelsRadius / 36)
}

func gaugeLabelDims() Dimensions {
	return CalculateDimensions(200, 200, 120, false, false, 0.4, 0, false, true)
}

func steps(values ...float64) domain.Thresholds {
	th := domain.Thresholds{Mode: domain.ThresholdsAbsolute, Steps: []domain.Threshold{{Color: "green"}}}
	for _, v := range values {
		th.Steps = append(th.Steps, domain.Threshold{Value: v, Color: "red"})
	}
	return th
}

func TestScaleLabelsGauge(t *testing.T) {
	dims := gaugeLabelDims()
	labels := ScaleLabels(dims, LabelInput{
		Min: 0, Max: 100, StartAngle: -120, Sweep: 240,
		Thresholds: steps(50, 100),
	}, tenDegrees(dims))
	require.Len(t, labels, 2)

	first := labels[0]
	assert.Equal(t, "50", first.Text)
	assert.InDelta(t, 0, first.Angle, 1e-9)
	assert.InDelta(t, 0, first.TextAngle, 1e-9)
	assert.Equal(t, first.TextAngle, first.Rotation)
	assert.Equal(t, dims.ScaleLabelsFontSize, first.FontSize)

	x, y := ToCartesian(dims.CenterX, dims.CenterY, dims.ScaleLabelsRadius, 0)
	assert.InDelta(t, x, first.X, 1e-9)
	assert.InDelta(t, y, first.Y, 1e-9)

	last := labels[1]
	assert.Equal(t, "100", last.Text)
	assert.InDelta(t, 120, last.Angle, 1e-9)
	assert.InDelta(t, 110, last.TextAngle, 1e-9)
}

func TestScaleLabelsFirstLabelAtStart(t *testing.T) {
	dims := gaugeLabelDims()
	neutral := 0.0
	labels := ScaleLabels(dims, LabelInput{
		Min: 0, Max: 100, StartAngle: -120, Sweep: 240,
		Thresholds: steps(50),
		Neutral:    &neutral,
	}, tenDegrees(dims))
	require.Len(t, labels, 2)

	assert.True(t, labels[0].Neutral)
	assert.InDelta(t, -120, labels[0].TextAngle, 1e-9)
	assert.InDelta(t, -10, labels[1].TextAngle, 1e-9)
}

func TestScaleLabelsInnerLabelsCentered(t *testing.T) {
	dims := gaugeLabelDims()
	labels := ScaleLabels(dims, LabelInput{
		Min: 0, Max: 100, StartAngle: -120, Sweep: 240,
		Thresholds: steps(25, 50, 75),
	}, tenDegrees(dims))
	require.Len(t, labels, 3)

	assert.InDelta(t, -60, labels[0].TextAngle, 1e-9)
	assert.InDelta(t, -5, labels[1].TextAngle, 1e-9)
	assert.InDelta(t, 50, labels[2].TextAngle, 1e-9)
}

func TestScaleLabelsSingleLabel(t *testing.T) {
	dims := gaugeLabelDims()
	in := LabelInput{Min: 0, Max: 100, StartAngle: -120, Sweep: 240}

	in.Thresholds = steps(50)
	labels := ScaleLabels(dims, in, tenDegrees(dims))
	require.Len(t, labels, 1)
	assert.InDelta(t, -5, labels[0].TextAngle, 1e-9)

	in.Thresholds = steps(0)
	labels = ScaleLabels(dims, in, tenDegrees(dims))
	require.Len(t, labels, 1)
	assert.InDelta(t, -120, labels[0].TextAngle, 1e-9)

	in.Thresholds = steps(100)
	labels = ScaleLabels(dims, in, tenDegrees(dims))
	require.Len(t, labels, 1)
	assert.InDelta(t, 110, labels[0].TextAngle, 1e-9)
}

func TestScaleLabelsNeutral(t *testing.T) {
	dims := gaugeLabelDims()
	in := LabelInput{Min: 0, Max: 100, StartAngle: -120, Sweep: 240, Thresholds: steps(50)}

	dup := 50.0
	in.Neutral = &dup
	assert.Len(t, ScaleLabels(dims, in, tenDegrees(dims)), 1)

	outside := 150.0
	in.Neutral = &outside
	assert.Len(t, ScaleLabels(dims, in, tenDegrees(dims)), 1)

	inside := 25.0
	in.Neutral = &inside
	labels := ScaleLabels(dims, in, tenDegrees(dims))
	require.Len(t, labels, 2)
	assert.Equal(t, 25.0, labels[0].Value)
	assert.True(t, labels[0].Neutral)
	assert.False(t, labels[1].Neutral)
}

func TestScaleLabelsFiltersAndSorts(t *testing.T) {
	dims := gaugeLabelDims()
	labels := ScaleLabels(dims, LabelInput{
		Min: 0, Max: 100, StartAngle: -120, Sweep: 240,
		Thresholds: steps(90, -10, 30, 120),
	}, tenDegrees(dims))

	values := make([]float64, len(labels))
	for i, l := range labels {
		values[i] = l.Value
	}
	assert.Equal(t, []float64{30, 90}, values)
}

func TestScaleLabelsPercentageThresholds(t *testing.T) {
	dims := gaugeLabelDims()
	th := steps(50)
	th.Mode = domain.ThresholdsPercentage
	labels := ScaleLabels(dims, LabelInput{
		Min: 0, Max: 200, StartAngle: -120, Sweep: 240, Thresholds: th,
	}, tenDegrees(dims))
	require.Len(t, labels, 1)
	assert.Equal(t, 100.0, labels[0].Value)
	assert.Equal(t, "100", labels[0].Text)
}

func TestScaleLabelsFullCircle(t *testing.T) {
	dims := CalculateDimensions(200, 200, 360, false, false, 0.4, 0, false, true)
	labels := ScaleLabels(dims, LabelInput{
		Min: 0, Max: 100, StartAngle: 0, Sweep: 360,
		Thresholds: steps(25, 75),
	}, tenDegrees(dims))
	require.Len(t, labels, 2)

	assert.InDelta(t, 90, labels[0].TextAngle, 1e-9)
	assert.InDelta(t, 260, labels[1].TextAngle, 1e-9)
}

func TestScaleLabelsEmpty(t *testing.T) {
	dims := gaugeLabelDims()
	m := tenDegrees(dims)

	assert.Nil(t, ScaleLabels(dims, LabelInput{Min: 10, Max: 10, Sweep: 240, Thresholds: steps(10)}, m))
	assert.Nil(t, ScaleLabels(dims, LabelInput{Min: 0, Max: 100, Sweep: 0, Thresholds: steps(10)}, m))

	noLabels := CalculateDimensions(200, 200, 120, false, false, 0.4, 0, false, false)
	assert.Nil(t, ScaleLabels(noLabels, LabelInput{Min: 0, Max: 100, Sweep: 240, Thresholds: steps(10)}, m))
}

func TestScaleLabelsDefaultMeasurer(t *testing.T) {
	dims := gaugeLabelDims()
	labels := ScaleLabels(dims, LabelInput{
		Min: 0, Max: 100, StartAngle: -120, Sweep: 240, Thresholds: steps(50),
	}, nil)
	require.Len(t, labels, 1)
	assert.Less(t, labels[0].TextAngle, labels[0].Angle)
}

func TestFontMeasurer(t *testing.T) {
	m := NewFontMeasurer()
	assert.InDelta(t, 21, m.MeasureText("abc", 13), 1e-9)
	assert.InDelta(t, 42, m.MeasureText("abc", 26), 1e-9)
	assert.Zero(t, m.MeasureText("", 13))
	assert.Zero(t, m.MeasureText("abc", 0))
}
