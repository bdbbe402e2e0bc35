package gauge

import (
	"math"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/jwulff/gauge-go/internal/domain"
)

// LabelInput describes the value range and arc that scale labels annotate.
type LabelInput struct {
	Min        float64
	Max        float64
	StartAngle float64
	Sweep      float64
	Thresholds domain.Thresholds
	Neutral    *float64
}

// ScaleLabel is one positioned label. Text starts at (X, Y) and runs along the
// arc tangent, i.e. rotated by Rotation degrees about (X, Y).
type ScaleLabel struct {
	Text      string  `json:"text"`
	Value     float64 `json:"value"`
	Angle     float64 `json:"angle"`     // angle of the value itself
	TextAngle float64 `json:"textAngle"` // angle where the text starts
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Rotation  float64 `json:"rotation"`
	FontSize  float64 `json:"fontSize"`
	Neutral   bool    `json:"neutral,omitempty"`
}

// ScaleLabels places threshold values (and the optional neutral value) along
// the arc. Inner labels are centered on their value. Of two or more labels the
// first always starts at its value and the last always ends at its value, so
// both lean inward. A lone label is centered unless that would push it past an
// end of a partial arc.
func ScaleLabels(dims Dimensions, in LabelInput, m TextMeasurer) []ScaleLabel {
	if in.Max <= in.Min || dims.ScaleLabelsRadius <= 0 || in.Sweep <= 0 {
		return nil
	}
	if m == nil {
		m = NewFontMeasurer()
	}

	labels := make([]ScaleLabel, 0, len(in.Thresholds.Steps)+1)
	for i := range in.Thresholds.Steps {
		v := in.Thresholds.ResolveValue(i, in.Min, in.Max)
		if v < in.Min || v > in.Max {
			continue
		}
		labels = append(labels, ScaleLabel{Value: v})
	}

	if in.Neutral != nil {
		n := *in.Neutral
		if n >= in.Min && n <= in.Max && !hasValue(labels, n) {
			labels = append(labels, ScaleLabel{Value: n, Neutral: true})
		}
	}

	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Value < labels[j].Value
	})

	sweep := math.Min(in.Sweep, 360)
	end := in.StartAngle + sweep
	fullCircle := sweep >= 360
	circumference := 2 * math.Pi * dims.ScaleLabelsRadius
	last := len(labels) - 1

	for i := range labels {
		l := &labels[i]
		l.Text = humanize.FtoaWithDigits(l.Value, 2)
		l.FontSize = dims.ScaleLabelsFontSize
		l.Angle = in.StartAngle + (l.Value-in.Min)/(in.Max-in.Min)*sweep

		widthDeg := m.MeasureText(l.Text, l.FontSize) / circumference * 360
		offset := -widthDeg / 2
		switch {
		case last == 0:
			if !fullCircle && l.Angle-widthDeg/2 < in.StartAngle {
				offset = 0
			}
			if !fullCircle && l.Angle+widthDeg/2 > end {
				offset = -widthDeg
			}
		case i == 0:
			offset = 0
		case i == last:
			offset = -widthDeg
		}

		l.TextAngle = l.Angle + offset
		l.X, l.Y = ToCartesian(dims.CenterX, dims.CenterY, dims.ScaleLabelsRadius, l.TextAngle)
		l.Rotation = l.TextAngle
	}

	return labels
}

func hasValue(labels []ScaleLabel, v float64) bool {
	for _, l := range labels {
		if l.Value == v {
			return true
		}
	}
	return false
}
