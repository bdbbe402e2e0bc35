package gauge

import (
	"math"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/theme"
)

// ThresholdSegment is one colored span of the thresholds ring.
type ThresholdSegment struct {
	StartAngle float64 `json:"startAngle"`
	Sweep      float64 `json:"sweep"`
	Color      string  `json:"color"`
	Path       string  `json:"path"`

	Arc *Path `json:"-"`
}

// Layout is everything a renderer needs to draw one gauge for one value.
// A Layout is immutable once built and may be shared through Memo.
type Layout struct {
	Options     domain.GaugeOptions   `json:"options"`
	Field       domain.FieldDisplay   `json:"field"`
	Theme       string                `json:"theme"`
	Dimensions  Dimensions            `json:"dimensions"`
	StartAngle  float64               `json:"startAngle"`
	Sweep       float64               `json:"sweep"`
	ValueSweep  float64               `json:"valueSweep"`
	TrackPath   string                `json:"trackPath"`
	ValuePath   string                `json:"valuePath"`
	Stops       []domain.GradientStop `json:"stops"`
	GradientCSS string                `json:"gradientCss"`
	EndcapStart string                `json:"endcapStart"`
	EndcapEnd   string                `json:"endcapEnd"`
	Thresholds  []ThresholdSegment    `json:"thresholds,omitempty"`
	Labels      []ScaleLabel          `json:"labels,omitempty"`
	Background  string                `json:"background"`
	TrackColor  string                `json:"trackColor"`
	TextColor   string                `json:"textColor"`

	TrackArc *Path       `json:"-"`
	ValueArc *Path       `json:"-"`
	Source   ColorSource `json:"-"`
}

// BuildLayout runs the layout pipeline: dimensions, arc paths, gradient,
// thresholds ring and scale labels.
func BuildLayout(opts domain.GaugeOptions, fd domain.FieldDisplay, th *theme.Theme, m TextMeasurer) Layout {
	opts.ApplyDefaults()

	start := opts.StartAngle()
	sweep := opts.Sweep()
	dims := CalculateDimensions(opts.Width, opts.Height, opts.ArcEndAngle(), opts.Glow, opts.RoundedBars,
		opts.BarWidthFactor, 0, opts.ThresholdsBar, opts.ShowScaleLabels)

	l := Layout{
		Options:    opts,
		Field:      fd,
		Theme:      th.Name,
		Dimensions: dims,
		StartAngle: start,
		Sweep:      sweep,
		ValueSweep: clamp01(fd.Percent) * sweep,
		Background: th.Hex(th.Background),
		TrackColor: th.Hex(th.Track),
		TextColor:  th.ContrastText(th.Color(th.Background)).Hex(),
	}

	l.TrackArc = BuildRadialArc(start, sweep, dims, opts.RoundedBars)
	l.TrackPath = l.TrackArc.String()
	if l.ValueSweep > 0 {
		l.ValueArc = BuildRadialArc(start, l.ValueSweep, dims, opts.RoundedBars)
		l.ValuePath = l.ValueArc.String()
	}

	l.Stops = BuildGradientColors(opts.Gradient, th, fd, "")
	l.GradientCSS = GradientCSS(l.Stops, opts.Shape)
	l.Source = ColorSourceFor(opts.Gradient, l.Stops, th)
	if s, e, err := GetBarEndcapColors(l.Stops, fd.Percent); err == nil {
		l.EndcapStart, l.EndcapEnd = s.Hex(), e.Hex()
	}

	if opts.ThresholdsBar {
		l.Thresholds = thresholdSegments(dims, fd, start, sweep, th)
	}

	if opts.ShowScaleLabels {
		l.Labels = ScaleLabels(dims, LabelInput{
			Min:        fd.Min,
			Max:        fd.Max,
			StartAngle: start,
			Sweep:      sweep,
			Thresholds: fd.Thresholds,
			Neutral:    opts.Neutral,
		}, m)
	}

	return l
}

// thresholdSegments splits the thresholds ring into one arc per step that
// intersects [min, max].
func thresholdSegments(dims Dimensions, fd domain.FieldDisplay, start, sweep float64, th *theme.Theme) []ThresholdSegment {
	if fd.Max <= fd.Min || dims.ThresholdsBarWidth <= 0 {
		return nil
	}
	ring := dims
	ring.Radius = dims.ThresholdsBarRadius
	ring.BarWidth = dims.ThresholdsBarWidth

	steps := fd.Thresholds.Steps
	var segs []ThresholdSegment
	for i := range steps {
		lo := math.Max(fd.Thresholds.ResolveValue(i, fd.Min, fd.Max), fd.Min)
		hi := fd.Max
		if i+1 < len(steps) {
			hi = math.Min(fd.Thresholds.ResolveValue(i+1, fd.Min, fd.Max), fd.Max)
		}
		if hi <= lo {
			continue
		}
		a0 := start + (lo-fd.Min)/(fd.Max-fd.Min)*sweep
		a1 := start + (hi-fd.Min)/(fd.Max-fd.Min)*sweep
		arc := BuildRadialArc(a0, a1-a0, ring, false)
		segs = append(segs, ThresholdSegment{
			StartAngle: a0,
			Sweep:      a1 - a0,
			Color:      th.Hex(steps[i].Color),
			Path:       arc.String(),
			Arc:        arc,
		})
	}
	return segs
}
