package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/gauge"
	"github.com/jwulff/gauge-go/internal/theme"
)

// sliceOverlap extends every gradient slice but the last so neighbours
// overlap and no background shows through anti-aliased seams.
const sliceOverlap = 0.5

// Value text sizing relative to the bar's inner radius.
const (
	valueFontRatio = 0.45
	minValueFont   = 8.0
)

// RenderSVG writes the layout as a standalone SVG document.
func RenderSVG(w io.Writer, l gauge.Layout) error {
	var buf bytes.Buffer
	width, height := frameSize(l)

	canvas := svg.New(&buf)
	canvas.Start(width, height)
	canvas.Title(l.Field.Text)

	if l.Options.Glow {
		std := math.Max(l.Dimensions.Margin/2, 1)
		canvas.Def()
		canvas.Filter("glow", `x="-20%"`, `y="-20%"`, `width="140%"`, `height="140%"`)
		canvas.FeGaussianBlur(svg.Filterspec{In: "SourceGraphic", Result: "blur"}, std, std)
		canvas.FeMerge([]string{"blur", "SourceGraphic"})
		canvas.Fend()
		canvas.DefEnd()
	}

	canvas.Rect(0, 0, width, height, "fill:"+l.Background)

	if l.TrackPath != "" {
		canvas.Path(l.TrackPath, `id="track"`, "fill:"+l.TrackColor)
	}

	if len(l.Thresholds) > 0 {
		canvas.Group(`id="thresholds"`)
		for _, seg := range l.Thresholds {
			if seg.Path != "" {
				canvas.Path(seg.Path, "fill:"+seg.Color)
			}
		}
		canvas.Gend()
	}

	drawValueSVG(canvas, l)

	for _, label := range l.Labels {
		canvas.Gtransform(fmt.Sprintf("translate(%s %s) rotate(%s)", svgNum(label.X), svgNum(label.Y), svgNum(label.Rotation)))
		canvas.Text(0, 0, label.Text,
			"text-anchor:start;dominant-baseline:middle;font-family:sans-serif;font-size:"+svgNum(label.FontSize)+"px;fill:"+l.TextColor)
		canvas.Gend()
	}

	if l.Field.Text != "" {
		size := math.Max(l.Dimensions.InnerRadius()*valueFontRatio, minValueFont)
		canvas.Text(int(math.Round(l.Dimensions.CenterX)), int(math.Round(l.Dimensions.CenterY)), l.Field.Text,
			`id="value-text"`,
			"text-anchor:middle;dominant-baseline:central;font-family:sans-serif;font-weight:500;font-size:"+svgNum(size)+"px;fill:"+valueTextColor(l))
	}

	canvas.End()

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

func drawValueSVG(canvas *svg.SVG, l gauge.Layout) {
	if l.ValuePath == "" {
		return
	}
	attrs := []string{`id="value"`}
	if l.Options.Glow {
		attrs = append(attrs, `filter="url(#glow)"`)
	}
	canvas.Group(attrs...)
	defer canvas.Gend()

	src := layoutSource(l)
	if fixed, ok := src.(gauge.FixedColor); ok {
		canvas.Path(l.ValuePath, "fill:"+fixed.Color.Hex())
		return
	}

	if l.Options.RoundedBars {
		canvas.Path(capPath(l.Dimensions, l.StartAngle).String(), "fill:"+l.EndcapStart)
		canvas.Path(capPath(l.Dimensions, l.StartAngle+l.ValueSweep).String(), "fill:"+l.EndcapEnd)
	}
	for _, s := range valueSlices(l, src) {
		canvas.Path(s.path.String(), "fill:"+s.color.Hex())
	}
}

type valueSlice struct {
	path  *gauge.Path
	color domain.RGB
}

// valueSlices cuts the value arc into square-ended sub-arcs, each painted with
// the gradient color at its middle. The gradient spans the full track sweep.
func valueSlices(l gauge.Layout, src gauge.ColorSource) []valueSlice {
	if l.ValueSweep <= 0 || l.Sweep <= 0 {
		return nil
	}
	segments := l.Options.Segments
	if segments <= 0 {
		segments = domain.DefaultSegments
	}
	n := int(math.Ceil(float64(segments) * l.ValueSweep / l.Sweep))
	if n < 1 {
		n = 1
	}
	step := l.ValueSweep / float64(n)

	slices := make([]valueSlice, 0, n)
	for i := 0; i < n; i++ {
		start := l.StartAngle + step*float64(i)
		length := step
		if i < n-1 {
			length += sliceOverlap
		}
		p := gauge.BuildRadialArc(start, length, l.Dimensions, false)
		if p == nil {
			continue
		}
		mid := (step*float64(i) + step/2) / l.Sweep
		slices = append(slices, valueSlice{path: p, color: src.Resolve(mid)})
	}
	return slices
}

// capPath returns the disc that rounds a bar end at angle.
func capPath(dims gauge.Dimensions, angle float64) *gauge.Path {
	cx, cy := gauge.ToCartesian(dims.CenterX, dims.CenterY, dims.Radius, angle)
	r := dims.BarWidth / 2
	p := &gauge.Path{}
	p.MoveTo(gauge.ToCartesian(cx, cy, r, 0))
	p.ArcTo(cx, cy, r, 0, 180)
	p.ArcTo(cx, cy, r, 180, 360)
	p.Close()
	return p
}

// layoutTheme returns the layout's theme, dark when the name is unknown.
func layoutTheme(l gauge.Layout) *theme.Theme {
	th, err := theme.ByName(l.Theme)
	if err != nil {
		return theme.Dark()
	}
	return th
}

// layoutSource returns the layout's color source, rebuilding it for layouts
// decoded from JSON.
func layoutSource(l gauge.Layout) gauge.ColorSource {
	if l.Source != nil {
		return l.Source
	}
	return gauge.ColorSourceFor(l.Options.Gradient, l.Stops, layoutTheme(l))
}

func valueTextColor(l gauge.Layout) string {
	if l.Field.Color != "" {
		return l.Field.Color
	}
	return l.TextColor
}

func frameSize(l gauge.Layout) (int, int) {
	w := int(math.Round(l.Options.Width))
	h := int(math.Round(l.Options.Height))
	if w < 1 {
		w = domain.DefaultSize
	}
	if h < 1 {
		h = domain.DefaultSize
	}
	return w, h
}

func svgNum(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
