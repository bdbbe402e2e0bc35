package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"strings"

	"golang.org/x/image/vector"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/gauge"
)

// Raster tuning.
const (
	flattenTolerance = 0.2
	valueTextFill    = 1.4 // share of the inner diameter the value text may span
	maxValueScale    = 8
)

// RenderFrame rasterizes the layout into a frame the size of its options.
// The value arc is painted per pixel by the pixel's angular position along
// the track, so gradients follow the arc exactly.
func RenderFrame(l gauge.Layout) *domain.Frame {
	width, height := frameSize(l)
	th := layoutTheme(l)
	frame := domain.NewFrameWithColor(width, height, th.Color(l.Background))

	r := newRasterizer(width, height)
	dims := l.Dimensions
	rounded := l.Options.RoundedBars

	track := th.Color(l.TrackColor)
	r.fill(frame, arcOr(l.TrackArc, l.StartAngle, l.Sweep, dims, rounded), 1, func(int, int) domain.RGB {
		return track
	})

	for _, seg := range l.Thresholds {
		ring := dims
		ring.Radius = dims.ThresholdsBarRadius
		ring.BarWidth = dims.ThresholdsBarWidth
		c := th.Color(seg.Color)
		r.fill(frame, arcOr(seg.Arc, seg.StartAngle, seg.Sweep, ring, false), 1, func(int, int) domain.RGB {
			return c
		})
	}

	if l.ValueSweep > 0 {
		src := layoutSource(l)
		paint := func(x, y int) domain.RGB {
			return src.Resolve(angularPercent(l, x, y))
		}
		if l.Options.Glow {
			halo := dims
			halo.BarWidth += 2 * math.Max(dims.Margin, 1)
			r.fill(frame, gauge.BuildRadialArc(l.StartAngle, l.ValueSweep, halo, rounded), glowAlpha, func(x, y int) domain.RGB {
				return GlowColor(paint(x, y))
			})
		}
		r.fill(frame, arcOr(l.ValueArc, l.StartAngle, l.ValueSweep, dims, rounded), 1, paint)
	}

	text := th.Color(l.TextColor)
	for _, label := range l.Labels {
		DrawTinyText(frame, strings.ToUpper(label.Text), int(math.Round(label.X)), int(math.Round(label.Y))-TinyCharHeight/2, text)
	}

	drawValueText(frame, l, th.Color(valueTextColor(l)))
	return frame
}

// EncodePNG writes the frame as a PNG image.
func EncodePNG(w io.Writer, frame *domain.Frame) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, frame.Image()); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

type rasterizer struct {
	z    *vector.Rasterizer
	mask *image.Alpha
}

func newRasterizer(width, height int) *rasterizer {
	return &rasterizer{
		z:    vector.NewRasterizer(width, height),
		mask: image.NewAlpha(image.Rect(0, 0, width, height)),
	}
}

// fill rasterizes p into the coverage mask and blends paint into the frame
// with the covered alpha scaled by opacity.
func (r *rasterizer) fill(frame *domain.Frame, p *gauge.Path, opacity float64, paint func(x, y int) domain.RGB) {
	if p.IsEmpty() {
		return
	}
	b := r.mask.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	for _, poly := range p.Flatten(flattenTolerance) {
		r.z.MoveTo(float32(poly[0].X), float32(poly[0].Y))
		for _, pt := range poly[1:] {
			r.z.LineTo(float32(pt.X), float32(pt.Y))
		}
		r.z.ClosePath()
	}
	for i := range r.mask.Pix {
		r.mask.Pix[i] = 0
	}
	r.z.Draw(r.mask, b, image.Opaque, image.Point{})

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := r.mask.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			frame.BlendPixel(x, y, paint(x, y), float64(a)/255*opacity)
		}
	}
}

// arcOr returns p, or rebuilds the arc for layouts decoded from JSON.
func arcOr(p *gauge.Path, start, sweep float64, dims gauge.Dimensions, rounded bool) *gauge.Path {
	if !p.IsEmpty() {
		return p
	}
	if sweep <= 0 {
		return nil
	}
	return gauge.BuildRadialArc(start, sweep, dims, rounded)
}

// angularPercent returns how far along the track sweep the pixel center lies.
// Pixels in the start cap, just before the start angle, map below zero.
func angularPercent(l gauge.Layout, x, y int) float64 {
	if l.Sweep <= 0 {
		return 0
	}
	dx := float64(x) + 0.5 - l.Dimensions.CenterX
	dy := float64(y) + 0.5 - l.Dimensions.CenterY
	deg := math.Atan2(dy, dx)*180/math.Pi + 90

	rel := math.Mod(deg-l.StartAngle, 360)
	if rel < 0 {
		rel += 360
	}
	if rel > l.Sweep+(360-l.Sweep)/2 {
		rel -= 360
	}
	return rel / l.Sweep
}

func drawValueText(frame *domain.Frame, l gauge.Layout, color domain.RGB) {
	text := strings.ToUpper(strings.TrimSpace(l.Field.Text))
	w := MeasureTinyText(text)
	if w == 0 {
		return
	}
	scale := int(l.Dimensions.InnerRadius() * valueTextFill / float64(w))
	if scale < 1 {
		scale = 1
	}
	if scale > maxValueScale {
		scale = maxValueScale
	}
	DrawTinyTextCenteredAt(frame, text, int(math.Round(l.Dimensions.CenterX)), int(math.Round(l.Dimensions.CenterY)), scale, color)
}
