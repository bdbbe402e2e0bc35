package gauge

import (
	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/theme"
)

// ColorSource is how a bar is painted: one flat color or a gradient.
type ColorSource interface {
	// Resolve returns the paint at a fraction of the bar's full sweep.
	Resolve(percent float64) domain.RGB
	colorSource()
}

// FixedColor paints every point the same color.
type FixedColor struct {
	Color domain.RGB
}

// Resolve implements ColorSource.
func (f FixedColor) Resolve(float64) domain.RGB { return f.Color }

func (FixedColor) colorSource() {}

// GradientColor paints by sampling gradient stops.
type GradientColor struct {
	Stops    []domain.GradientStop
	Fallback domain.RGB
}

// Resolve implements ColorSource. Invalid gradients fall back to Fallback.
func (g GradientColor) Resolve(percent float64) domain.RGB {
	c, err := ColorAtGradientPercent(g.Stops, percent)
	if err != nil {
		return g.Fallback
	}
	return c
}

func (GradientColor) colorSource() {}

// ColorSourceFor picks a FixedColor when the gradient is disabled or flat,
// and a GradientColor otherwise.
func ColorSourceFor(enabled bool, stops []domain.GradientStop, th *theme.Theme) ColorSource {
	fallback := th.Color(th.FallbackColor)
	if len(stops) == 0 {
		return FixedColor{Color: fallback}
	}
	first := th.Color(stops[0].Color)
	if !enabled || isFlat(stops) {
		return FixedColor{Color: first}
	}
	return GradientColor{Stops: stops, Fallback: first}
}

func isFlat(stops []domain.GradientStop) bool {
	for _, s := range stops[1:] {
		if s.Color != stops[0].Color {
			return false
		}
	}
	return true
}
