package gauge

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/theme"
)

var (
	errTooFewInterpolationStops = errors.New("colorAtGradientPercent requires at least two color stops")
	errNoEndcapStops            = errors.New("getBarEndcapColors requires at least one color stop")
)

// Shades gradient layout.
const (
	shadesMidPercent = 0.6
	shadesDeep       = 0.15
	shadesMid        = 0.1
	shadesBright     = 0.2
)

// BuildGradientColors returns the gradient stops for a field. When the
// gradient is disabled the result is a flat two-stop gradient of baseColor
// (or the theme fallback), so callers can always interpolate.
func BuildGradientColors(enabled bool, th *theme.Theme, fd domain.FieldDisplay, baseColor string) []domain.GradientStop {
	if baseColor == "" {
		baseColor = fd.Color
	}
	if baseColor == "" {
		baseColor = th.FallbackColor
	}

	if !enabled {
		return flatGradient(baseColor)
	}

	switch {
	case fd.ColorMode == domain.ColorModeThresholds:
		return thresholdsGradient(th, fd)
	case fd.ColorMode.IsContinuous():
		if stops := rampGradient(th.Ramp(fd.ColorMode.Scheme())); stops != nil {
			return stops
		}
		return flatGradient(th.Hex(baseColor))
	case fd.ColorMode == domain.ColorModeShades:
		return shadesGradient(th, th.Color(baseColor))
	default:
		return valueGradient(th, th.Color(baseColor), fd.Percent)
	}
}

func flatGradient(color string) []domain.GradientStop {
	return []domain.GradientStop{
		{Color: color, Percent: 0},
		{Color: color, Percent: 1},
	}
}

func thresholdsGradient(th *theme.Theme, fd domain.FieldDisplay) []domain.GradientStop {
	min, max := fd.Min, fd.Max
	stops := []domain.GradientStop{
		{Color: th.Hex(fd.Thresholds.ColorFor(min, min, max)), Percent: 0},
	}
	if max > min {
		for i := 1; i < len(fd.Thresholds.Steps); i++ {
			v := fd.Thresholds.ResolveValue(i, min, max)
			if v <= min || v >= max {
				continue
			}
			stops = append(stops, domain.GradientStop{
				Color:   th.Hex(fd.Thresholds.Steps[i].Color),
				Percent: (v - min) / (max - min),
			})
		}
	}
	return append(stops, domain.GradientStop{
		Color:   th.Hex(fd.Thresholds.ColorFor(max, min, max)),
		Percent: 1,
	})
}

func rampGradient(ramp []string) []domain.GradientStop {
	switch len(ramp) {
	case 0:
		return nil
	case 1:
		return flatGradient(ramp[0])
	}
	stops := make([]domain.GradientStop, len(ramp))
	for i, c := range ramp {
		stops[i] = domain.GradientStop{Color: c, Percent: float64(i) / float64(len(ramp)-1)}
	}
	return stops
}

// shadesGradient varies lightness of a single hue. The bright end faces the
// dark background and the deep end faces the light one.
func shadesGradient(th *theme.Theme, base domain.RGB) []domain.GradientStop {
	if th.IsDark {
		return []domain.GradientStop{
			{Color: theme.Darken(base, shadesDeep).Hex(), Percent: 0},
			{Color: theme.Lighten(base, shadesMid).Hex(), Percent: shadesMidPercent},
			{Color: theme.Lighten(base, shadesBright).Hex(), Percent: 1},
		}
	}
	return []domain.GradientStop{
		{Color: theme.Lighten(base, shadesDeep).Hex(), Percent: 0},
		{Color: theme.Darken(base, shadesMid).Hex(), Percent: shadesMidPercent},
		{Color: theme.Darken(base, shadesBright).Hex(), Percent: 1},
	}
}

// valueGradient builds the two-stop hue-rotated gradient of a fixed color and
// inserts a peak stop at the value's own percent. On dark themes the peak is
// sampled at 1-percent, on light themes at percent. An empty or full bar gets
// only the two base stops.
func valueGradient(th *theme.Theme, base domain.RGB, percent float64) []domain.GradientStop {
	percent = clamp01(percent)

	from := theme.Darken(theme.Spin(base, -20), 0.05)
	to := theme.Lighten(theme.Saturate(theme.Spin(base, 20), 0.2), 0.1)

	two := []domain.GradientStop{
		{Color: to.Hex(), Percent: 0},
		{Color: from.Hex(), Percent: 1},
	}
	sampleAt := percent
	if th.IsDark {
		two[0].Color, two[1].Color = from.Hex(), to.Hex()
		sampleAt = 1 - percent
	}
	if percent <= 0 || percent >= 1 {
		return two
	}

	peak, err := ColorAtGradientPercent(two, sampleAt)
	if err != nil {
		return two
	}
	return []domain.GradientStop{
		two[0],
		{Color: peak.Hex(), Percent: percent},
		two[1],
	}
}

// ColorAtGradientPercent samples the gradient at percent. Stops may be given
// in any order; their percents and the query are clamped to [0,1]. At or
// beyond the outer stops the endpoint color is returned unchanged.
func ColorAtGradientPercent(stops []domain.GradientStop, percent float64) (domain.RGB, error) {
	if len(stops) < 2 {
		return domain.RGB{}, errTooFewInterpolationStops
	}

	sorted := sortedStops(stops)
	if math.IsNaN(percent) {
		percent = 0
	}

	first, last := sorted[0], sorted[len(sorted)-1]
	if percent <= first.Percent {
		return stopColor(first)
	}
	if percent >= last.Percent {
		return stopColor(last)
	}

	hi := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].Percent > percent
	})
	lo := hi - 1

	from, err := stopColor(sorted[lo])
	if err != nil {
		return domain.RGB{}, err
	}
	to, err := stopColor(sorted[hi])
	if err != nil {
		return domain.RGB{}, err
	}

	t := (percent - sorted[lo].Percent) / (sorted[hi].Percent - sorted[lo].Percent)
	return theme.Mix(from, to, t), nil
}

// GetBarEndcapColors returns the colors at the two ends of a bar filled to
// percent: the first stop's color, and the gradient color where the bar ends.
func GetBarEndcapColors(stops []domain.GradientStop, percent float64) (start, end domain.RGB, err error) {
	if len(stops) == 0 {
		return domain.RGB{}, domain.RGB{}, errNoEndcapStops
	}
	start, err = stopColor(stops[0])
	if err != nil {
		return domain.RGB{}, domain.RGB{}, err
	}
	if len(stops) == 1 {
		return start, start, nil
	}
	end, err = ColorAtGradientPercent(stops, percent)
	if err != nil {
		return domain.RGB{}, domain.RGB{}, err
	}
	return start, end, nil
}

// GradientCSS formats the stops as a CSS conic (circle) or linear (gauge) gradient.
func GradientCSS(stops []domain.GradientStop, shape domain.RadialShape) string {
	parts := make([]string, 0, len(stops))
	for _, s := range sortedStops(stops) {
		parts = append(parts, fmt.Sprintf("%s %.2f%%", s.Color, s.Percent*100))
	}
	if shape == domain.ShapeCircle {
		return "conic-gradient(from 0deg, " + strings.Join(parts, ", ") + ")"
	}
	return "linear-gradient(90deg, " + strings.Join(parts, ", ") + ")"
}

// sortedStops returns a clamped copy ordered by percent. Stops sharing a
// percent keep their input order, which makes a hard color edge.
func sortedStops(stops []domain.GradientStop) []domain.GradientStop {
	out := make([]domain.GradientStop, len(stops))
	for i, s := range stops {
		out[i] = domain.GradientStop{Color: s.Color, Percent: clamp01(s.Percent)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percent < out[j].Percent
	})
	return out
}

func stopColor(s domain.GradientStop) (domain.RGB, error) {
	c, err := theme.ParseColor(s.Color)
	if err != nil {
		return domain.RGB{}, fmt.Errorf("invalid gradient stop: %w", err)
	}
	return c, nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
