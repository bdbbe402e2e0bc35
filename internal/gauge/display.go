package gauge

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/theme"
)

// DisplayValue resolves a raw value against its field config into the
// FieldDisplay consumed by the gradient builder and renderers.
func DisplayValue(cfg domain.FieldConfig, value float64, th *theme.Theme) domain.FieldDisplay {
	cfg.ApplyDefaults()
	percent := domain.RangePercent(value, cfg.Min, cfg.Max)

	fd := domain.FieldDisplay{
		Value:      value,
		Percent:    percent,
		Text:       FormatValue(value, cfg.Decimals, cfg.Unit),
		Min:        cfg.Min,
		Max:        cfg.Max,
		ColorMode:  cfg.ColorMode,
		FixedColor: cfg.FixedColor,
		Thresholds: cfg.Thresholds,
	}

	switch {
	case cfg.ColorMode == domain.ColorModeThresholds:
		fd.Color = th.Hex(cfg.Thresholds.ColorFor(value, cfg.Min, cfg.Max))
	case cfg.ColorMode.IsContinuous():
		stops := rampGradient(th.Ramp(cfg.ColorMode.Scheme()))
		if c, err := ColorAtGradientPercent(stops, percent); err == nil {
			fd.Color = c.Hex()
		} else if len(stops) > 0 {
			fd.Color = th.Hex(stops[0].Color)
		}
	case cfg.ColorMode == domain.ColorModePaletteClassic && cfg.FixedColor == "":
		fd.Color = theme.PaletteColor(0)
	default:
		fd.Color = th.Hex(cfg.FixedColor)
	}

	if fd.Color == "" {
		fd.Color = th.FallbackColor
	}
	return fd
}

// FormatValue renders a value with a fixed number of decimals, digit grouping
// and an optional unit suffix.
func FormatValue(value float64, decimals int, unit string) string {
	if decimals < 0 {
		decimals = 0
	}
	text := humanize.CommafWithDigits(value, decimals)
	if unit == "" {
		return text
	}
	if unit == "%" || strings.HasPrefix(unit, "°") {
		return text + unit
	}
	return text + " " + unit
}
