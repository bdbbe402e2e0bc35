package gauge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/theme"
)

func TestDisplayValueThresholds(t *testing.T) {
	th := theme.Dark()

	fd := DisplayValue(domain.FieldConfig{}, 90, th)
	assert.Equal(t, 0.9, fd.Percent)
	assert.Equal(t, "#f2495c", fd.Color)
	assert.Equal(t, "90", fd.Text)
	assert.Equal(t, 100.0, fd.Max)
	assert.Len(t, fd.Thresholds.Steps, 2)

	fd = DisplayValue(domain.FieldConfig{}, 10, th)
	assert.Equal(t, "#73bf69", fd.Color)
}

func TestDisplayValueClampsPercent(t *testing.T) {
	fd := DisplayValue(domain.FieldConfig{Min: 0, Max: 50}, 75, theme.Dark())
	assert.Equal(t, 1.0, fd.Percent)
	assert.Equal(t, 75.0, fd.Value)

	fd = DisplayValue(domain.FieldConfig{Min: 0, Max: 50}, -5, theme.Dark())
	assert.Equal(t, 0.0, fd.Percent)
}

func TestDisplayValueContinuous(t *testing.T) {
	cfg := domain.FieldConfig{ColorMode: domain.ContinuousColorMode("GrYlRd")}
	fd := DisplayValue(cfg, 50, theme.Dark())
	assert.Equal(t, "#fade2a", fd.Color)
}

func TestDisplayValueFixedAndPalette(t *testing.T) {
	th := theme.Light()

	fd := DisplayValue(domain.FieldConfig{ColorMode: domain.ColorModeFixed, FixedColor: "blue"}, 5, th)
	assert.Equal(t, "#5794f2", fd.Color)

	fd = DisplayValue(domain.FieldConfig{ColorMode: domain.ColorModePaletteClassic}, 5, th)
	assert.Equal(t, theme.PaletteColor(0), fd.Color)

	fd = DisplayValue(domain.FieldConfig{ColorMode: domain.ColorModeFixed}, 5, th)
	assert.Equal(t, th.FallbackColor, fd.Color)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "7", FormatValue(7, 0, ""))
	assert.Equal(t, "1,234.5 ms", FormatValue(1234.5, 1, "ms"))
	assert.Equal(t, "42%", FormatValue(42, 0, "%"))
	assert.Equal(t, "21°C", FormatValue(21, 0, "°C"))
	assert.Equal(t, "3", FormatValue(3, -2, ""))
}
