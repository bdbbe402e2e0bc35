package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/gauge-go/internal/domain"
)

func TestByName(t *testing.T) {
	th, err := ByName("dark")
	require.NoError(t, err)
	assert.True(t, th.IsDark)

	th, err = ByName("LIGHT")
	require.NoError(t, err)
	assert.False(t, th.IsDark)

	// Empty name defaults to dark
	th, err = ByName("")
	require.NoError(t, err)
	assert.Equal(t, NameDark, th.Name)

	_, err = ByName("solarized")
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	th := Dark()

	c, err := th.ParseColor("green")
	require.NoError(t, err)
	assert.Equal(t, "#73bf69", c.Hex())

	c, err = th.ParseColor("Semi-Dark-Red")
	require.NoError(t, err)
	assert.Equal(t, "#e02f44", c.Hex())

	c, err = th.ParseColor("#00ff00")
	require.NoError(t, err)
	assert.Equal(t, domain.NewRGB(0, 255, 0), c)

	_, err = th.ParseColor("chartreuse-ish")
	assert.Error(t, err)
}

func TestColorFallback(t *testing.T) {
	th := Light()
	assert.Equal(t, th.FallbackColor, th.Color("nope").Hex())
	assert.Equal(t, "#ff0000", th.Color("#f00").Hex())
}

func TestHex(t *testing.T) {
	th := Dark()
	assert.Equal(t, "#5794f2", th.Hex("blue"))
	assert.Equal(t, "nope", th.Hex("nope"))
}

func TestRamp(t *testing.T) {
	th := Dark()

	r := th.Ramp("GrYlRd")
	require.Len(t, r, 3)
	// Mutating the copy must not leak into the scheme
	r[0] = "#000000"
	assert.Equal(t, "#73bf69", th.Ramp("GrYlRd")[0])

	assert.Nil(t, th.Ramp("unknown"))
	assert.Contains(t, Schemes(), "viridis")
}

func TestPaletteColor(t *testing.T) {
	assert.Equal(t, "#73bf69", PaletteColor(0))
	assert.Equal(t, PaletteColor(1), PaletteColor(7))
	assert.NotEmpty(t, PaletteColor(-3))
}

func TestContrastRatio(t *testing.T) {
	black := domain.NewRGB(0, 0, 0)
	white := domain.NewRGB(255, 255, 255)

	assert.InDelta(t, 21.0, ContrastRatio(black, white), 0.01)
	assert.InDelta(t, 1.0, ContrastRatio(white, white), 0.0001)
	assert.Equal(t, ContrastRatio(black, white), ContrastRatio(white, black))
}

func TestContrastText(t *testing.T) {
	th := Dark()

	// Light backgrounds get the dark gray
	assert.Equal(t, th.Contrast.Gray05, th.ContrastText(domain.NewRGB(250, 250, 250)).Hex())
	// Dark backgrounds get the light gray
	assert.Equal(t, th.Contrast.Gray90, th.ContrastText(domain.NewRGB(10, 10, 40)).Hex())
}

func TestWithContrast(t *testing.T) {
	th := Dark().WithContrast(ContrastConfig{Gray05: "#000000", Threshold: 30})

	assert.Equal(t, "#000000", th.Contrast.Gray05)
	assert.Equal(t, DefaultContrast().Gray90, th.Contrast.Gray90)
	// An unreachable threshold always selects the light text
	assert.Equal(t, th.Contrast.Gray90, th.ContrastText(domain.NewRGB(255, 255, 255)).Hex())
	// Original theme untouched
	assert.Equal(t, DefaultContrast(), Dark().Contrast)
}

func TestMix(t *testing.T) {
	black := domain.NewRGB(0, 0, 0)
	white := domain.NewRGB(255, 255, 255)

	assert.Equal(t, black, Mix(black, white, 0))
	assert.Equal(t, white, Mix(black, white, 1))
	assert.Equal(t, domain.NewRGB(128, 128, 128), Mix(black, white, 0.5))
	assert.Equal(t, white, Mix(black, white, 3), "t is clamped")
}

func TestLightenDarken(t *testing.T) {
	c := domain.NewRGB(0x57, 0x94, 0xf2)

	assert.Greater(t, RelativeLuminance(Lighten(c, 0.2)), RelativeLuminance(c))
	assert.Less(t, RelativeLuminance(Darken(c, 0.2)), RelativeLuminance(c))
	assert.Equal(t, domain.NewRGB(255, 255, 255), Lighten(c, 1))
	assert.Equal(t, domain.NewRGB(0, 0, 0), Darken(c, 1))
}

func TestSpin(t *testing.T) {
	red := domain.NewRGB(255, 0, 0)

	assert.Equal(t, domain.NewRGB(0, 255, 0), Spin(red, 120))
	assert.Equal(t, domain.NewRGB(0, 0, 255), Spin(red, -120))
	assert.Equal(t, red, Spin(red, 360))
}

func TestSaturate(t *testing.T) {
	gray := domain.NewRGB(128, 128, 128)
	assert.Equal(t, gray, Saturate(gray, -0.5))

	c := domain.NewRGB(100, 150, 200)
	_, s0, _ := c.Colorful().Hsl()
	_, s1, _ := Saturate(c, 0.2).Colorful().Hsl()
	assert.Greater(t, s1, s0)
}
