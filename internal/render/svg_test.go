package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/gauge"
	"github.com/jwulff/gauge-go/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayout(opts domain.GaugeOptions, cfg domain.FieldConfig, value float64) gauge.Layout {
	th := theme.Dark()
	fd := gauge.DisplayValue(cfg, value, th)
	return gauge.BuildLayout(opts, fd, th, nil)
}

func TestRenderSVGBasic(t *testing.T) {
	l := testLayout(domain.GaugeOptions{}, domain.FieldConfig{}, 50)

	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, l))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `width="200"`)
	assert.Contains(t, out, `<title>50</title>`)
	assert.Contains(t, out, `id="track"`)
	assert.Contains(t, out, "fill:#2c3235")
	assert.Contains(t, out, l.ValuePath)
	assert.Contains(t, out, "fill:#73bf69")
	assert.Contains(t, out, `id="value-text"`)
	assert.NotContains(t, out, "<filter")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestRenderSVGGlow(t *testing.T) {
	l := testLayout(domain.GaugeOptions{Glow: true}, domain.FieldConfig{}, 50)

	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, l))
	out := buf.String()

	assert.Contains(t, out, `<filter id="glow"`)
	assert.Contains(t, out, "feGaussianBlur")
	assert.Contains(t, out, `filter="url(#glow)"`)
}

func TestRenderSVGGradientSlices(t *testing.T) {
	opts := domain.GaugeOptions{Gradient: true, RoundedBars: true, Segments: 12}
	cfg := domain.FieldConfig{ColorMode: domain.ContinuousColorMode("GrYlRd")}
	l := testLayout(opts, cfg, 100)

	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, l))
	out := buf.String()

	// track + two caps + one slice per segment
	assert.Equal(t, 1+2+12, strings.Count(out, "<path"))
	assert.Contains(t, out, "fill:#73bf69")
	assert.Contains(t, out, "fill:"+l.EndcapEnd)
	assert.NotContains(t, out, l.ValuePath)
}

func TestRenderSVGThresholdsAndLabels(t *testing.T) {
	opts := domain.GaugeOptions{ThresholdsBar: true, ShowScaleLabels: true}
	l := testLayout(opts, domain.FieldConfig{}, 30)

	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, l))
	out := buf.String()

	assert.Contains(t, out, `id="thresholds"`)
	assert.Contains(t, out, "fill:#f2495c")
	assert.Contains(t, out, "rotate(")
	assert.Contains(t, out, ">80</text>")
}

func TestRenderSVGDecodedLayout(t *testing.T) {
	opts := domain.GaugeOptions{Gradient: true, Segments: 4}
	cfg := domain.FieldConfig{ColorMode: domain.ContinuousColorMode("GrYlRd")}
	l := testLayout(opts, cfg, 60)

	data, err := json.Marshal(l)
	require.NoError(t, err)
	var decoded gauge.Layout
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Nil(t, decoded.Source)

	var want, got bytes.Buffer
	require.NoError(t, RenderSVG(&want, l))
	require.NoError(t, RenderSVG(&got, decoded))
	assert.Equal(t, want.String(), got.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderSVGWriteError(t *testing.T) {
	l := testLayout(domain.GaugeOptions{}, domain.FieldConfig{}, 50)
	err := RenderSVG(failingWriter{}, l)
	assert.ErrorContains(t, err, "failed to write svg")
}
