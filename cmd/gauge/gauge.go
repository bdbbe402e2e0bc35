package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/gauge"
	"github.com/jwulff/gauge-go/internal/storage"
	"github.com/jwulff/gauge-go/internal/theme"
)

// gaugeFlags describe a gauge on the command line, either inline or by
// naming a stored panel.
type gaugeFlags struct {
	panelID string
	value   float64

	min, max   float64
	unit       string
	decimals   int
	colorMode  string
	fixedColor string

	shape         string
	sweep         float64
	width, height int
	barWidth      float64
	segments      int
	glow          bool
	rounded       bool
	gradient      bool
	thresholdsBar bool
	labels        bool
}

func (g *gaugeFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&g.panelID, "panel", "", "render a stored panel instead of the inline flags")
	f.Float64Var(&g.value, "value", 0, "value to display (stored panels default to their latest reading)")
	g.registerPanel(cmd)
	f.IntVar(&g.width, "width", 0, "width in pixels (default from config)")
	f.IntVar(&g.height, "height", 0, "height in pixels (default from config)")
}

// registerPanel adds the flags that define a panel.
func (g *gaugeFlags) registerPanel(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&g.min, "min", 0, "minimum of the value range")
	f.Float64Var(&g.max, "max", 100, "maximum of the value range")
	f.StringVar(&g.unit, "unit", "", "unit suffix, e.g. % or °C")
	f.IntVar(&g.decimals, "decimals", 0, "decimals shown in the value text")
	f.StringVar(&g.colorMode, "color-mode", string(domain.ColorModeThresholds),
		"thresholds, fixed, shades, palette-classic or continuous-<scheme>")
	f.StringVar(&g.fixedColor, "color", "", "base color for fixed and shades modes")
	f.StringVar(&g.shape, "shape", string(domain.ShapeGauge), "gauge or circle")
	f.Float64Var(&g.sweep, "sweep", domain.DefaultGaugeSweep, "angular span of a gauge in degrees")
	f.Float64Var(&g.barWidth, "bar-width", domain.DefaultBarWidthFactor, "bar width factor")
	f.IntVar(&g.segments, "segments", 0, "sub-arcs per gradient value arc (default from config)")
	f.BoolVar(&g.glow, "glow", false, "draw a glow under the value bar")
	f.BoolVar(&g.rounded, "rounded", false, "round the bar ends")
	f.BoolVar(&g.gradient, "gradient", false, "paint the value bar with a gradient")
	f.BoolVar(&g.thresholdsBar, "thresholds-bar", false, "draw the thresholds ring")
	f.BoolVar(&g.labels, "labels", false, "draw scale labels at threshold values")
}

// panel builds a panel from the inline flags.
func (g *gaugeFlags) panel(id, title string) *domain.Panel {
	p := domain.NewPanel(id, title)
	p.Options = domain.GaugeOptions{
		Shape:           domain.RadialShape(g.shape),
		EndAngle:        g.sweep,
		BarWidthFactor:  g.barWidth,
		Glow:            g.glow,
		RoundedBars:     g.rounded,
		Gradient:        g.gradient,
		ThresholdsBar:   g.thresholdsBar,
		ShowScaleLabels: g.labels,
		Segments:        g.segments,
	}
	if p.Options.Segments <= 0 {
		p.Options.Segments = cfg.Render.Segments
	}
	p.Field = domain.FieldConfig{
		Min:        g.min,
		Max:        g.max,
		Unit:       g.unit,
		Decimals:   g.decimals,
		ColorMode:  domain.ColorMode(g.colorMode),
		FixedColor: g.fixedColor,
	}
	p.ApplyDefaults()
	return p
}

// resolve returns the panel and value to render. Stored panels are loaded
// from the store; their value is --value when given, else the latest reading.
func (g *gaugeFlags) resolve(ctx context.Context, cmd *cobra.Command) (*domain.Panel, float64, error) {
	if g.panelID == "" {
		p := g.panel("inline", "inline")
		return p, g.value, p.Validate()
	}

	store, err := openStore()
	if err != nil {
		return nil, 0, err
	}
	defer store.Close()

	p, err := store.GetPanel(ctx, g.panelID)
	if err != nil {
		return nil, 0, err
	}
	if cmd.Flags().Changed("value") {
		return p, g.value, nil
	}
	latest, err := store.LatestReading(ctx, p.ID)
	if err != nil {
		if storage.IsNotFound(err) {
			logger.Debug("panel has no readings", zap.String("panel", p.ID))
			return p, p.Field.Min, nil
		}
		return nil, 0, err
	}
	return p, latest.Value, nil
}

// size returns the requested size, falling back to the stored panel's size
// and then to the configured render size.
func (g *gaugeFlags) size(p *domain.Panel) (float64, float64) {
	w, h := float64(g.width), float64(g.height)
	if g.panelID != "" {
		if w <= 0 {
			w = p.Options.Width
		}
		if h <= 0 {
			h = p.Options.Height
		}
	}
	if w <= 0 {
		w = float64(cfg.Render.Size)
	}
	if h <= 0 {
		h = float64(cfg.Render.Size)
	}
	return w, h
}

// buildLayout resolves the gauge and lays it out.
func (g *gaugeFlags) buildLayout(cmd *cobra.Command) (gauge.Layout, error) {
	p, value, err := g.resolve(cmd.Context(), cmd)
	if err != nil {
		return gauge.Layout{}, err
	}
	th, err := panelTheme(p)
	if err != nil {
		return gauge.Layout{}, err
	}

	opts := p.Options
	opts.Width, opts.Height = g.size(p)
	fd := gauge.DisplayValue(p.Field, value, th)
	l := gauge.BuildLayout(opts, fd, th, nil)
	logger.Debug("layout built",
		zap.String("panel", p.ID),
		zap.Float64("value", value),
		zap.Float64("percent", fd.Percent),
		zap.Float64("radius", l.Dimensions.Radius))
	return l, nil
}

// panelTheme resolves --theme, then the panel's own theme, then the config.
func panelTheme(p *domain.Panel) (*theme.Theme, error) {
	if themeName == "" && p.Theme != "" {
		th, err := theme.ByName(p.Theme)
		if err != nil {
			return nil, fmt.Errorf("panel %s: %w", p.ID, err)
		}
		return th.WithContrast(cfg.Contrast), nil
	}
	return currentTheme()
}
