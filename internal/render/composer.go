package render

import (
	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/gauge"
	"github.com/jwulff/gauge-go/internal/theme"
)

// DisplayWidth is the default Pixoo64 display width.
const DisplayWidth = 64

// DisplayHeight is the default Pixoo64 display height.
const DisplayHeight = 64

// ComposerData contains all data needed to render a panel frame.
type ComposerData struct {
	Panel *domain.Panel
	Value float64
	Theme *theme.Theme
}

// ComposeLayout resolves the panel's value and lays it out at width x height.
func ComposeLayout(data ComposerData, width, height int) gauge.Layout {
	th := data.Theme
	if th == nil {
		th = theme.Dark()
	}
	opts := data.Panel.Options
	opts.Width = float64(width)
	opts.Height = float64(height)

	fd := gauge.DisplayValue(data.Panel.Field, data.Value, th)
	return gauge.BuildLayout(opts, fd, th, nil)
}

// ComposeFrame renders the panel for the LED display.
func ComposeFrame(data ComposerData) *domain.Frame {
	return RenderFrame(ComposeLayout(data, DisplayWidth, DisplayHeight))
}
