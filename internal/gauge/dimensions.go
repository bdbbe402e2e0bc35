package gauge

import "math"

// Layout tuning constants.
const (
	MinBarWidth          = 2.0
	GlowMarginRatio      = 0.02
	BarGap               = 4.0
	MinScaleLabelFont    = 10.0
	MinThresholdsBar     = 4.0
	MaxThresholdsBar     = 12.0
	scaleLabelLineHeight = 1.2
)

// Dimensions is the computed layout of one gauge bar and its rings.
type Dimensions struct {
	Radius               float64 `json:"radius"`
	CenterX              float64 `json:"centerX"`
	CenterY              float64 `json:"centerY"`
	BarWidth             float64 `json:"barWidth"`
	Margin               float64 `json:"margin"`
	BarIndex             int     `json:"barIndex"`
	ThresholdsBarRadius  float64 `json:"thresholdsBarRadius"`
	ThresholdsBarWidth   float64 `json:"thresholdsBarWidth"`
	ThresholdsBarSpacing float64 `json:"thresholdsBarSpacing"`
	ScaleLabelsFontSize  float64 `json:"scaleLabelsFontSize"`
	ScaleLabelsSpacing   float64 `json:"scaleLabelsSpacing"`
	ScaleLabelsRadius    float64 `json:"scaleLabelsRadius"`
	GaugeBottomY         float64 `json:"gaugeBottomY"`
}

// CalculateDimensions lays out a gauge inside a width x height box.
//
// endAngle is where the arc ends, measured clockwise from the top; a gauge is
// symmetric about the top, so only the first 180 degrees affect how far the
// drawing reaches below the center. Rings are reserved from the outside in:
// scale labels, thresholds bar, then the value bars (barIndex 0 outermost).
// A non-positive radius is not guarded here; BuildRadialArc refuses to draw it.
func CalculateDimensions(width, height, endAngle float64, glow, roundedBars bool, barWidthFactor float64, barIndex int, thresholdsBar, showScaleLabels bool) Dimensions {
	yMaxAngle := math.Min(endAngle, 180)

	margin := 0.0
	if glow {
		margin = GlowMarginRatio * math.Min(width, height)
	}

	below := math.Max(0, math.Sin(ToRad(yMaxAngle)))

	maxRadiusW := width/2 - margin
	maxRadiusH := (height - 2*margin) / (1 + below)
	maxRadius := math.Min(maxRadiusW, maxRadiusH)
	heightBound := maxRadiusH < maxRadiusW

	barWidth := math.Max(barWidthFactor*maxRadius/3, MinBarWidth)

	outer := maxRadius
	if roundedBars && yMaxAngle < 180 {
		outer -= barWidth
	}

	dims := Dimensions{
		CenterX:  width / 2,
		BarWidth: barWidth,
		Margin:   margin,
		BarIndex: barIndex,
	}

	if showScaleLabels {
		fontSize := math.Max(0.12*math.Pow(math.Max(maxRadius, 0), 0.92), MinScaleLabelFont)
		spacing := fontSize * 0.4
		dims.ScaleLabelsFontSize = fontSize
		dims.ScaleLabelsSpacing = spacing
		dims.ScaleLabelsRadius = outer - fontSize*scaleLabelLineHeight/2
		outer -= fontSize*scaleLabelLineHeight + spacing
		if heightBound && yMaxAngle < 180 {
			// end labels of a partial arc hang below the bar ends
			outer -= fontSize / 2
		}
	}

	if thresholdsBar {
		w := math.Max(MinThresholdsBar, math.Min(MaxThresholdsBar, 0.2*math.Pow(barWidth, 0.92)))
		spacing := w/2 + 1
		dims.ThresholdsBarWidth = w
		dims.ThresholdsBarSpacing = spacing
		dims.ThresholdsBarRadius = outer - w/2
		outer -= w + spacing
	}

	dims.Radius = math.Max(0, outer-barWidth/2-(barWidth+BarGap)*float64(barIndex))

	dims.CenterY = (height-maxRadius*(1+below))/2 + maxRadius
	dims.GaugeBottomY = dims.CenterY + maxRadius*below

	return dims
}

// InnerRadius returns the inner edge of the bar, never negative.
func (d Dimensions) InnerRadius() float64 {
	return math.Max(0, d.Radius-d.BarWidth/2)
}

// OuterRadius returns the outer edge of the bar.
func (d Dimensions) OuterRadius() float64 {
	return d.Radius + d.BarWidth/2
}
