package gauge

import "math"

// MaxArcLength is the longest arc drawn as a single ring segment. A full 360
// degree arc has coinciding endpoints and renders as nothing.
const MaxArcLength = 359.99

// BuildRadialArc returns the filled outline of a bar of width dims.BarWidth
// centered on dims.Radius, starting at startAngle and spanning arcLength
// degrees clockwise. It returns nil when the bar has no inner radius.
func BuildRadialArc(startAngle, arcLength float64, dims Dimensions, roundedBars bool) *Path {
	if arcLength >= 360 {
		arcLength = MaxArcLength
	}
	if arcLength < 0 {
		arcLength = 0
	}

	half := dims.BarWidth / 2
	outerR := dims.Radius + half
	innerR := math.Max(0, dims.Radius-half)
	if innerR == 0 {
		return nil
	}

	cx, cy := dims.CenterX, dims.CenterY
	endAngle := startAngle + arcLength

	p := &Path{}
	p.MoveTo(ToCartesian(cx, cy, outerR, startAngle))
	p.ArcTo(cx, cy, outerR, startAngle, endAngle)

	if roundedBars {
		capX, capY := ToCartesian(cx, cy, dims.Radius, endAngle)
		p.ArcTo(capX, capY, half, endAngle, endAngle+180)
	} else {
		p.LineTo(ToCartesian(cx, cy, innerR, endAngle))
	}

	p.ArcTo(cx, cy, innerR, endAngle, startAngle)

	if roundedBars {
		capX, capY := ToCartesian(cx, cy, dims.Radius, startAngle)
		p.ArcTo(capX, capY, half, startAngle+180, startAngle+360)
	} else {
		p.LineTo(ToCartesian(cx, cy, outerR, startAngle))
	}

	p.Close()
	return p
}

// DrawRadialArcPath returns the SVG path data of BuildRadialArc, or "" when
// the geometry is degenerate.
func DrawRadialArcPath(startAngle, arcLength float64, dims Dimensions, roundedBars bool) string {
	return BuildRadialArc(startAngle, arcLength, dims, roundedBars).String()
}
