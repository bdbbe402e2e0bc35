// Package gauge computes radial gauge geometry: layout dimensions, arc paths,
// gradient color stops and scale label placement.
//
// Angles are in degrees, measured clockwise with 0 pointing up. All functions
// are pure; memoization is left to the caller (see Memo).
package gauge

import "math"

// ToRad converts a gauge angle in degrees to standard radians, so that 0
// degrees points up instead of right.
func ToRad(deg float64) float64 {
	return (deg - 90) * math.Pi / 180
}

// ToCartesian returns the point at angle deg on the circle of radius r around (cx, cy).
func ToCartesian(cx, cy, r, deg float64) (x, y float64) {
	rad := ToRad(deg)
	return cx + r*math.Cos(rad), cy + r*math.Sin(rad)
}
