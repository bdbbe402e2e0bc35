package gauge

import (
	"math"
	"strconv"
	"strings"
)

// SegmentKind identifies a path command.
type SegmentKind int

const (
	SegmentMove SegmentKind = iota
	SegmentLine
	SegmentArc
	SegmentClose
)

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Segment is one path command. Arc segments also remember the circle they
// trace so the path can be flattened without re-deriving centers from SVG
// endpoint parameters.
type Segment struct {
	Kind SegmentKind
	To   Point

	// Arc only.
	Center   Point
	Radius   float64
	From     float64 // start angle, gauge degrees
	Through  float64 // end angle, gauge degrees
	LargeArc bool
	Sweep    bool
}

// Path is a closed outline made of lines and circular arcs.
type Path struct {
	Segments []Segment
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegmentMove, To: Point{x, y}})
}

// LineTo adds a straight line.
func (p *Path) LineTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegmentLine, To: Point{x, y}})
}

// ArcTo adds an arc around (cx, cy) from angle from to angle to. The arc runs
// clockwise when to > from.
func (p *Path) ArcTo(cx, cy, r, from, to float64) {
	x, y := ToCartesian(cx, cy, r, to)
	p.Segments = append(p.Segments, Segment{
		Kind:     SegmentArc,
		To:       Point{x, y},
		Center:   Point{cx, cy},
		Radius:   r,
		From:     from,
		Through:  to,
		LargeArc: math.Abs(to-from) > 180,
		Sweep:    to > from,
	})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Segments = append(p.Segments, Segment{Kind: SegmentClose})
}

// IsEmpty reports whether the path has no drawable segments.
func (p *Path) IsEmpty() bool {
	return p == nil || len(p.Segments) == 0
}

// String renders the path as SVG path data.
func (p *Path) String() string {
	if p.IsEmpty() {
		return ""
	}
	var b strings.Builder
	for i, s := range p.Segments {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch s.Kind {
		case SegmentMove:
			b.WriteString("M " + num(s.To.X) + " " + num(s.To.Y))
		case SegmentLine:
			b.WriteString("L " + num(s.To.X) + " " + num(s.To.Y))
		case SegmentArc:
			b.WriteString("A " + num(s.Radius) + " " + num(s.Radius) + " 0 " +
				flag(s.LargeArc) + " " + flag(s.Sweep) + " " + num(s.To.X) + " " + num(s.To.Y))
		case SegmentClose:
			b.WriteString("Z")
		}
	}
	return b.String()
}

// Flatten approximates the path with polygons whose distance from the true
// arcs stays within tolerance. Each closed subpath becomes one polygon.
func (p *Path) Flatten(tolerance float64) [][]Point {
	if p.IsEmpty() {
		return nil
	}
	if tolerance <= 0 {
		tolerance = 0.25
	}
	var (
		polys   [][]Point
		current []Point
	)
	for _, s := range p.Segments {
		switch s.Kind {
		case SegmentMove:
			if len(current) > 1 {
				polys = append(polys, current)
			}
			current = []Point{s.To}
		case SegmentLine:
			current = append(current, s.To)
		case SegmentArc:
			current = append(current, flattenArc(s, tolerance)...)
		case SegmentClose:
			if len(current) > 1 {
				polys = append(polys, current)
			}
			current = nil
		}
	}
	if len(current) > 1 {
		polys = append(polys, current)
	}
	return polys
}

// flattenArc returns the points after the arc's start, ending exactly at s.To.
func flattenArc(s Segment, tolerance float64) []Point {
	span := s.Through - s.From
	step := 10.0
	if s.Radius > tolerance {
		step = 2 * math.Acos(1-tolerance/s.Radius) * 180 / math.Pi
	}
	n := int(math.Ceil(math.Abs(span) / step))
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n)
	for i := 1; i < n; i++ {
		a := s.From + span*float64(i)/float64(n)
		x, y := ToCartesian(s.Center.X, s.Center.Y, s.Radius, a)
		pts = append(pts, Point{x, y})
	}
	return append(pts, s.To)
}

func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
