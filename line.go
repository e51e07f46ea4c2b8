package arrange

import (
	"math"
)

// Line represents a line segment, such as the shaft of an arrow.
type Line struct {
	// The line's start point.
	P0 Point
	// The line's end point.
	P1 Point
}

// Length returns the length of the line.
func (l Line) Length() float64 {
	return l.P1.Sub(l.P0).Hypot()
}

// Vec returns the vector from P0 to P1.
func (l Line) Vec() Vec2 {
	return l.P1.Sub(l.P0)
}

// Reverse returns the line running from P1 to P0.
func (l Line) Reverse() Line {
	return Line{P0: l.P1, P1: l.P0}
}

func (l Line) Translate(v Vec2) Line {
	return Line{
		P0: l.P0.Translate(v),
		P1: l.P1.Translate(v),
	}
}

// DistanceToRect returns the distance between the point pt and the closest
// point of r; zero when pt is inside r.
func DistanceToRect(pt Point, r Rect) float64 {
	dx := max(r.X0-pt.X, 0, pt.X-r.X1)
	dy := max(r.Y0-pt.Y, 0, pt.Y-r.Y1)
	return math.Hypot(dx, dy)
}

func (l Line) IsNaN() bool {
	return l.P0.IsNaN() || l.P1.IsNaN()
}
