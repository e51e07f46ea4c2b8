package arrange

import (
	"fmt"
	"math"
)

// Point is a position in the plane. Depending on context it is expressed in
// model units (anchors, arrow endpoints) or display units (bounding boxes).
type Point struct {
	X float64
	Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (pt Point) String() string {
	return fmt.Sprintf("(%g, %g)", pt.X, pt.Y)
}

func (pt Point) Translate(o Vec2) Point {
	return Point{
		X: pt.X + o.X,
		Y: pt.Y + o.Y,
	}
}

// Sub computes pt−o.
// To subtract a vector from pt, use Translate and negate the vector.
func (pt Point) Sub(o Point) Vec2 {
	return Vec2{
		X: pt.X - o.X,
		Y: pt.Y - o.Y,
	}
}

// Scale multiplies both coordinates by f. It converts between model and
// display units.
func (pt Point) Scale(f float64) Point {
	return Point{
		X: pt.X * f,
		Y: pt.Y * f,
	}
}

// Midpoint returns the midpoint of two points.
func (pt Point) Midpoint(o Point) Point {
	return Point{
		X: 0.5 * (pt.X + o.X),
		Y: 0.5 * (pt.Y + o.Y),
	}
}

// Distance returns the euclidean distance between two points.
func (pt Point) Distance(o Point) float64 {
	return math.Hypot(pt.X-o.X, pt.Y-o.Y)
}

// IsNaN reports whether at least one of x and y is NaN.
func (pt Point) IsNaN() bool {
	return math.IsNaN(pt.X) || math.IsNaN(pt.Y)
}

// ProjectionRatio reports how far p lies along the vector from origin to
// ref: 0 at origin, 1 at the orthogonal projection of ref itself. The
// result is NaN when ref and origin coincide.
func ProjectionRatio(origin, p, ref Point) float64 {
	r := ref.Sub(origin)
	d := r.Hypot2()
	if d == 0 {
		return math.NaN()
	}
	return p.Sub(origin).Dot(r) / d
}
