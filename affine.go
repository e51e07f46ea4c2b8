package arrange

// Affine describes an affine transform via coefficients.
//
// If the coefficients are (a, b, c, d, e, f), then the resulting
// transformation represents this augmented matrix:
//
//	| a c e |
//	| b d f |
//	| 0 0 1 |
//
// The idea is that (A * B) * v == A * (B * v). The layout engine uses
// affine transforms for unit conversion and for stretching chains.
type Affine struct {
	N0, N1, N2, N3, N4, N5 float64
}

// Identity is the identity transform.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// Scale creates an affine transform representing non-uniform scaling with
// different scale values for x and y
func Scale(x, y float64) Affine {
	return Affine{x, 0, 0, y, 0, 0}
}

// Translate creates an affine transform representing translation.
func Translate(v Vec2) Affine {
	return Affine{1, 0, 0, 1, v.X, v.Y}
}

// ScaleAbout creates an affine transform scaling uniformly by f while
// keeping center fixed.
func ScaleAbout(f float64, center Point) Affine {
	c := Vec2(center)
	return Translate(c).Mul(Scale(f, f)).Mul(Translate(c.Negate()))
}

func (aff Affine) Mul(o Affine) Affine {
	return Affine{
		aff.N0*o.N0 + aff.N2*o.N1,
		aff.N1*o.N0 + aff.N3*o.N1,
		aff.N0*o.N2 + aff.N2*o.N3,
		aff.N1*o.N2 + aff.N3*o.N3,
		aff.N0*o.N4 + aff.N2*o.N5 + aff.N4,
		aff.N1*o.N4 + aff.N3*o.N5 + aff.N5,
	}
}

// Determinant returns the determinant of the linear part of the transform.
func (aff Affine) Determinant() float64 {
	return aff.N0*aff.N3 - aff.N1*aff.N2
}

// Invert returns the inverse transform. The result is undefined when the
// determinant is zero.
func (aff Affine) Invert() Affine {
	inv := 1.0 / aff.Determinant()
	return Affine{
		inv * aff.N3,
		-inv * aff.N1,
		-inv * aff.N2,
		inv * aff.N0,
		inv * (aff.N2*aff.N5 - aff.N3*aff.N4),
		inv * (aff.N1*aff.N4 - aff.N0*aff.N5),
	}
}

func (pt Point) Transform(aff Affine) Point {
	return Point{
		X: aff.N0*pt.X + aff.N2*pt.Y + aff.N4,
		Y: aff.N1*pt.X + aff.N3*pt.Y + aff.N5,
	}
}

func (l Line) Transform(aff Affine) Line {
	return Line{
		P0: l.P0.Transform(aff),
		P1: l.P1.Transform(aff),
	}
}

// MoveCenter transforms the center of r, keeping its size. Node boxes are
// moved this way: they are rendered at a fixed size whatever the zoom of
// the layout.
func (r Rect) MoveCenter(aff Affine) Rect {
	c := r.Center()
	return r.Translate(c.Transform(aff).Sub(c))
}
