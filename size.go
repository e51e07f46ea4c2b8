package arrange

import (
	"fmt"
)

type Size struct {
	Width  float64
	Height float64
}

// Sz returns the size x×y.
func Sz(w, h float64) Size {
	return Size{
		Width:  w,
		Height: h,
	}
}

func (sz Size) String() string {
	return fmt.Sprintf("%g×%g", sz.Width, sz.Height)
}

func (sz Size) Area() float64 {
	return sz.Width * sz.Height
}

// Reach returns the vector from the center of a box of this size to the
// point where a ray along dir leaves the box inflated by pad. The edge is
// picked by the dominant component of dir, not by an exact ray/box
// intersection, so diagrams snap to rows and columns.
//
// The result is NaN for a zero dir.
func (sz Size) Reach(dir Vec2, pad float64) Vec2 {
	if dir.Horizontal() {
		half := 0.5*abs(sz.Width) + pad
		return dir.Mul(half / abs(dir.X))
	}
	half := 0.5*abs(sz.Height) + pad
	return dir.Mul(half / abs(dir.Y))
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
