package arrange

import (
	"math"
	"testing"
)

func TestPointArithmetic(t *testing.T) {
	diff(t, Pt(-10, 0), Pt(0, 0).Translate(Vec(-10, 0)))
	diff(t, Vec(3, -4), Pt(4, -2).Sub(Pt(1, 2)))
	diff(t, Pt(2, 5), Pt(4, 10).Scale(0.5))
	diff(t, Pt(1, 1), Pt(0, 0).Midpoint(Pt(2, 2)))
}

func TestPointDistance(t *testing.T) {
	p1 := Pt(0, 10)
	p2 := Pt(0, 5)
	if d := p1.Distance(p2); d != 5 {
		t.Errorf("got distance %v, want 5", d)
	}

	p3 := Pt(-11, 1)
	p4 := Pt(-7, -2)
	if d := p3.Distance(p4); d != 5 {
		t.Errorf("got distance %v, want 5", d)
	}
}

func TestProjectionRatio(t *testing.T) {
	tests := []struct {
		name           string
		origin, p, ref Point
		want           float64
	}{
		{"at ref", Pt(0, 0), Pt(10, 0), Pt(10, 0), 1},
		{"at origin", Pt(5, 5), Pt(5, 5), Pt(15, 5), 0},
		{"beyond", Pt(0, 0), Pt(20, 0), Pt(10, 0), 2},
		{"behind", Pt(0, 0), Pt(-5, 0), Pt(10, 0), -0.5},
		{"off axis", Pt(0, 0), Pt(5, 100), Pt(10, 0), 0.5},
		{"diagonal", Pt(1, 1), Pt(4, 4), Pt(2, 2), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProjectionRatio(tt.origin, tt.p, tt.ref); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if got := ProjectionRatio(Pt(1, 1), Pt(3, 3), Pt(1, 1)); !math.IsNaN(got) {
		t.Errorf("got %v for a degenerate reference, want NaN", got)
	}
}

func TestVecHorizontal(t *testing.T) {
	for _, v := range []Vec2{Vec(1, 0), Vec(-3, 2), Vec(5, 5), Vec(-5, -5)} {
		if !v.Horizontal() {
			t.Errorf("%s should be horizontal", v)
		}
	}
	for _, v := range []Vec2{Vec(0, 1), Vec(2, -3), Vec(0, -0.5)} {
		if v.Horizontal() {
			t.Errorf("%s should be vertical", v)
		}
	}
}
