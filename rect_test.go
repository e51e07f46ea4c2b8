package arrange

import (
	"math"
	"testing"
)

func TestRectAbs(t *testing.T) {
	diff(t, Rect{0, 0, 10, 20}, Rect{10, 20, 0, 0}.Abs())
	diff(t, Rect{0, 0, 10, 20}, NewRectFromPoints(Pt(10, 0), Pt(0, 20)))
	diff(t, Rect{5, 0, 15, 20}, NewRectFromCenter(Pt(10, 10), Sz(10, 20)))
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	tests := []struct {
		name string
		o    Rect
		want bool
	}{
		{"same", a, true},
		{"inside", Rect{2, 2, 4, 4}, true},
		{"corner", Rect{9, 9, 20, 20}, true},
		{"touching edge", Rect{10, 0, 20, 10}, false},
		{"touching corner", Rect{10, 10, 20, 20}, false},
		{"apart", Rect{30, 30, 40, 40}, false},
		{"diagonal apart", Rect{11, -20, 20, -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.o); got != tt.want {
				t.Errorf("%s overlaps %s: got %t, want %t", a, tt.o, got, tt.want)
			}
			if got := tt.o.Overlaps(a); got != tt.want {
				t.Errorf("%s overlaps %s: got %t, want %t", tt.o, a, got, tt.want)
			}
		})
	}
}

func TestRectExit(t *testing.T) {
	r := Rect{0, 0, 40, 20}
	tests := []struct {
		dir  Vec2
		want Point
	}{
		{Vec(1, 0), Pt(48, 10)},
		{Vec(-2, 0), Pt(-8, 10)},
		{Vec(0, 1), Pt(20, 28)},
		{Vec(0, -5), Pt(20, -8)},
		// The edge follows the dominant component; the point stays on the
		// ray from the center.
		{Vec(28, 14), Pt(48, 24)},
		{Vec(-9, 18), Pt(11, 28)},
	}
	for _, tt := range tests {
		got := r.Exit(tt.dir, 8)
		assertNear(t, got, tt.want, 1e-9)
		if c := got.Sub(r.Center()).Cross(tt.dir); math.Abs(c) > 1e-9 {
			t.Errorf("exit %s is off the ray along %s", got, tt.dir)
		}
	}
}

func TestSizeReachNaN(t *testing.T) {
	if v := Sz(10, 10).Reach(Vec(0, 0), 8); !v.IsNaN() {
		t.Errorf("got %s for a zero direction, want NaN", v)
	}
}

func TestDistanceToRect(t *testing.T) {
	r := Rect{0, 0, 10, 10}
	tests := []struct {
		pt   Point
		want float64
	}{
		{Pt(5, 5), 0},
		{Pt(10, 3), 0},
		{Pt(15, 5), 5},
		{Pt(5, -2), 2},
		{Pt(13, 14), 5},
		{Pt(-3, -4), 5},
	}
	for _, tt := range tests {
		if got := DistanceToRect(tt.pt, r); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("distance from %s: got %v, want %v", tt.pt, got, tt.want)
		}
	}
}
