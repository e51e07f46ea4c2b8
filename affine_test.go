package arrange

import (
	"testing"
)

func TestAffineBasic(t *testing.T) {
	const epsilon = 1e-9
	p := Pt(3, 4)

	assertNear(t, p.Transform(Identity), p, epsilon)
	assertNear(t, p.Transform(Scale(2, 2)), Pt(6, 8), epsilon)
	assertNear(t, p.Transform(Translate(Vec(5, 6))), Pt(8, 10), epsilon)
	assertNear(t, p.Transform(ScaleAbout(2, Pt(1, 1))), Pt(5, 7), epsilon)
	assertNear(t, Pt(1, 1).Transform(ScaleAbout(7, Pt(1, 1))), Pt(1, 1), epsilon)
}

func TestAffineMul(t *testing.T) {
	const epsilon = 1e-9
	a1 := Affine{1, 2, 3, 4, 5, 6}
	a2 := Affine{0.1, 1.2, 2.3, 3.4, 4.5, 5.6}

	px := Pt(1, 0)
	py := Pt(0, 1)
	pxy := Pt(1, 1)

	assertNear(t, px.Transform(a2).Transform(a1), px.Transform(a1.Mul(a2)), epsilon)
	assertNear(t, py.Transform(a2).Transform(a1), py.Transform(a1.Mul(a2)), epsilon)
	assertNear(t, pxy.Transform(a2).Transform(a1), pxy.Transform(a1.Mul(a2)), epsilon)
}

func TestAffineInvert(t *testing.T) {
	const epsilon = 1e-9
	a := Affine{0.1, 1.2, 2.3, 3.4, 4.5, 5.6}
	aInv := a.Invert()

	px := Pt(1, 0)
	py := Pt(0, 1)
	pxy := Pt(1, 1)

	assertNear(t, px.Transform(aInv).Transform(a), px, epsilon)
	assertNear(t, py.Transform(aInv).Transform(a), py, epsilon)
	assertNear(t, pxy.Transform(aInv).Transform(a), pxy, epsilon)
	assertNear(t, px.Transform(a).Transform(aInv), px, epsilon)
	assertNear(t, py.Transform(a).Transform(aInv), py, epsilon)
	assertNear(t, pxy.Transform(a).Transform(aInv), pxy, epsilon)
}

func TestAffineUnits(t *testing.T) {
	// Display to model and back.
	toModel := Scale(0.5, 0.5)
	l := Line{Pt(10, 20), Pt(30, 40)}
	diff(t, Line{Pt(5, 10), Pt(15, 20)}, l.Transform(toModel))
	diff(t, l, l.Transform(toModel).Transform(toModel.Invert()), approx)
}

func TestRectMoveCenter(t *testing.T) {
	r := Rect{10, 0, 30, 10}
	got := r.MoveCenter(ScaleAbout(2, Pt(0, 5)))
	diff(t, Rect{30, 0, 50, 10}, got, approx)
	if got.Size() != r.Size() {
		t.Errorf("size changed from %s to %s", r.Size(), got.Size())
	}
}
