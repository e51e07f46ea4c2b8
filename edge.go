package arrange

// alignEdge places a box of size to against the box from, along the arrow
// vector v pointing away from from. Everything is in display units.
//
// The arrow starts at the padded edge of from that v points through and
// keeps its length; the new center of to lies on the same line, with the
// arrow ending at its padded edge. The centers and the arrow are thus
// collinear, which is what [fitArrow] reproduces.
func alignEdge(from Rect, v Vec2, to Size, pad float64) (Line, Point) {
	start := from.Exit(v, pad)
	end := start.Translate(v)
	return Line{P0: start, P1: end}, end.Translate(to.Reach(v, pad))
}

// fitArrow returns the arrow running between the padded edges of two placed
// boxes, on the line joining their centers. It reports false when the
// padded boxes leave no room for an arrow of at least minLen.
func fitArrow(from, to Rect, pad, minLen float64) (Line, bool) {
	d := to.Center().Sub(from.Center())
	if d.Hypot2() == 0 {
		return Line{}, false
	}
	l := Line{
		P0: from.Exit(d, pad),
		P1: to.Exit(d.Negate(), pad),
	}
	return l, l.Vec().Dot(d) > 0 && l.Length() >= minLen
}
