package arrange

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// approx compares floats, and the structs made of them, to 1e-6.
var approx = cmpopts.EquateApprox(0, 1e-6)

func assertNear(t *testing.T, got, want Point, epsilon float64) {
	t.Helper()
	if d := got.Distance(want); d > epsilon || math.IsNaN(d) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func box(x, y, w, h float64) Rect {
	return Rect{x, y, x + w, y + h}
}

// fixture builds documents by name.
type fixture struct {
	t      *testing.T
	doc    *Document
	nodes  map[string]NodeID
	arrows map[string]ArrowID
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	return &fixture{
		t:      t,
		doc:    NewDocument(opts...),
		nodes:  make(map[string]NodeID),
		arrows: make(map[string]ArrowID),
	}
}

// node adds a node anchored at the center of its box.
func (f *fixture) node(name string, bounds Rect) NodeID {
	id := f.doc.AddNode(name, bounds.Center(), bounds)
	f.nodes[name] = id
	return id
}

// arrow adds an arrow; an empty endpoint name means no node.
func (f *fixture) arrow(name string, kind ArrowKind, start, end string, p0, p1 Point) ArrowID {
	f.t.Helper()
	s, e := NoNode, NoNode
	if start != "" {
		s = f.nodes[start]
	}
	if end != "" {
		e = f.nodes[end]
	}
	id, err := f.doc.AddArrow(name, kind, s, e, p0, p1)
	if err != nil {
		f.t.Fatalf("adding arrow %s: %v", name, err)
	}
	f.arrows[name] = id
	return id
}

// rel puts every node and arrow of the fixture into a new relationship.
func (f *fixture) rel(kind RelationshipKind) *Relationship {
	f.t.Helper()
	r := f.doc.NewRelationship(kind, "r")
	if err := r.Add(f.doc.Nodes(), f.doc.Arrows()); err != nil {
		f.t.Fatalf("adding children: %v", err)
	}
	return r
}

func (f *fixture) bounds(name string) Rect {
	return f.doc.Node(f.nodes[name]).Bounds
}

func (f *fixture) line(name string) Line {
	return f.doc.Arrow(f.arrows[name]).Line()
}

// positions records every node's bounds.
func (f *fixture) positions() map[string]Rect {
	out := make(map[string]Rect)
	for name, id := range f.nodes {
		if n := f.doc.Node(id); n != nil {
			out[name] = n.Bounds
		}
	}
	return out
}

// checkFitted verifies that every linked arrow of r leaves the padded
// edges of its nodes' boxes and that no two boxes overlap.
func checkFitted(t *testing.T, r *Relationship) {
	t.Helper()
	doc := r.Document()
	pad := doc.Config().ArrowPadding
	for _, id := range r.Arrows() {
		a := doc.Arrow(id)
		if a.Dangling() {
			continue
		}
		tail, head := doc.Node(a.Tail()).Bounds, doc.Node(a.Other(a.Tail())).Bounds
		v := a.Line().Vec()
		assertNear(t, a.P0, tail.Exit(v, pad), 1e-6)
		assertNear(t, a.P1, head.Exit(v.Negate(), pad), 1e-6)
	}
	nodes := r.Nodes()
	for i, n := range nodes {
		for _, o := range nodes[i+1:] {
			if doc.Node(n).Bounds.Overlaps(doc.Node(o).Bounds) {
				t.Errorf("%s and %s overlap", doc.Node(n).Name, doc.Node(o).Name)
			}
		}
	}
}
