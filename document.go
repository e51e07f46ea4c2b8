package arrange

import (
	"slices"

	"go.uber.org/zap"
)

// NodeID, ArrowID and RelationshipID are handles into a [Document]. They
// do not own anything and stay valid, though possibly dead, for the life
// of the document.
type (
	NodeID         int32
	ArrowID        int32
	RelationshipID int32
)

// NoNode marks the missing endpoint of a dangling arrow.
const NoNode NodeID = -1

const noRelationship RelationshipID = -1

// Node is a placeable diagram entity, a mesomer or a step wrapping a
// molecule.
type Node struct {
	Name string
	// Anchor is the node's reference point in model units.
	Anchor Point
	// Bounds is the node's bounding box in display units.
	Bounds Rect

	rel      RelationshipID
	links    map[NodeID]ArrowID
	dangling []ArrowID
	live     bool
}

// Relationship returns the handle of the relationship owning n, and false
// if n is free.
func (n *Node) Relationship() (RelationshipID, bool) {
	return n.rel, n.rel != noRelationship
}

// ArrowKind tells how an arrow is drawn and what it means.
type ArrowKind uint8

const (
	// ArrowReaction is a single-headed reaction arrow.
	ArrowReaction ArrowKind = iota
	// ArrowReversible is an equilibrium arrow.
	ArrowReversible
	// ArrowMesomery is the double-headed arrow linking mesomers.
	ArrowMesomery
	// ArrowRetrosynthesis is the open retrosynthetic arrow.
	ArrowRetrosynthesis
)

var arrowKindNames = [...]string{
	ArrowReaction:       "reaction",
	ArrowReversible:     "reversible",
	ArrowMesomery:       "mesomery",
	ArrowRetrosynthesis: "retrosynthesis",
}

func (k ArrowKind) String() string {
	if int(k) < len(arrowKindNames) {
		return arrowKindNames[k]
	}
	return "unknown"
}

// ParseArrowKind is the inverse of [ArrowKind.String].
func ParseArrowKind(s string) (ArrowKind, bool) {
	for i, name := range arrowKindNames {
		if name == s {
			return ArrowKind(i), true
		}
	}
	return 0, false
}

// Arrow is a directed edge between two nodes.
type Arrow struct {
	Name  string
	Kind  ArrowKind
	Start NodeID
	End   NodeID
	// P0 and P1 are the arrow's tail and head in model units.
	P0, P1 Point

	rel RelationshipID
	// reversed is set when P0 lies at End rather than at Start.
	reversed bool
	live     bool
}

// Line returns the arrow's shaft in model units.
func (a *Arrow) Line() Line {
	return Line{P0: a.P0, P1: a.P1}
}

// Reversed reports whether the arrow is drawn from its End node to its
// Start node.
func (a *Arrow) Reversed() bool {
	return a.reversed
}

// Dangling reports whether at least one endpoint is missing.
func (a *Arrow) Dangling() bool {
	return a.Start == NoNode || a.End == NoNode
}

// Other returns the node at the other end of a, seen from n.
func (a *Arrow) Other(n NodeID) NodeID {
	switch n {
	case a.Start:
		return a.End
	case a.End:
		return a.Start
	default:
		return NoNode
	}
}

// Tail returns the node at P0.
func (a *Arrow) Tail() NodeID {
	if a.reversed {
		return a.End
	}
	return a.Start
}

// DirectionFrom returns the arrow's vector in model units, oriented so that
// it points away from n.
func (a *Arrow) DirectionFrom(n NodeID) Vec2 {
	v := a.P1.Sub(a.P0)
	if a.Tail() != n {
		v = v.Negate()
	}
	return v
}

// Measurer provides the bounding box of a node in display units. Editors
// back it with their rendering layer.
type Measurer interface {
	Measure(doc *Document, id NodeID) Rect
}

// MeasurerFunc adapts a function to [Measurer].
type MeasurerFunc func(doc *Document, id NodeID) Rect

func (f MeasurerFunc) Measure(doc *Document, id NodeID) Rect { return f(doc, id) }

// StoredBounds measures nodes by their Bounds field.
var StoredBounds Measurer = MeasurerFunc(func(doc *Document, id NodeID) Rect {
	return doc.nodes[id].Bounds
})

// Document is the arena owning nodes, arrows and relationships.
//
// A Document is not safe for concurrent use; editors drive it from their
// main loop.
type Document struct {
	cfg     Config
	log     *zap.Logger
	measure Measurer

	nodes  []Node
	arrows []Arrow
	rels   []*Relationship
}

type Option func(*Document)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(d *Document) { d.log = l }
}

// WithConfig replaces [DefaultConfig].
func WithConfig(cfg Config) Option {
	return func(d *Document) { d.cfg = cfg }
}

// WithMeasurer replaces [StoredBounds].
func WithMeasurer(m Measurer) Option {
	return func(d *Document) { d.measure = m }
}

func NewDocument(opts ...Option) *Document {
	d := &Document{
		cfg:     DefaultConfig(),
		log:     zap.NewNop(),
		measure: StoredBounds,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Document) Config() Config { return d.cfg }

// AddNode adds a free node. bounds is in display units.
func (d *Document) AddNode(name string, anchor Point, bounds Rect) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, Node{
		Name:   name,
		Anchor: anchor,
		Bounds: bounds.Abs(),
		rel:    noRelationship,
		links:  make(map[NodeID]ArrowID),
		live:   true,
	})
	return id
}

// AddArrow adds a free arrow from start to end. Either endpoint may be
// NoNode; whether that is acceptable is decided by the relationship the
// arrow ends up in. Two nodes are linked by at most one arrow.
func (d *Document) AddArrow(name string, kind ArrowKind, start, end NodeID, p0, p1 Point) (ArrowID, error) {
	for _, n := range [...]NodeID{start, end} {
		if n != NoNode && d.Node(n) == nil {
			return 0, layoutErrorf(KindInvalidHandle, nil, nil, "arrow %q: no node %d", name, n)
		}
	}
	if start != NoNode && start == end {
		return 0, layoutErrorf(KindInvalidHandle, []NodeID{start}, nil, "arrow %q links a node to itself", name)
	}
	if start != NoNode && end != NoNode {
		if other, ok := d.nodes[start].links[end]; ok {
			return 0, layoutErrorf(KindInvalidHandle, []NodeID{start, end}, []ArrowID{other},
				"arrow %q duplicates arrow %q", name, d.arrows[other].Name)
		}
	}
	id := ArrowID(len(d.arrows))
	d.arrows = append(d.arrows, Arrow{
		Name:  name,
		Kind:  kind,
		Start: start,
		End:   end,
		P0:    p0,
		P1:    p1,
		rel:   noRelationship,
		live:  true,
	})
	d.attach(id)
	return id, nil
}

// attach records a in the incident maps of its endpoints and refreshes its
// reversed flag.
func (d *Document) attach(id ArrowID) {
	a := &d.arrows[id]
	switch {
	case a.Start != NoNode && a.End != NoNode:
		d.nodes[a.Start].links[a.End] = id
		d.nodes[a.End].links[a.Start] = id
		d.orient(id)
	case a.Start != NoNode:
		d.nodes[a.Start].dangling = append(d.nodes[a.Start].dangling, id)
	case a.End != NoNode:
		d.nodes[a.End].dangling = append(d.nodes[a.End].dangling, id)
	}
}

// orient refreshes the reversed flag of a linked arrow: the arrow is
// reversed when its tail sits closer to the End box than to the Start box.
func (d *Document) orient(id ArrowID) {
	a := &d.arrows[id]
	if a.Dangling() {
		a.reversed = false
		return
	}
	p0 := a.P0.Scale(d.cfg.Zoom)
	start := d.measure.Measure(d, a.Start).Abs()
	end := d.measure.Measure(d, a.End).Abs()
	a.reversed = DistanceToRect(p0, end) < DistanceToRect(p0, start)
}

func (d *Document) detach(id ArrowID) {
	a := &d.arrows[id]
	switch {
	case a.Start != NoNode && a.End != NoNode:
		delete(d.nodes[a.Start].links, a.End)
		delete(d.nodes[a.End].links, a.Start)
	case a.Start != NoNode:
		d.nodes[a.Start].dangling = slices.DeleteFunc(d.nodes[a.Start].dangling, func(o ArrowID) bool { return o == id })
	case a.End != NoNode:
		d.nodes[a.End].dangling = slices.DeleteFunc(d.nodes[a.End].dangling, func(o ArrowID) bool { return o == id })
	}
}

// Node returns the node with the given handle, or nil if it is dead or out
// of range.
func (d *Document) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(d.nodes) || !d.nodes[id].live {
		return nil
	}
	return &d.nodes[id]
}

// Arrow returns the arrow with the given handle, or nil if it is dead or
// out of range.
func (d *Document) Arrow(id ArrowID) *Arrow {
	if id < 0 || int(id) >= len(d.arrows) || !d.arrows[id].live {
		return nil
	}
	return &d.arrows[id]
}

// Relationship returns the relationship with the given handle, or nil if it
// was destroyed.
func (d *Document) Relationship(id RelationshipID) *Relationship {
	if id < 0 || int(id) >= len(d.rels) || d.rels[id].destroyed {
		return nil
	}
	return d.rels[id]
}

// Nodes returns the live nodes in creation order.
func (d *Document) Nodes() []NodeID {
	var out []NodeID
	for i := range d.nodes {
		if d.nodes[i].live {
			out = append(out, NodeID(i))
		}
	}
	return out
}

// Arrows returns the live arrows in creation order.
func (d *Document) Arrows() []ArrowID {
	var out []ArrowID
	for i := range d.arrows {
		if d.arrows[i].live {
			out = append(out, ArrowID(i))
		}
	}
	return out
}

// Relationships returns the relationships that have not been destroyed.
func (d *Document) Relationships() []*Relationship {
	var out []*Relationship
	for _, r := range d.rels {
		if !r.destroyed {
			out = append(out, r)
		}
	}
	return out
}

// MoveNode translates a node by v, given in display units. Attached arrows
// are left alone; [Relationship.Align] refits them.
func (d *Document) MoveNode(id NodeID, v Vec2) {
	n := &d.nodes[id]
	n.Bounds = n.Bounds.Translate(v)
	n.Anchor = n.Anchor.Translate(v.Div(d.cfg.Zoom))
}

// RemoveNode deletes a node. Its arrows lose that endpoint, and the owning
// relationship, if any, revalidates itself.
func (d *Document) RemoveNode(id NodeID) error {
	n := d.Node(id)
	if n == nil {
		return layoutErrorf(KindInvalidHandle, nil, nil, "no node %d", id)
	}
	var touched []ArrowID
	for _, a := range n.links {
		touched = append(touched, a)
	}
	touched = append(touched, n.dangling...)
	slices.Sort(touched)
	for _, a := range touched {
		d.detach(a)
		arrow := &d.arrows[a]
		if arrow.Start == id {
			arrow.Start = NoNode
		}
		if arrow.End == id {
			arrow.End = NoNode
		}
		arrow.reversed = false
		d.attach(a)
	}
	rel := n.rel
	n.live = false
	n.rel = noRelationship
	n.links = nil
	n.dangling = nil
	d.log.Debug("node removed", zap.String("node", n.Name), zap.Int("arrows", len(touched)))
	if r := d.Relationship(rel); r != nil {
		r.childRemoved()
	}
	return nil
}

// RemoveArrow deletes an arrow, and the owning relationship, if any,
// revalidates itself.
func (d *Document) RemoveArrow(id ArrowID) error {
	a := d.Arrow(id)
	if a == nil {
		return layoutErrorf(KindInvalidHandle, nil, nil, "no arrow %d", id)
	}
	d.detach(id)
	rel := a.rel
	a.live = false
	a.rel = noRelationship
	d.log.Debug("arrow removed", zap.String("arrow", a.Name))
	if r := d.Relationship(rel); r != nil {
		r.childRemoved()
	}
	return nil
}
