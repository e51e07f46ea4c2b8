package arrange

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type chainState uint8

const (
	// chainOpen chains grow by one step per round.
	chainOpen chainState = iota
	// chainForked chains ended at a node with several continuations and
	// handed over to their children.
	chainForked
	// chainDone chains, and everything they contain, are settled.
	chainDone
)

// A chain is a growth front: a run of nodes placed one after the other,
// starting at the node it grew from. Following prev back from a chain
// leads to the root, or to a settled node once a sibling terminated.
type chain struct {
	nodes    []NodeID
	prev     int
	children []int
	state    chainState
}

// aligner holds the state of one Align call. Everything is in display
// units; nothing touches the document before commit.
type aligner struct {
	r   *Relationship
	cfg Config
	log *zap.Logger

	orig   map[NodeID]Rect
	rects  map[NodeID]Rect
	placed map[NodeID]bool
	// core holds the nodes whose position is final.
	core map[NodeID]bool
	// owner is the chain that placed a node, -1 for the root.
	owner map[NodeID]int
	// handled marks the arrows already used to place or reconcile.
	handled map[ArrowID]bool
	chains  []chain
	// met holds chains terminated by another chain reaching their tip
	// before that tip took a step.
	met []int

	rounds    int
	stretched int
}

// Align lays out the relationship. Starting at the root, it grows chains
// of nodes outward along the arrows, placing each new node against the box
// of the node it grows from. When a chain runs into an already placed node,
// the cycle is closed: if the chain falls short of that node by a
// reasonable factor, the chain is stretched to meet it. Once every chain
// has ended, nodes are moved and every arrow is refitted between the boxes
// of its nodes.
//
// Align fails without modifying the document if an arrow has zero length
// or if there is no space left for an arrow between two nodes.
func (r *Relationship) Align() error {
	if r.destroyed {
		return layoutErrorf(KindInvalidHandle, nil, nil, "relationship %q was destroyed", r.Name)
	}
	root, st, err := r.policy.Root(r)
	if st != StatusOK {
		return err
	}
	a := &aligner{
		r:       r,
		cfg:     r.doc.cfg,
		log:     r.doc.log.With(zap.String("relationship", r.Name)),
		orig:    make(map[NodeID]Rect, len(r.nodes)),
		rects:   make(map[NodeID]Rect, len(r.nodes)),
		placed:  make(map[NodeID]bool, len(r.nodes)),
		core:    make(map[NodeID]bool, len(r.nodes)),
		owner:   make(map[NodeID]int, len(r.nodes)),
		handled: make(map[ArrowID]bool, len(r.arrows)),
		chains:  make([]chain, 0, len(r.nodes)),
	}
	// Nodes may have moved, or been measured differently, since the arrows
	// were attached.
	for _, id := range r.arrows {
		r.doc.orient(id)
	}
	for _, n := range r.nodes {
		rect := r.doc.measure.Measure(r.doc, n).Abs()
		a.orig[n] = rect
		a.rects[n] = rect
	}
	if err := a.grow(root); err != nil {
		return err
	}
	a.log.Debug("chains grown",
		zap.Int("chains", len(a.chains)),
		zap.Int("rounds", a.rounds),
		zap.Int("stretched", a.stretched))
	return a.commit()
}

// dir returns the vector of arrow id pointing away from n, in display
// units.
func (a *aligner) dir(id ArrowID, n NodeID) (Vec2, error) {
	arrow := &a.r.doc.arrows[id]
	v := arrow.DirectionFrom(n).Mul(a.cfg.Zoom)
	if v.Hypot() < a.cfg.MinArrowLength || v.IsNaN() {
		return Vec2{}, layoutErrorf(KindDegenerateArrow, []NodeID{arrow.Start, arrow.End}, []ArrowID{id},
			"arrow %q has no length", arrow.Name)
	}
	return v, nil
}

// place moves l.node against from along l.arrow.
func (a *aligner) place(from NodeID, l link) error {
	v, err := a.dir(l.arrow, from)
	if err != nil {
		return err
	}
	box := a.rects[l.node]
	_, center := alignEdge(a.rects[from], v, box.Size(), a.cfg.ArrowPadding)
	a.rects[l.node] = box.Translate(center.Sub(box.Center()))
	a.placed[l.node] = true
	a.handled[l.arrow] = true
	return nil
}

func (a *aligner) grow(root NodeID) error {
	a.placed[root] = true
	a.core[root] = true
	a.owner[root] = -1
	for _, l := range a.r.linked(root) {
		if err := a.place(root, l); err != nil {
			return err
		}
		a.owner[l.node] = len(a.chains)
		a.chains = append(a.chains, chain{nodes: []NodeID{root, l.node}, prev: -1})
	}
	for {
		var open []int
		for i := range a.chains {
			if a.chains[i].state == chainOpen {
				open = append(open, i)
			}
		}
		if len(open) == 0 {
			return nil
		}
		a.rounds++
		for _, ci := range open {
			if a.chains[ci].state != chainOpen {
				continue
			}
			if err := a.step(ci); err != nil {
				return err
			}
			if err := a.expandMet(); err != nil {
				return err
			}
		}
	}
}

// expandMet steps the tips of the chains in a.met once. They are settled,
// so their remaining links only spawn new chains.
func (a *aligner) expandMet() error {
	for len(a.met) > 0 {
		ci := a.met[0]
		a.met = a.met[1:]
		if err := a.step(ci); err != nil {
			return err
		}
	}
	return nil
}

// step advances chain ci by one node.
func (a *aligner) step(ci int) error {
	nodes := a.chains[ci].nodes
	cur, prev := nodes[len(nodes)-1], nodes[len(nodes)-2]
	var fresh, met []link
	for _, l := range a.r.linked(cur) {
		switch {
		case l.node == prev || a.handled[l.arrow]:
		case a.placed[l.node]:
			met = append(met, l)
		default:
			fresh = append(fresh, l)
		}
	}
	for _, l := range met {
		a.handled[l.arrow] = true
		if err := a.reconcile(ci, cur, l); err != nil {
			return err
		}
	}

	switch {
	case len(fresh) == 0:
		if a.chains[ci].state == chainOpen {
			a.terminate(ci)
		}
	case len(fresh) == 1 && a.chains[ci].state == chainOpen:
		if err := a.place(cur, fresh[0]); err != nil {
			return err
		}
		a.chains[ci].nodes = append(a.chains[ci].nodes, fresh[0].node)
		a.owner[fresh[0].node] = ci
	default:
		parent := ci
		switch a.chains[ci].state {
		case chainOpen:
			a.chains[ci].state = chainForked
		case chainDone:
			parent = -1
		}
		for _, l := range fresh {
			if err := a.place(cur, l); err != nil {
				return err
			}
			k := len(a.chains)
			a.owner[l.node] = k
			a.chains = append(a.chains, chain{nodes: []NodeID{cur, l.node}, prev: parent})
			if parent >= 0 {
				a.chains[parent].children = append(a.chains[parent].children, k)
			}
		}
	}
	return nil
}

// reconcile handles the arrow l from the tip cur of chain ci to a node that
// is already placed. The node is either settled, and only ci may give way,
// or the tip of another open chain, and either chain may.
func (a *aligner) reconcile(ci int, cur NodeID, l link) error {
	done := false
	if a.chains[ci].state == chainOpen {
		ok, err := a.stretch(ci, cur, l.node, l.arrow)
		if err != nil {
			return err
		}
		done = ok
	}
	if other := a.owner[l.node]; !a.core[l.node] && other >= 0 && other != ci && a.chains[other].state == chainOpen {
		if !done {
			if _, err := a.stretch(other, l.node, cur, l.arrow); err != nil {
				return err
			}
		}
		a.terminate(other)
		a.met = append(a.met, other)
	}
	if a.chains[ci].state == chainOpen {
		a.terminate(ci)
	}
	return nil
}

// stretch tries to close the cycle formed by arrow id from tip, the last
// node of chain ci, to the placed node target. It computes where target
// would go if aligned from tip, and how far along the chain's reach, the
// vector from the chain's first node to that would-be position, target
// actually lies. If that projection ratio is within the configured range,
// the chain's nodes are pushed away from its first node so that the
// would-be position projects onto target.
func (a *aligner) stretch(ci int, tip, target NodeID, id ArrowID) (bool, error) {
	v, err := a.dir(id, tip)
	if err != nil {
		return false, err
	}
	c := &a.chains[ci]
	base := a.rects[c.nodes[0]].Center()
	tipCenter := a.rects[tip].Center()
	_, want := alignEdge(a.rects[tip], v, a.rects[target].Size(), a.cfg.ArrowPadding)
	got := a.rects[target].Center()

	ratio := ProjectionRatio(base, got, want)
	if !(ratio > a.cfg.RatioFloor && ratio < a.cfg.RatioCutoff) {
		a.log.Debug("cycle left as is",
			zap.String("from", a.r.doc.nodes[tip].Name),
			zap.String("to", a.r.doc.nodes[target].Name),
			zap.Float64("ratio", ratio))
		return false, nil
	}

	reach := want.Sub(base)
	axis := reach.Normalize()
	u := tipCenter.Sub(base).Dot(axis)
	w := want.Sub(tipCenter).Dot(axis)
	f := ratio
	if u > a.cfg.MinArrowLength {
		f = (got.Sub(base).Dot(axis) - w) / u
	}
	aff := ScaleAbout(f, base)
	for _, n := range c.nodes[1:] {
		a.rects[n] = a.rects[n].MoveCenter(aff)
	}
	a.stretched++
	a.log.Debug("cycle closed",
		zap.String("from", a.r.doc.nodes[tip].Name),
		zap.String("to", a.r.doc.nodes[target].Name),
		zap.Float64("ratio", ratio),
		zap.Float64("factor", f))
	return true, nil
}

// terminate settles chain ci and its ancestors. Siblings met on the way
// up lose their parent link, since their parents are now fixed.
func (a *aligner) terminate(ci int) {
	a.settle(ci)
	child, p := ci, a.chains[ci].prev
	for p >= 0 {
		a.settle(p)
		for _, k := range a.chains[p].children {
			if k != child {
				a.chains[k].prev = -1
			}
		}
		child, p = p, a.chains[p].prev
	}
	a.chains[ci].prev = -1
}

func (a *aligner) settle(ci int) {
	c := &a.chains[ci]
	c.state = chainDone
	for _, n := range c.nodes {
		a.core[n] = true
	}
}

// commit computes all moves and arrow fits first and applies them only if
// every arrow fits.
func (a *aligner) commit() error {
	doc := a.r.doc
	pad := a.cfg.ArrowPadding
	toModel := Scale(1/a.cfg.Zoom, 1/a.cfg.Zoom)
	type fit struct {
		id   ArrowID
		line Line
		swap bool
	}
	var fits []fit
	var errs error
	for _, id := range a.r.arrows {
		arrow := &doc.arrows[id]
		if arrow.Dangling() {
			n := arrow.Start
			if n == NoNode {
				n = arrow.End
			}
			if !a.placed[n] {
				continue
			}
			delta := a.delta(n).Div(a.cfg.Zoom)
			fits = append(fits, fit{id: id, line: arrow.Line().Translate(delta)})
			continue
		}
		if !a.placed[arrow.Start] || !a.placed[arrow.End] {
			continue
		}
		tail := arrow.Tail()
		head := arrow.Other(tail)
		l, ok := fitArrow(a.rects[tail], a.rects[head], pad, a.cfg.MinArrowLength)
		if !ok {
			errs = multierr.Append(errs, layoutErrorf(KindNoSpace, []NodeID{tail, head}, []ArrowID{id},
				"no space between %q and %q for arrow %q", doc.nodes[tail].Name, doc.nodes[head].Name, arrow.Name))
			continue
		}
		fits = append(fits, fit{id: id, line: l.Transform(toModel), swap: arrow.reversed})
	}
	if errs != nil {
		return errs
	}

	for _, n := range a.r.nodes {
		if a.placed[n] {
			doc.MoveNode(n, a.delta(n))
		}
	}
	for _, f := range fits {
		arrow := &doc.arrows[f.id]
		arrow.P0, arrow.P1 = f.line.P0, f.line.P1
		if f.swap {
			arrow.Start, arrow.End = arrow.End, arrow.Start
			arrow.reversed = false
		}
	}
	return nil
}

func (a *aligner) delta(n NodeID) Vec2 {
	return a.rects[n].Center().Sub(a.orig[n].Center())
}
