package arrange

// Reach is the part of a relationship reachable from a root.
type Reach struct {
	// Nodes and Arrows are in visit order, root first.
	Nodes  []NodeID
	Arrows []ArrowID
	// Permitted and Forbidden hold the arrows that closed a cycle,
	// split by the relationship's verdict on them.
	Permitted []ArrowID
	Forbidden []ArrowID

	nodes  map[NodeID]bool
	arrows map[ArrowID]bool
}

func (rc *Reach) HasNode(n NodeID) bool   { return rc.nodes[n] }
func (rc *Reach) HasArrow(a ArrowID) bool { return rc.arrows[a] }

// Cyclic reports whether any cycle was found, accepted or not.
func (rc *Reach) Cyclic() bool {
	return len(rc.Permitted)+len(rc.Forbidden) > 0
}

// Status summarizes the traversal against the relationship's node count.
func (rc *Reach) Status(total int) Status {
	switch {
	case len(rc.Forbidden) > 0:
		return StatusCyclic
	case len(rc.Nodes) < total:
		return StatusIncomplete
	default:
		return StatusOK
	}
}

// Connect walks the members of r depth first from root, through
// node→arrow→node edges. A node met a second time closes a cycle; the
// arrow that led to it is classified by allowCycle. Dangling member arrows
// of reached nodes are collected too. Connect does not modify anything.
func Connect(r *Relationship, root NodeID, allowCycle func(*Arrow) bool) Reach {
	rc := Reach{
		nodes:  make(map[NodeID]bool),
		arrows: make(map[ArrowID]bool),
	}
	if !r.Contains(root) {
		return rc
	}
	var visit func(n NodeID)
	visit = func(n NodeID) {
		rc.nodes[n] = true
		rc.Nodes = append(rc.Nodes, n)
		for _, a := range r.doc.nodes[n].dangling {
			if r.doc.arrows[a].rel == r.id && !rc.arrows[a] {
				rc.arrows[a] = true
				rc.Arrows = append(rc.Arrows, a)
			}
		}
		for _, l := range r.linked(n) {
			if rc.arrows[l.arrow] {
				continue
			}
			rc.arrows[l.arrow] = true
			rc.Arrows = append(rc.Arrows, l.arrow)
			if !rc.nodes[l.node] {
				visit(l.node)
				continue
			}
			if allowCycle(&r.doc.arrows[l.arrow]) {
				rc.Permitted = append(rc.Permitted, l.arrow)
			} else {
				rc.Forbidden = append(rc.Forbidden, l.arrow)
			}
		}
	}
	visit(root)
	return rc
}
