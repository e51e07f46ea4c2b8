package arrange

// Policy holds the rules that distinguish the relationship kinds. The
// validation and alignment algorithms are shared and consult the policy
// for root selection, accepted cycles, dangling arrows and the size under
// which a relationship ceases to exist.
type Policy interface {
	Kind() RelationshipKind
	// Root selects the node alignment grows from. A status other than
	// StatusOK comes with an error naming the offending objects.
	Root(r *Relationship) (NodeID, Status, error)
	// AllowCycle reports whether a cycle closed by a is acceptable.
	AllowCycle(a *Arrow) bool
	// AllowDangling reports whether arrows may miss an endpoint.
	AllowDangling() bool
	// Threshold is the children count at or under which the
	// relationship destroys itself.
	Threshold() int
}

// PolicyFor returns the policy of a relationship kind.
func PolicyFor(kind RelationshipKind) Policy {
	switch kind {
	case Retrosynthesis:
		return retrosynthesisPolicy{}
	case Scheme:
		return schemePolicy{}
	default:
		return mesomeryPolicy{}
	}
}

// Mesomers are linked by double-headed arrows; resonance structures often
// form rings, so cycles are fine.
type mesomeryPolicy struct{}

func (mesomeryPolicy) Kind() RelationshipKind { return Mesomery }
func (mesomeryPolicy) AllowCycle(*Arrow) bool { return true }
func (mesomeryPolicy) AllowDangling() bool    { return false }
func (mesomeryPolicy) Threshold() int         { return 2 }

func (mesomeryPolicy) Root(r *Relationship) (NodeID, Status, error) {
	for _, n := range r.nodes {
		if len(r.linked(n)) > 0 {
			return n, StatusOK, nil
		}
	}
	return NoNode, StatusIncomplete, layoutErrorf(KindIsolated, r.Nodes(), nil, "no mesomer has an arrow")
}

// In a retrosynthesis every arrow runs from a precursor to the step it
// leads to, so the target is the one step that starts no arrow.
type retrosynthesisPolicy struct{}

func (retrosynthesisPolicy) Kind() RelationshipKind { return Retrosynthesis }
func (retrosynthesisPolicy) AllowCycle(*Arrow) bool { return false }
func (retrosynthesisPolicy) AllowDangling() bool    { return false }
func (retrosynthesisPolicy) Threshold() int         { return 1 }

func (p retrosynthesisPolicy) Root(r *Relationship) (NodeID, Status, error) {
	var sinks []NodeID
	first := NoNode
	for _, n := range r.nodes {
		links := r.linked(n)
		if len(links) == 0 {
			continue
		}
		if first == NoNode {
			first = n
		}
		sink := true
		for _, l := range links {
			if r.doc.arrows[l.arrow].Start == n {
				sink = false
				break
			}
		}
		if sink {
			sinks = append(sinks, n)
		}
	}
	if len(sinks) == 0 {
		if first != NoNode {
			// Without a sink every step starts an arrow; that is a cycle
			// as soon as the steps are connected.
			if reach := Connect(r, first, p.AllowCycle); len(reach.Forbidden) > 0 {
				return NoNode, StatusCyclic, layoutErrorf(KindCyclic, reach.Nodes, reach.Forbidden, "cyclic retrosynthesis")
			}
		}
		return NoNode, StatusNoTarget, layoutErrorf(KindNoTarget, r.Nodes(), nil, "no target step")
	}
	root := sinks[0]
	if len(sinks) > 1 {
		reach := Connect(r, root, p.AllowCycle)
		var clash []NodeID
		for _, s := range sinks[1:] {
			if reach.HasNode(s) {
				clash = append(clash, s)
			}
		}
		if len(clash) > 0 {
			return NoNode, StatusAmbiguousTarget, layoutErrorf(KindMultipleTargets, append([]NodeID{root}, clash...), nil,
				"%d target steps", len(clash)+1)
		}
	}
	return root, StatusOK, nil
}

// Reaction schemes start at their first step. Equilibria may close
// cycles, plain reaction arrows may not, and arrows may point off the
// diagram.
type schemePolicy struct{}

func (schemePolicy) Kind() RelationshipKind   { return Scheme }
func (schemePolicy) AllowCycle(a *Arrow) bool { return a.Kind == ArrowReversible }
func (schemePolicy) AllowDangling() bool      { return true }
func (schemePolicy) Threshold() int           { return 1 }

func (schemePolicy) Root(r *Relationship) (NodeID, Status, error) {
	if len(r.nodes) == 0 {
		return NoNode, StatusNoTarget, layoutErrorf(KindNoTarget, nil, r.Arrows(), "scheme has no step")
	}
	return r.nodes[0], StatusOK, nil
}
