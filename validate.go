package arrange

import (
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Validate checks that r is a well-formed relationship: every arrow has the
// endpoints the policy requires, every node has an arrow, a root can be
// selected, forbidden cycles are absent and every member is reachable from
// the root.
//
// With allowSplit set, Validate repairs what it can: isolated nodes and
// arrows are released to the document, and members unreachable from the
// root move into a new sibling relationship of the same kind, which is
// validated in turn. A relationship left with too few children destroys
// itself. Without allowSplit, Validate is a dry run and reports every
// problem without modifying anything.
func (r *Relationship) Validate(allowSplit bool) (Status, error) {
	if r.destroyed {
		return StatusIncomplete, layoutErrorf(KindInvalidHandle, nil, nil, "relationship %q was destroyed", r.Name)
	}
	r.validating = true
	defer func() { r.validating = false }()
	if allowSplit {
		r.prune()
	}

	badArrows := r.isolatedArrows()
	if allowSplit {
		for _, a := range badArrows {
			r.releaseArrow(a)
		}
	}
	badNodes := r.isolatedNodes()
	if allowSplit {
		for _, n := range badNodes {
			r.releaseNode(n)
		}
		if len(badNodes)+len(badArrows) > 0 {
			r.doc.log.Info("released isolated objects",
				zap.String("relationship", r.Name),
				zap.Int("nodes", len(badNodes)),
				zap.Int("arrows", len(badArrows)))
		}
		if r.degenerate() {
			r.Destroy()
			return StatusIncomplete, layoutErrorf(KindIsolated, badNodes, badArrows,
				"%s %q has too few children left", r.kind, r.Name)
		}
	} else if len(badNodes)+len(badArrows) > 0 {
		var errs error
		if len(badArrows) > 0 {
			errs = multierr.Append(errs, layoutErrorf(KindIsolated, nil, badArrows, "%d isolated arrows", len(badArrows)))
		}
		if len(badNodes) > 0 {
			errs = multierr.Append(errs, layoutErrorf(KindIsolated, badNodes, nil, "%d isolated nodes", len(badNodes)))
		}
		return StatusIncomplete, errs
	}

	root, st, err := r.policy.Root(r)
	if st != StatusOK {
		return st, err
	}
	reach := Connect(r, root, r.policy.AllowCycle)
	if len(reach.Forbidden) > 0 {
		return StatusCyclic, layoutErrorf(KindCyclic, reach.Nodes, reach.Forbidden, "cyclic path not supported in %s", r.kind)
	}

	var lostNodes []NodeID
	var lostArrows []ArrowID
	for _, n := range r.nodes {
		if !reach.HasNode(n) {
			lostNodes = append(lostNodes, n)
		}
	}
	for _, a := range r.arrows {
		if !reach.HasArrow(a) {
			lostArrows = append(lostArrows, a)
		}
	}
	if len(lostNodes)+len(lostArrows) == 0 {
		return StatusOK, nil
	}
	if !allowSplit {
		return StatusIncomplete, layoutErrorf(KindIsolated, lostNodes, lostArrows,
			"%d nodes not connected to %q", len(lostNodes), r.doc.nodes[root].Name)
	}

	for _, n := range lostNodes {
		r.releaseNode(n)
	}
	for _, a := range lostArrows {
		r.releaseArrow(a)
	}
	sibling := r.doc.NewRelationship(r.kind, uuid.NewString())
	if err := sibling.Add(lostNodes, lostArrows); err != nil {
		// Everything was just released, so this cannot happen.
		panic(err)
	}
	r.doc.log.Info("split relationship",
		zap.String("relationship", r.Name),
		zap.String("sibling", sibling.Name),
		zap.Int("nodes", len(lostNodes)))
	if _, err := sibling.Validate(true); err != nil {
		r.doc.log.Debug("split part did not survive", zap.String("sibling", sibling.Name), zap.Error(err))
	}
	if r.degenerate() {
		r.Destroy()
		return StatusIncomplete, layoutErrorf(KindIsolated, nil, nil, "%s %q has too few children left", r.kind, r.Name)
	}
	return StatusOK, nil
}

// isolatedArrows returns the member arrows lacking an endpoint the policy
// requires, or attached to a node outside r.
func (r *Relationship) isolatedArrows() []ArrowID {
	var out []ArrowID
	for _, a := range r.arrows {
		arrow := &r.doc.arrows[a]
		ok := true
		switch {
		case arrow.Start == NoNode && arrow.End == NoNode:
			ok = false
		case arrow.Start == NoNode || arrow.End == NoNode:
			ok = r.policy.AllowDangling() && (r.Contains(arrow.Start) || r.Contains(arrow.End))
		default:
			ok = r.Contains(arrow.Start) && r.Contains(arrow.End)
		}
		if !ok {
			out = append(out, a)
		}
	}
	return out
}

// isolatedNodes returns the member nodes without any usable arrow.
func (r *Relationship) isolatedNodes() []NodeID {
	var out []NodeID
	for _, n := range r.nodes {
		if r.degree(n) == 0 {
			out = append(out, n)
		}
	}
	return out
}
