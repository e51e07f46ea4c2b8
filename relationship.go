package arrange

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// RelationshipKind selects the rules a [Relationship] follows.
type RelationshipKind uint8

const (
	Mesomery RelationshipKind = iota
	Retrosynthesis
	Scheme
)

func (k RelationshipKind) String() string {
	switch k {
	case Mesomery:
		return "mesomery"
	case Retrosynthesis:
		return "retrosynthesis"
	case Scheme:
		return "scheme"
	default:
		return fmt.Sprintf("RelationshipKind(%d)", int(k))
	}
}

// ParseRelationshipKind is the inverse of [RelationshipKind.String].
func ParseRelationshipKind(s string) (RelationshipKind, bool) {
	for k := Mesomery; k <= Scheme; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Relationship owns a connected set of nodes and arrows: a mesomery, a
// retrosynthesis or a reaction scheme.
type Relationship struct {
	Name string

	id        RelationshipID
	kind      RelationshipKind
	policy    Policy
	doc       *Document
	nodes     []NodeID
	arrows    []ArrowID
	destroyed bool
	// validating guards against revalidation triggered by our own
	// releases.
	validating bool
}

// NewRelationship creates an empty relationship of the given kind.
func (d *Document) NewRelationship(kind RelationshipKind, name string) *Relationship {
	r := &Relationship{
		Name:   name,
		id:     RelationshipID(len(d.rels)),
		kind:   kind,
		policy: PolicyFor(kind),
		doc:    d,
	}
	d.rels = append(d.rels, r)
	return r
}

func (r *Relationship) ID() RelationshipID     { return r.id }
func (r *Relationship) Kind() RelationshipKind { return r.kind }
func (r *Relationship) Policy() Policy         { return r.policy }
func (r *Relationship) Document() *Document    { return r.doc }
func (r *Relationship) Destroyed() bool        { return r.destroyed }

// Nodes returns the member nodes in insertion order.
func (r *Relationship) Nodes() []NodeID { return slices.Clone(r.nodes) }

// Arrows returns the member arrows in insertion order.
func (r *Relationship) Arrows() []ArrowID { return slices.Clone(r.arrows) }

// Len returns the number of children, nodes and arrows together.
func (r *Relationship) Len() int { return len(r.nodes) + len(r.arrows) }

// Contains reports whether n is a member.
func (r *Relationship) Contains(n NodeID) bool {
	node := r.doc.Node(n)
	return node != nil && node.rel == r.id
}

// Add makes free nodes and arrows members of r. It fails without changing
// anything if one of them is dead or already owned.
func (r *Relationship) Add(nodes []NodeID, arrows []ArrowID) error {
	if r.destroyed {
		return layoutErrorf(KindInvalidHandle, nil, nil, "relationship %q was destroyed", r.Name)
	}
	var badNodes []NodeID
	var badArrows []ArrowID
	for _, n := range nodes {
		if node := r.doc.Node(n); node == nil || node.rel != noRelationship {
			badNodes = append(badNodes, n)
		}
	}
	for _, a := range arrows {
		if arrow := r.doc.Arrow(a); arrow == nil || arrow.rel != noRelationship {
			badArrows = append(badArrows, a)
		}
	}
	if len(badNodes) > 0 || len(badArrows) > 0 {
		return layoutErrorf(KindInvalidHandle, badNodes, badArrows, "objects are dead or belong to another relationship")
	}
	for _, n := range nodes {
		r.doc.nodes[n].rel = r.id
		r.nodes = append(r.nodes, n)
	}
	for _, a := range arrows {
		r.doc.arrows[a].rel = r.id
		r.arrows = append(r.arrows, a)
	}
	return nil
}

// linked returns the arrows of n that are members of r and lead to another
// member, sorted by handle, with the node each leads to.
func (r *Relationship) linked(n NodeID) []link {
	node := &r.doc.nodes[n]
	out := make([]link, 0, len(node.links))
	for o, a := range node.links {
		if r.doc.arrows[a].rel == r.id && r.doc.nodes[o].rel == r.id {
			out = append(out, link{arrow: a, node: o})
		}
	}
	slices.SortFunc(out, func(x, y link) int { return int(x.arrow - y.arrow) })
	return out
}

// degree counts the member arrows attached to n, dangling ones included
// only when the policy accepts them.
func (r *Relationship) degree(n NodeID) int {
	d := len(r.linked(n))
	if r.policy.AllowDangling() {
		for _, a := range r.doc.nodes[n].dangling {
			if r.doc.arrows[a].rel == r.id {
				d++
			}
		}
	}
	return d
}

type link struct {
	arrow ArrowID
	node  NodeID
}

func (r *Relationship) releaseNode(n NodeID) {
	r.nodes = slices.DeleteFunc(r.nodes, func(o NodeID) bool { return o == n })
	if node := r.doc.Node(n); node != nil && node.rel == r.id {
		node.rel = noRelationship
	}
}

func (r *Relationship) releaseArrow(a ArrowID) {
	r.arrows = slices.DeleteFunc(r.arrows, func(o ArrowID) bool { return o == a })
	if arrow := r.doc.Arrow(a); arrow != nil && arrow.rel == r.id {
		arrow.rel = noRelationship
	}
}

// prune forgets handles of members deleted from the document.
func (r *Relationship) prune() {
	r.nodes = slices.DeleteFunc(r.nodes, func(n NodeID) bool {
		node := r.doc.Node(n)
		return node == nil || node.rel != r.id
	})
	r.arrows = slices.DeleteFunc(r.arrows, func(a ArrowID) bool {
		arrow := r.doc.Arrow(a)
		return arrow == nil || arrow.rel != r.id
	})
}

// Destroy releases every child back to the document and marks r dead.
func (r *Relationship) Destroy() {
	if r.destroyed {
		return
	}
	for _, n := range slices.Clone(r.nodes) {
		r.releaseNode(n)
	}
	for _, a := range slices.Clone(r.arrows) {
		r.releaseArrow(a)
	}
	r.destroyed = true
	r.doc.log.Info("relationship destroyed", zap.String("relationship", r.Name), zap.Stringer("kind", r.kind))
}

// degenerate reports whether r is too small to exist.
func (r *Relationship) degenerate() bool {
	return r.Len() <= r.policy.Threshold()
}

// childRemoved handles the structural signal sent when a member is deleted
// from the document.
func (r *Relationship) childRemoved() {
	if r.destroyed || r.validating {
		return
	}
	r.prune()
	_, err := r.Validate(true)
	switch {
	case r.destroyed:
	case err != nil:
		r.doc.log.Warn("relationship invalid after removal",
			zap.String("relationship", r.Name), zap.Error(err))
	}
}
