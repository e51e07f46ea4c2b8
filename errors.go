package arrange

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a [LayoutError].
type ErrorKind int

const (
	// KindNoSpace: an arrow has no room between the padded boxes of its
	// nodes.
	KindNoSpace ErrorKind = iota + 1
	// KindIsolated: a node without arrows, an arrow without nodes, or a
	// part of the relationship that cannot be reached from its root.
	KindIsolated
	// KindCyclic: the arrow graph contains a cycle the relationship does
	// not accept.
	KindCyclic
	// KindNoTarget: no node qualifies as the root.
	KindNoTarget
	// KindMultipleTargets: several nodes qualify as the root.
	KindMultipleTargets
	// KindDegenerateArrow: an arrow has zero length, so it has no
	// direction to align along.
	KindDegenerateArrow
	// KindInvalidHandle: a handle does not refer to a live object, or the
	// object belongs to another relationship.
	KindInvalidHandle
)

var kindNames = [...]string{
	KindNoSpace:         "no space",
	KindIsolated:        "isolated",
	KindCyclic:          "cyclic",
	KindNoTarget:        "no target",
	KindMultipleTargets: "multiple targets",
	KindDegenerateArrow: "degenerate arrow",
	KindInvalidHandle:   "invalid handle",
}

func (k ErrorKind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// LayoutError is returned by validation and alignment. It is recoverable:
// the document is left as it was before the failing operation, and Nodes
// and Arrows name the objects an editor should reselect.
type LayoutError struct {
	Kind   ErrorKind
	Msg    string
	Nodes  []NodeID
	Arrows []ArrowID
}

func (e *LayoutError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	return sb.String()
}

// Is matches any LayoutError of the same kind, so that
// errors.Is(err, ErrCyclic) works for errors carrying details.
func (e *LayoutError) Is(target error) bool {
	t, ok := target.(*LayoutError)
	return ok && t.Kind == e.Kind
}

var (
	ErrNoSpace         = &LayoutError{Kind: KindNoSpace}
	ErrIsolated        = &LayoutError{Kind: KindIsolated}
	ErrCyclic          = &LayoutError{Kind: KindCyclic}
	ErrNoTarget        = &LayoutError{Kind: KindNoTarget}
	ErrMultipleTargets = &LayoutError{Kind: KindMultipleTargets}
	ErrDegenerateArrow = &LayoutError{Kind: KindDegenerateArrow}
	ErrInvalidHandle   = &LayoutError{Kind: KindInvalidHandle}
)

func layoutErrorf(kind ErrorKind, nodes []NodeID, arrows []ArrowID, format string, args ...any) *LayoutError {
	return &LayoutError{
		Kind:   kind,
		Msg:    fmt.Sprintf(format, args...),
		Nodes:  nodes,
		Arrows: arrows,
	}
}

// Status is the outcome code of [Relationship.Validate].
type Status int

const (
	// StatusOK: the relationship is acyclic (or its cycles are accepted)
	// and complete.
	StatusOK Status = iota
	// StatusNoTarget: no root could be selected.
	StatusNoTarget
	// StatusIncomplete: some members are isolated or unreachable from the
	// root.
	StatusIncomplete
	// StatusCyclic: the arrow graph has a cycle the relationship forbids.
	StatusCyclic
	// StatusAmbiguousTarget: more than one root candidate is connected to
	// the others.
	StatusAmbiguousTarget
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoTarget:
		return "no target"
	case StatusIncomplete:
		return "incomplete"
	case StatusCyclic:
		return "cyclic"
	case StatusAmbiguousTarget:
		return "ambiguous target"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}
