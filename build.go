package arrange

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BuildRelationship turns a selection of free nodes and arrows into a
// relationship of the given kind and aligns it. This is the editor command
// behind "make a mesomery/retrosynthesis/scheme from the selection".
//
// The selection is checked with a dry-run [Relationship.Validate] first.
// On any failure the document is left as it was and the returned
// [LayoutError] names the objects to reselect. An empty name is replaced by
// a generated one.
func (d *Document) BuildRelationship(kind RelationshipKind, name string, nodes []NodeID, arrows []ArrowID) (*Relationship, error) {
	if name == "" {
		name = uuid.NewString()
	}
	r := d.NewRelationship(kind, name)
	fail := func(err error) (*Relationship, error) {
		r.Destroy()
		d.log.Info("relationship rejected", zap.String("relationship", name), zap.Stringer("kind", kind), zap.Error(err))
		return nil, err
	}
	if err := r.Add(nodes, arrows); err != nil {
		return fail(err)
	}
	if _, err := r.Validate(false); err != nil {
		return fail(err)
	}
	if err := r.Align(); err != nil {
		return fail(err)
	}
	return r, nil
}
