// Package arrange lays out chained diagrams in a 2D chemical structure
// editor: mesomeries, retrosynthesis paths and reaction schemes, where
// molecule-bearing nodes are linked by arrows and should line up neatly
// along them.
//
// # Documents, nodes and arrows
//
// A [Document] is an arena of nodes, arrows and relationships. Objects
// refer to each other through handles ([NodeID], [ArrowID],
// [RelationshipID]) rather than pointers, and no object owns another
// through a handle. A [Node] has an anchor in model units and a bounding
// box in display units; [Config.Zoom] converts between the two. An [Arrow]
// links two nodes and has a tail (P0) and a head (P1) in model units. Each
// node keeps a map from neighbor to arrow, so two nodes share at most one
// arrow.
//
// The bounding box of a node comes from a [Measurer]. Editors plug in
// their rendering layer; the default, [StoredBounds], uses [Node.Bounds].
//
// # Relationships
//
// A [Relationship] groups the nodes and arrows of one diagram. Its
// [Policy] decides, per kind:
//
//   - which node is the root: the first mesomer with an arrow, the target
//     of a retrosynthesis (the one step no arrow starts from), or the first
//     step of a scheme;
//   - which cycles are acceptable: all of them in a mesomery, none in a
//     retrosynthesis, only those closed by reversible arrows in a scheme;
//   - whether arrows may point off the diagram (schemes only);
//   - how few children make the relationship cease to exist.
//
// [Relationship.Validate] checks connectivity from the root using
// [Connect], and can split unreachable parts into sibling relationships.
// Deleting a member from the document revalidates the relationship.
//
// # Alignment
//
// [Relationship.Align] grows chains of nodes from the root along the
// arrows. Each new node is placed so that the arrow keeps its direction
// and length and leaves the padded edges of both boxes, with the box
// centers on the arrow's line. When two chains meet, or a chain meets a
// settled node, the cycle is closed by stretching one chain, as long as
// the [ProjectionRatio] of the mismatch lies between [Config.RatioFloor]
// and [Config.RatioCutoff]. Finally every arrow is refitted between its
// nodes. Aligning an aligned diagram moves nothing.
//
// # Errors
//
// Failures are returned as [*LayoutError] values whose Kind tells what went
// wrong and whose Nodes and Arrows tell an editor what to reselect. They
// are recoverable. A failed [Relationship.Align] or
// [Document.BuildRelationship] leaves the document unchanged, and so does
// a dry-run [Relationship.Validate]. A repairing Validate may already have
// changed the relationship when it reports an error.
//
// # Persistence
//
// [Document.Save] and [Load] read and write an XML format. A
// [SerialContext] holds the name/handle mapping of one such call and is
// passed explicitly; [Document.Snapshot] and [Document.Restore] build undo
// support on top.
package arrange
