package arrange

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

type xmlDocument struct {
	XMLName       xml.Name          `xml:"document"`
	Zoom          float64           `xml:"zoom,attr,omitempty"`
	Relationships []xmlRelationship `xml:"relationship"`
	Nodes         []xmlNode         `xml:"node"`
	Arrows        []xmlArrow        `xml:"arrow"`
}

type xmlRelationship struct {
	ID     string     `xml:"id,attr"`
	Type   string     `xml:"type,attr"`
	Nodes  []xmlNode  `xml:"node"`
	Arrows []xmlArrow `xml:"arrow"`
}

type xmlNode struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Bounds xmlRect `xml:"bounds"`
}

type xmlRect struct {
	X0 float64 `xml:"x0,attr"`
	Y0 float64 `xml:"y0,attr"`
	X1 float64 `xml:"x1,attr"`
	Y1 float64 `xml:"y1,attr"`
}

type xmlArrow struct {
	ID    string  `xml:"id,attr"`
	Type  string  `xml:"type,attr"`
	Start string  `xml:"start,attr,omitempty"`
	End   string  `xml:"end,attr,omitempty"`
	X0    float64 `xml:"x0,attr"`
	Y0    float64 `xml:"y0,attr"`
	X1    float64 `xml:"x1,attr"`
	Y1    float64 `xml:"y1,attr"`
}

// SerialContext carries the state of one save or load: the mapping
// between object names and handles, and the generator naming objects that
// have no name. It is passed explicitly to every save and load call, so
// concurrent documents never share scratch state.
type SerialContext struct {
	// NewName names unnamed objects, and objects whose name is already
	// taken by another object of the same sort. It defaults to random
	// UUIDs.
	NewName func() string

	nodes     map[string]NodeID
	arrows    map[string]ArrowID
	nodeNames map[NodeID]string
}

func NewSerialContext() *SerialContext {
	return &SerialContext{NewName: uuid.NewString}
}

func (ctx *SerialContext) reset() {
	ctx.nodes = make(map[string]NodeID)
	ctx.arrows = make(map[string]ArrowID)
	ctx.nodeNames = make(map[NodeID]string)
	if ctx.NewName == nil {
		ctx.NewName = uuid.NewString
	}
}

// NodeByName returns the handle of the node saved or loaded under name.
func (ctx *SerialContext) NodeByName(name string) (NodeID, bool) {
	n, ok := ctx.nodes[name]
	return n, ok
}

// ArrowByName returns the handle of the arrow saved or loaded under name.
func (ctx *SerialContext) ArrowByName(name string) (ArrowID, bool) {
	a, ok := ctx.arrows[name]
	return a, ok
}

func (ctx *SerialContext) nodeName(d *Document, id NodeID) string {
	if name, ok := ctx.nodeNames[id]; ok {
		return name
	}
	name := d.nodes[id].Name
	for {
		if _, taken := ctx.nodes[name]; name != "" && !taken {
			break
		}
		name = ctx.NewName()
	}
	ctx.nodes[name] = id
	ctx.nodeNames[id] = name
	return name
}

func (ctx *SerialContext) arrowName(d *Document, id ArrowID) string {
	name := d.arrows[id].Name
	for {
		if _, taken := ctx.arrows[name]; name != "" && !taken {
			break
		}
		name = ctx.NewName()
	}
	ctx.arrows[name] = id
	return name
}

// Save writes the document as XML.
func (d *Document) Save(w io.Writer, ctx *SerialContext) error {
	ctx.reset()
	doc := xmlDocument{Zoom: d.cfg.Zoom}
	for _, r := range d.Relationships() {
		xr := xmlRelationship{ID: r.Name, Type: r.kind.String()}
		for _, n := range r.nodes {
			xr.Nodes = append(xr.Nodes, d.xmlNode(ctx, n))
		}
		for _, a := range r.arrows {
			xr.Arrows = append(xr.Arrows, d.xmlArrow(ctx, a))
		}
		doc.Relationships = append(doc.Relationships, xr)
	}
	for _, n := range d.Nodes() {
		if _, owned := d.nodes[n].Relationship(); !owned {
			doc.Nodes = append(doc.Nodes, d.xmlNode(ctx, n))
		}
	}
	for _, a := range d.Arrows() {
		if d.arrows[a].rel == noRelationship {
			doc.Arrows = append(doc.Arrows, d.xmlArrow(ctx, a))
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (d *Document) xmlNode(ctx *SerialContext, id NodeID) xmlNode {
	n := &d.nodes[id]
	return xmlNode{
		ID:     ctx.nodeName(d, id),
		X:      n.Anchor.X,
		Y:      n.Anchor.Y,
		Bounds: xmlRect{n.Bounds.X0, n.Bounds.Y0, n.Bounds.X1, n.Bounds.Y1},
	}
}

func (d *Document) xmlArrow(ctx *SerialContext, id ArrowID) xmlArrow {
	a := &d.arrows[id]
	xa := xmlArrow{
		ID:   ctx.arrowName(d, id),
		Type: a.Kind.String(),
		X0:   a.P0.X,
		Y0:   a.P0.Y,
		X1:   a.P1.X,
		Y1:   a.P1.Y,
	}
	if a.Start != NoNode {
		xa.Start = ctx.nodeName(d, a.Start)
	}
	if a.End != NoNode {
		xa.End = ctx.nodeName(d, a.End)
	}
	return xa
}

// Load reads a document written by [Document.Save]. The zoom stored in the
// file overrides the one from the options. Relationships are loaded as
// they are; callers validate them.
func Load(r io.Reader, ctx *SerialContext, opts ...Option) (*Document, error) {
	var doc xmlDocument
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	d := NewDocument(opts...)
	if doc.Zoom > 0 {
		d.cfg.Zoom = doc.Zoom
	}
	ctx.reset()

	addNodes := func(xns []xmlNode) ([]NodeID, error) {
		var ids []NodeID
		for _, xn := range xns {
			name := xn.ID
			if name == "" {
				name = ctx.NewName()
			}
			if _, dup := ctx.nodes[name]; dup {
				return nil, fmt.Errorf("load document: duplicate node %q", name)
			}
			id := d.AddNode(name, Pt(xn.X, xn.Y), Rect{xn.Bounds.X0, xn.Bounds.Y0, xn.Bounds.X1, xn.Bounds.Y1})
			ctx.nodes[name] = id
			ctx.nodeNames[id] = name
			ids = append(ids, id)
		}
		return ids, nil
	}
	endpoint := func(arrow, name string) (NodeID, error) {
		if name == "" {
			return NoNode, nil
		}
		id, ok := ctx.nodes[name]
		if !ok {
			return NoNode, fmt.Errorf("load document: arrow %q: unknown node %q", arrow, name)
		}
		return id, nil
	}
	addArrows := func(xas []xmlArrow) ([]ArrowID, error) {
		var ids []ArrowID
		for _, xa := range xas {
			name := xa.ID
			if name == "" {
				name = ctx.NewName()
			}
			if _, dup := ctx.arrows[name]; dup {
				return nil, fmt.Errorf("load document: duplicate arrow %q", name)
			}
			kind, ok := ParseArrowKind(xa.Type)
			if !ok {
				return nil, fmt.Errorf("load document: arrow %q: unknown type %q", name, xa.Type)
			}
			start, err := endpoint(name, xa.Start)
			if err != nil {
				return nil, err
			}
			end, err := endpoint(name, xa.End)
			if err != nil {
				return nil, err
			}
			id, err := d.AddArrow(name, kind, start, end, Pt(xa.X0, xa.Y0), Pt(xa.X1, xa.Y1))
			if err != nil {
				return nil, fmt.Errorf("load document: %w", err)
			}
			ctx.arrows[name] = id
			ids = append(ids, id)
		}
		return ids, nil
	}

	// Arrows may refer to nodes of any relationship, so all nodes come
	// first.
	relNodes := make([][]NodeID, len(doc.Relationships))
	for i, xr := range doc.Relationships {
		ids, err := addNodes(xr.Nodes)
		if err != nil {
			return nil, err
		}
		relNodes[i] = ids
	}
	if _, err := addNodes(doc.Nodes); err != nil {
		return nil, err
	}
	for i, xr := range doc.Relationships {
		kind, ok := ParseRelationshipKind(xr.Type)
		if !ok {
			return nil, fmt.Errorf("load document: relationship %q: unknown type %q", xr.ID, xr.Type)
		}
		arrows, err := addArrows(xr.Arrows)
		if err != nil {
			return nil, err
		}
		name := xr.ID
		if name == "" {
			name = ctx.NewName()
		}
		if err := d.NewRelationship(kind, name).Add(relNodes[i], arrows); err != nil {
			return nil, fmt.Errorf("load document: relationship %q: %w", name, err)
		}
	}
	if _, err := addArrows(doc.Arrows); err != nil {
		return nil, err
	}
	d.log.Debug("document loaded",
		zap.Int("relationships", len(doc.Relationships)),
		zap.Int("nodes", len(ctx.nodes)),
		zap.Int("arrows", len(ctx.arrows)))
	return d, nil
}

// Snapshot serializes the document for undo.
func (d *Document) Snapshot(ctx *SerialContext) ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Save(&buf, ctx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Restore replaces the document's content with a snapshot. Handles and
// relationships obtained before the call are invalidated; look objects up
// again by name through ctx.
func (d *Document) Restore(ctx *SerialContext, data []byte) error {
	nd, err := Load(bytes.NewReader(data), ctx, WithConfig(d.cfg), WithLogger(d.log), WithMeasurer(d.measure))
	if err != nil {
		return err
	}
	d.cfg = nd.cfg
	d.nodes = nd.nodes
	d.arrows = nd.arrows
	d.rels = nd.rels
	for _, r := range d.rels {
		r.doc = d
	}
	return nil
}
