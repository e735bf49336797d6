// Package diagram contains the entity-relationship data model and the
// operations that mutate it.
package diagram

import (
	"fmt"
	"math"
	"slices"
)

// Point represents a 2D coordinate in world space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p minus q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// IsFinite reports whether neither coordinate is NaN or infinite.
func (p Point) IsFinite() bool {
	return finite(p.X) && finite(p.Y)
}

// Size is the width and height of a node.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both dimensions are positive and finite.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0 && finite(s.Width) && finite(s.Height)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NodeKind distinguishes tables from free-text notes.
type NodeKind int

const (
	KindEntity NodeKind = iota
	KindAnnotation
)

// String returns the string representation of a NodeKind.
func (k NodeKind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindAnnotation:
		return "annotation"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts "entity", "annotation" or "note".
func (k *NodeKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "entity", "table":
		*k = KindEntity
	case "annotation", "note":
		*k = KindAnnotation
	default:
		return fmt.Errorf("unknown node kind %q", b)
	}
	return nil
}

// IndexType is the optional index classification of an attribute.
type IndexType string

const (
	IndexNone         IndexType = ""
	IndexUnique       IndexType = "unique"
	IndexNonUnique    IndexType = "non-unique"
	IndexClustered    IndexType = "clustered"
	IndexNonClustered IndexType = "non-clustered"
)

// Valid reports whether t is one of the known index types or empty.
func (t IndexType) Valid() bool {
	switch t {
	case IndexNone, IndexUnique, IndexNonUnique, IndexClustered, IndexNonClustered:
		return true
	}
	return false
}

// Attribute is a column of an entity node.
type Attribute struct {
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	PrimaryKey   bool      `json:"isPrimaryKey,omitempty"`
	ForeignKey   bool      `json:"isForeignKey,omitempty"`
	Required     bool      `json:"isRequired,omitempty"`
	Unique       bool      `json:"isUnique,omitempty"`
	Indexed      bool      `json:"isIndexed,omitempty"`
	IndexType    IndexType `json:"indexType,omitempty"`
	DefaultValue *string   `json:"defaultValue,omitempty"`
}

func (a Attribute) clone() Attribute {
	if a.DefaultValue != nil {
		v := *a.DefaultValue
		a.DefaultValue = &v
	}
	return a
}

// Node represents an entity or annotation placed on the canvas.
type Node struct {
	ID         string      `json:"id"`
	Kind       NodeKind    `json:"kind"`
	Name       string      `json:"name"`
	Position   Point       `json:"position"`
	Size       Size        `json:"size"`
	Attributes []Attribute `json:"attributes,omitempty"` // Entity only
	Text       string      `json:"text,omitempty"`       // Annotation only
	Category   string      `json:"category,omitempty"`
}

// Center returns the center point of the node.
func (n Node) Center() Point {
	return Point{
		X: n.Position.X + n.Size.Width/2,
		Y: n.Position.Y + n.Size.Height/2,
	}
}

// Contains checks if a world point is inside the node.
func (n Node) Contains(p Point) bool {
	return p.X >= n.Position.X && p.X < n.Position.X+n.Size.Width &&
		p.Y >= n.Position.Y && p.Y < n.Position.Y+n.Size.Height
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	if n.Attributes != nil {
		attrs := make([]Attribute, len(n.Attributes))
		for i, a := range n.Attributes {
			attrs[i] = a.clone()
		}
		n.Attributes = attrs
	}
	return n
}

// RelationshipKind selects solid (identifying) or dashed (non-identifying) rendering.
type RelationshipKind int

const (
	Identifying RelationshipKind = iota
	NonIdentifying
)

// String returns the string representation of a RelationshipKind.
func (k RelationshipKind) String() string {
	switch k {
	case Identifying:
		return "identifying"
	case NonIdentifying:
		return "non-identifying"
	default:
		return "unknown"
	}
}

// Valid reports whether k is Identifying or NonIdentifying.
func (k RelationshipKind) Valid() bool {
	return k == Identifying || k == NonIdentifying
}

// MarshalText encodes the kind by name.
func (k RelationshipKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts "identifying" or "non-identifying".
func (k *RelationshipKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "identifying":
		*k = Identifying
	case "non-identifying", "nonidentifying":
		*k = NonIdentifying
	default:
		return fmt.Errorf("unknown relationship kind %q", b)
	}
	return nil
}

// Relationship represents a directed edge between two entity nodes.
type Relationship struct {
	ID                string           `json:"id"`
	Kind              RelationshipKind `json:"kind"`
	SourceNodeID      string           `json:"sourceNodeId"`
	TargetNodeID      string           `json:"targetNodeId"`
	SourceCardinality Cardinality      `json:"sourceCardinality"`
	TargetCardinality Cardinality      `json:"targetCardinality"`
	Name              string           `json:"name,omitempty"`
	Optional          bool             `json:"isOptional,omitempty"` // Drawn dashed
}

// Touches reports whether the relationship has nodeID as an endpoint.
func (r Relationship) Touches(nodeID string) bool {
	return r.SourceNodeID == nodeID || r.TargetNodeID == nodeID
}

// Diagram is an immutable-by-convention snapshot of nodes and relationships.
type Diagram struct {
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}

// Clone creates a deep copy of the diagram
func (d *Diagram) Clone() *Diagram {
	if d == nil {
		return nil
	}

	clone := &Diagram{
		Nodes:         make([]Node, len(d.Nodes)),
		Relationships: slices.Clone(d.Relationships),
	}
	if clone.Relationships == nil {
		clone.Relationships = []Relationship{}
	}
	for i, node := range d.Nodes {
		clone.Nodes[i] = node.Clone()
	}
	return clone
}

// Node returns the node with the given id.
func (d *Diagram) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Relationship returns the relationship with the given id.
func (d *Diagram) Relationship(id string) (Relationship, bool) {
	for _, r := range d.Relationships {
		if r.ID == id {
			return r, true
		}
	}
	return Relationship{}, false
}
