package diagram

// Reader is the read-only query surface offered to collaborators such as
// property panels and renderers.
type Reader interface {
	// Nodes returns copies of all nodes in insertion order.
	Nodes() []Node

	// Relationships returns all relationships in insertion order.
	Relationships() []Relationship

	// Selection returns the current selection.
	Selection() Selection

	// Snapshot returns a deep copy of the whole diagram.
	Snapshot() *Diagram
}

var _ Reader = (*Model)(nil)
