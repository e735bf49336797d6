package diagram

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// NodeContent is the initial content of a new node.
type NodeContent struct {
	Name       string
	Attributes []Attribute // Entity only
	Text       string      // Annotation only
	Category   string
}

// NodePatch carries the fields to merge into an existing node. Nil fields
// are left untouched.
type NodePatch struct {
	Name       *string
	Position   *Point
	Size       *Size
	Attributes *[]Attribute
	Text       *string
	Category   *string
}

// NewRelationship describes a relationship to add.
// Empty cardinalities default to "1" on the source and "1..M" on the target.
type NewRelationship struct {
	Kind              RelationshipKind
	SourceNodeID      string
	TargetNodeID      string
	SourceCardinality Cardinality
	TargetCardinality Cardinality
	Name              string
	Optional          bool
}

// RelationshipPatch carries the fields to merge into an existing relationship.
type RelationshipPatch struct {
	Kind              *RelationshipKind
	SourceCardinality *Cardinality
	TargetCardinality *Cardinality
	Name              *string
	Optional          *bool
}

// Selection holds at most one selected node or relationship.
type Selection struct {
	NodeID         string
	RelationshipID string
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return s.NodeID == "" && s.RelationshipID == ""
}

// ChangeKind identifies which operation mutated the model.
type ChangeKind int

const (
	NodeAdded ChangeKind = iota
	NodeUpdated
	NodeRemoved
	RelationshipAdded
	RelationshipUpdated
	RelationshipRemoved
	Restored
)

// String returns the string representation of a ChangeKind.
func (k ChangeKind) String() string {
	switch k {
	case NodeAdded:
		return "node-added"
	case NodeUpdated:
		return "node-updated"
	case NodeRemoved:
		return "node-removed"
	case RelationshipAdded:
		return "relationship-added"
	case RelationshipUpdated:
		return "relationship-updated"
	case RelationshipRemoved:
		return "relationship-removed"
	case Restored:
		return "restored"
	default:
		return "unknown"
	}
}

// ChangeEvent is emitted after every successful mutation.
type ChangeEvent struct {
	Kind ChangeKind
	ID   string // Affected node or relationship; empty for Restored
}

// Model is the canonical, mutable diagram. It has a single writer and does
// no locking.
type Model struct {
	nodes         []Node
	relationships []Relationship
	selection     Selection

	newID  IDGenerator
	logger *zap.Logger

	nextListener       int
	changeListeners    map[int]func(ChangeEvent)
	selectionListeners map[int]func(Selection)
}

// Option configures a Model.
type Option func(*Model)

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Model) {
		if gen != nil {
			m.newID = gen
		}
	}
}

// WithLogger sets the model's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewModel creates an empty model.
func NewModel(opts ...Option) *Model {
	m := &Model{
		nodes:              []Node{},
		relationships:      []Relationship{},
		newID:              NewUUID,
		logger:             zap.NewNop(),
		changeListeners:    make(map[int]func(ChangeEvent)),
		selectionListeners: make(map[int]func(Selection)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnChange registers fn for model-changed events and returns a func that
// unregisters it.
func (m *Model) OnChange(fn func(ChangeEvent)) func() {
	id := m.nextListener
	m.nextListener++
	m.changeListeners[id] = fn
	return func() { delete(m.changeListeners, id) }
}

// OnSelection registers fn for selection-changed events.
func (m *Model) OnSelection(fn func(Selection)) func() {
	id := m.nextListener
	m.nextListener++
	m.selectionListeners[id] = fn
	return func() { delete(m.selectionListeners, id) }
}

func (m *Model) emitChange(kind ChangeKind, id string) {
	ev := ChangeEvent{Kind: kind, ID: id}
	for _, k := range sortedKeys(m.changeListeners) {
		if fn, ok := m.changeListeners[k]; ok {
			fn(ev)
		}
	}
}

func (m *Model) setSelection(sel Selection) {
	if sel == m.selection {
		return
	}
	m.selection = sel
	for _, k := range sortedKeys(m.selectionListeners) {
		if fn, ok := m.selectionListeners[k]; ok {
			fn(sel)
		}
	}
}

// sortedKeys keeps listener notification in registration order.
func sortedKeys[V any](listeners map[int]V) []int {
	keys := make([]int, 0, len(listeners))
	for k := range listeners {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (m *Model) nodeIndex(id string) int {
	return slices.IndexFunc(m.nodes, func(n Node) bool { return n.ID == id })
}

func (m *Model) relationshipIndex(id string) int {
	return slices.IndexFunc(m.relationships, func(r Relationship) bool { return r.ID == id })
}

func (m *Model) idTaken(id string) bool {
	return m.nodeIndex(id) >= 0 || m.relationshipIndex(id) >= 0
}

// AddNode inserts a new node and returns its id. It fails only on a size
// that is not positive and finite, or a non-finite position.
func (m *Model) AddNode(kind NodeKind, pos Point, size Size, content NodeContent) (string, error) {
	if !size.Valid() {
		return "", fmt.Errorf("add %s: %w", kind, ErrInvalidSize)
	}
	if !pos.IsFinite() {
		return "", fmt.Errorf("add %s: %w", kind, ErrInvalidPosition)
	}

	node := Node{
		ID:       nextFreeID(m.newID, m.idTaken),
		Kind:     kind,
		Name:     content.Name,
		Position: pos,
		Size:     size,
		Category: content.Category,
	}
	switch kind {
	case KindEntity:
		node.Attributes = Node{Attributes: content.Attributes}.Clone().Attributes
	case KindAnnotation:
		node.Text = content.Text
	}

	m.nodes = append(m.nodes, node)
	m.logger.Debug("node added",
		zap.String("id", node.ID),
		zap.Stringer("kind", kind),
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y))
	m.emitChange(NodeAdded, node.ID)
	return node.ID, nil
}

// UpdateNode merges patch into the node with the given id.
func (m *Model) UpdateNode(id string, patch NodePatch) error {
	i := m.nodeIndex(id)
	if i < 0 {
		return fmt.Errorf("update node %s: %w", id, ErrNotFound)
	}
	if patch.Size != nil && !patch.Size.Valid() {
		return fmt.Errorf("update node %s: %w", id, ErrInvalidSize)
	}
	if patch.Position != nil && !patch.Position.IsFinite() {
		return fmt.Errorf("update node %s: %w", id, ErrInvalidPosition)
	}

	n := &m.nodes[i]
	if patch.Name != nil {
		n.Name = *patch.Name
	}
	if patch.Position != nil {
		n.Position = *patch.Position
	}
	if patch.Size != nil {
		n.Size = *patch.Size
	}
	if patch.Attributes != nil && n.Kind == KindEntity {
		n.Attributes = Node{Attributes: *patch.Attributes}.Clone().Attributes
	}
	if patch.Text != nil && n.Kind == KindAnnotation {
		n.Text = *patch.Text
	}
	if patch.Category != nil {
		n.Category = *patch.Category
	}

	m.emitChange(NodeUpdated, id)
	return nil
}

// MoveNode sets a node's position.
func (m *Model) MoveNode(id string, pos Point) error {
	return m.UpdateNode(id, NodePatch{Position: &pos})
}

// RemoveNode deletes the node and every relationship that references it.
func (m *Model) RemoveNode(id string) error {
	i := m.nodeIndex(id)
	if i < 0 {
		return fmt.Errorf("remove node %s: %w", id, ErrNotFound)
	}

	m.nodes = slices.Delete(m.nodes, i, i+1)

	removed := 0
	kept := m.relationships[:0]
	sel := m.selection
	for _, r := range m.relationships {
		if r.Touches(id) {
			removed++
			if sel.RelationshipID == r.ID {
				sel = Selection{}
			}
			continue
		}
		kept = append(kept, r)
	}
	clear(m.relationships[len(kept):])
	m.relationships = kept

	if sel.NodeID == id {
		sel = Selection{}
	}

	m.logger.Debug("node removed", zap.String("id", id), zap.Int("cascaded", removed))
	m.emitChange(NodeRemoved, id)
	m.setSelection(sel)
	return nil
}

// AddRelationship validates and inserts a relationship, returning its id.
func (m *Model) AddRelationship(req NewRelationship) (string, error) {
	if !req.Kind.Valid() {
		return "", fmt.Errorf("add relationship: %w: %d", ErrInvalidKind, req.Kind)
	}
	if req.SourceNodeID == req.TargetNodeID {
		return "", fmt.Errorf("add relationship on %s: %w", req.SourceNodeID, ErrSelfLoop)
	}
	for _, end := range []string{req.SourceNodeID, req.TargetNodeID} {
		n, ok := m.Node(end)
		if !ok || n.Kind != KindEntity {
			return "", fmt.Errorf("add relationship to %q: %w", end, ErrInvalidEndpoint)
		}
	}

	srcCard, tgtCard := req.SourceCardinality, req.TargetCardinality
	if srcCard == "" {
		srcCard = CardOne
	}
	if tgtCard == "" {
		tgtCard = CardOneOrMany
	}
	for _, c := range []Cardinality{srcCard, tgtCard} {
		if !c.Valid() {
			return "", fmt.Errorf("add relationship: %w: %q", ErrInvalidCardinality, c)
		}
	}

	rel := Relationship{
		ID:                nextFreeID(m.newID, m.idTaken),
		Kind:              req.Kind,
		SourceNodeID:      req.SourceNodeID,
		TargetNodeID:      req.TargetNodeID,
		SourceCardinality: srcCard,
		TargetCardinality: tgtCard,
		Name:              req.Name,
		Optional:          req.Optional,
	}
	m.relationships = append(m.relationships, rel)
	m.logger.Debug("relationship added",
		zap.String("id", rel.ID),
		zap.Stringer("kind", rel.Kind),
		zap.String("source", rel.SourceNodeID),
		zap.String("target", rel.TargetNodeID))
	m.emitChange(RelationshipAdded, rel.ID)
	return rel.ID, nil
}

// UpdateRelationship merges patch into the relationship with the given id.
func (m *Model) UpdateRelationship(id string, patch RelationshipPatch) error {
	i := m.relationshipIndex(id)
	if i < 0 {
		return fmt.Errorf("update relationship %s: %w", id, ErrNotFound)
	}
	if patch.Kind != nil && !patch.Kind.Valid() {
		return fmt.Errorf("update relationship %s: %w: %d", id, ErrInvalidKind, *patch.Kind)
	}
	for _, c := range []*Cardinality{patch.SourceCardinality, patch.TargetCardinality} {
		if c != nil && !c.Valid() {
			return fmt.Errorf("update relationship %s: %w: %q", id, ErrInvalidCardinality, *c)
		}
	}

	r := &m.relationships[i]
	if patch.Kind != nil {
		r.Kind = *patch.Kind
	}
	if patch.SourceCardinality != nil {
		r.SourceCardinality = *patch.SourceCardinality
	}
	if patch.TargetCardinality != nil {
		r.TargetCardinality = *patch.TargetCardinality
	}
	if patch.Name != nil {
		r.Name = *patch.Name
	}
	if patch.Optional != nil {
		r.Optional = *patch.Optional
	}

	m.emitChange(RelationshipUpdated, id)
	return nil
}

// RemoveRelationship deletes the relationship with the given id.
func (m *Model) RemoveRelationship(id string) error {
	i := m.relationshipIndex(id)
	if i < 0 {
		return fmt.Errorf("remove relationship %s: %w", id, ErrNotFound)
	}
	m.relationships = slices.Delete(m.relationships, i, i+1)
	m.emitChange(RelationshipRemoved, id)
	if m.selection.RelationshipID == id {
		m.setSelection(Selection{})
	}
	return nil
}

// SelectNode selects the node and clears any relationship selection.
// An unknown id clears the selection.
func (m *Model) SelectNode(id string) {
	if m.nodeIndex(id) < 0 {
		m.setSelection(Selection{})
		return
	}
	m.setSelection(Selection{NodeID: id})
}

// SelectRelationship selects the relationship and clears any node selection.
// An unknown id clears the selection.
func (m *Model) SelectRelationship(id string) {
	if m.relationshipIndex(id) < 0 {
		m.setSelection(Selection{})
		return
	}
	m.setSelection(Selection{RelationshipID: id})
}

// ClearSelection deselects everything.
func (m *Model) ClearSelection() {
	m.setSelection(Selection{})
}

// Selection returns the current selection.
func (m *Model) Selection() Selection {
	return m.selection
}

// Node returns a copy of the node with the given id.
func (m *Model) Node(id string) (Node, bool) {
	if i := m.nodeIndex(id); i >= 0 {
		return m.nodes[i].Clone(), true
	}
	return Node{}, false
}

// Relationship returns the relationship with the given id.
func (m *Model) Relationship(id string) (Relationship, bool) {
	if i := m.relationshipIndex(id); i >= 0 {
		return m.relationships[i], true
	}
	return Relationship{}, false
}

// Nodes returns copies of all nodes in insertion order.
func (m *Model) Nodes() []Node {
	out := make([]Node, len(m.nodes))
	for i, n := range m.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Relationships returns all relationships in insertion order.
func (m *Model) Relationships() []Relationship {
	return slices.Clone(m.relationships)
}

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int {
	return len(m.nodes)
}

// RelationshipCount returns the number of relationships.
func (m *Model) RelationshipCount() int {
	return len(m.relationships)
}

// NodeAt returns the topmost node containing the world point. Later nodes
// are drawn over earlier ones, so the search runs backwards.
func (m *Model) NodeAt(p Point) (Node, bool) {
	for i := len(m.nodes) - 1; i >= 0; i-- {
		if m.nodes[i].Contains(p) {
			return m.nodes[i].Clone(), true
		}
	}
	return Node{}, false
}

// Snapshot returns a deep copy of the current nodes and relationships.
func (m *Model) Snapshot() *Diagram {
	d := &Diagram{Nodes: m.nodes, Relationships: m.relationships}
	return d.Clone()
}

// Restore replaces the model content with a deep copy of d. Selection
// entries that no longer exist are dropped.
func (m *Model) Restore(d *Diagram) {
	if d == nil {
		d = &Diagram{}
	}
	c := d.Clone()
	m.nodes = c.Nodes
	m.relationships = c.Relationships

	m.emitChange(Restored, "")

	sel := m.selection
	if sel.NodeID != "" && m.nodeIndex(sel.NodeID) < 0 {
		sel = Selection{}
	}
	if sel.RelationshipID != "" && m.relationshipIndex(sel.RelationshipID) < 0 {
		sel = Selection{}
	}
	m.setSelection(sel)
}
