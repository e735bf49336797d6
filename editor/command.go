package editor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"erd/diagram"

	"go.uber.org/zap"
)

var (
	ErrUnknownCommand = errors.New("unknown command type")
	ErrInvalidCommand = errors.New("invalid command")
)

// CommandType tags each Command variant on the wire.
type CommandType string

const (
	CmdAddNode            CommandType = "addNode"
	CmdUpdateNode         CommandType = "updateNode"
	CmdRemoveNode         CommandType = "removeNode"
	CmdAddRelationship    CommandType = "addRelationship"
	CmdUpdateRelationship CommandType = "updateRelationship"
	CmdRemoveRelationship CommandType = "removeRelationship"
	CmdSetSelection       CommandType = "setSelection"
)

// Command is the closed set of model edits that collaborators may propose.
// Only the types in this package implement it.
type Command interface {
	Type() CommandType
	// Validate checks the command's own fields without consulting the model.
	Validate() error
	apply(e *Editor, refs refTable) (string, error)
}

// refTable maps batch-local references ("$name") to real ids.
type refTable map[string]string

func (r refTable) resolve(id string) string {
	if name, ok := strings.CutPrefix(id, "$"); ok {
		if real, ok := r[name]; ok {
			return real
		}
	}
	return id
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCommand, fmt.Sprintf(format, args...))
}

// AddNode places a new entity or annotation. Ref names the node for later
// commands in the same batch ("$ref").
type AddNode struct {
	Ref        string              `json:"ref,omitempty"`
	Kind       diagram.NodeKind    `json:"kind"`
	Name       string              `json:"name,omitempty"`
	Position   diagram.Point       `json:"position"`
	Size       *diagram.Size       `json:"size,omitempty"`
	Attributes []diagram.Attribute `json:"attributes,omitempty"`
	Text       string              `json:"text,omitempty"`
	Category   string              `json:"category,omitempty"`
}

func (AddNode) Type() CommandType { return CmdAddNode }

func (c AddNode) Validate() error {
	if c.Kind != diagram.KindEntity && c.Kind != diagram.KindAnnotation {
		return invalid("addNode: unknown kind %d", c.Kind)
	}
	if c.Size != nil && !c.Size.Valid() {
		return invalid("addNode: %v", diagram.ErrInvalidSize)
	}
	if !c.Position.IsFinite() {
		return invalid("addNode: %v", diagram.ErrInvalidPosition)
	}
	return validateAttributes(c.Attributes)
}

func (c AddNode) apply(e *Editor, refs refTable) (string, error) {
	size := e.opts.EntitySize
	if c.Kind == diagram.KindAnnotation {
		size = e.opts.AnnotationSize
	}
	if c.Size != nil {
		size = *c.Size
	}
	id, err := e.model.AddNode(c.Kind, c.Position, size, diagram.NodeContent{
		Name:       c.Name,
		Attributes: c.Attributes,
		Text:       c.Text,
		Category:   c.Category,
	})
	if err == nil && c.Ref != "" {
		refs[c.Ref] = id
	}
	return id, err
}

// UpdateNode merges the non-nil fields into an existing node.
type UpdateNode struct {
	ID         string               `json:"id"`
	Name       *string              `json:"name,omitempty"`
	Position   *diagram.Point       `json:"position,omitempty"`
	Size       *diagram.Size        `json:"size,omitempty"`
	Attributes *[]diagram.Attribute `json:"attributes,omitempty"`
	Text       *string              `json:"text,omitempty"`
	Category   *string              `json:"category,omitempty"`
}

func (UpdateNode) Type() CommandType { return CmdUpdateNode }

func (c UpdateNode) Validate() error {
	if c.ID == "" {
		return invalid("updateNode: missing id")
	}
	if c.Name == nil && c.Position == nil && c.Size == nil && c.Attributes == nil && c.Text == nil && c.Category == nil {
		return invalid("updateNode %s: no fields to update", c.ID)
	}
	if c.Size != nil && !c.Size.Valid() {
		return invalid("updateNode %s: %v", c.ID, diagram.ErrInvalidSize)
	}
	if c.Position != nil && !c.Position.IsFinite() {
		return invalid("updateNode %s: %v", c.ID, diagram.ErrInvalidPosition)
	}
	if c.Attributes != nil {
		return validateAttributes(*c.Attributes)
	}
	return nil
}

func (c UpdateNode) apply(e *Editor, refs refTable) (string, error) {
	id := refs.resolve(c.ID)
	return id, e.model.UpdateNode(id, diagram.NodePatch{
		Name:       c.Name,
		Position:   c.Position,
		Size:       c.Size,
		Attributes: c.Attributes,
		Text:       c.Text,
		Category:   c.Category,
	})
}

// RemoveNode deletes a node and its relationships.
type RemoveNode struct {
	ID string `json:"id"`
}

func (RemoveNode) Type() CommandType { return CmdRemoveNode }

func (c RemoveNode) Validate() error {
	if c.ID == "" {
		return invalid("removeNode: missing id")
	}
	return nil
}

func (c RemoveNode) apply(e *Editor, refs refTable) (string, error) {
	id := refs.resolve(c.ID)
	if err := e.model.RemoveNode(id); err != nil {
		return "", err
	}
	if e.pendingSource == id {
		e.pendingSource = ""
	}
	return id, nil
}

// AddRelationship connects two entities. Optional defaults to true for
// non-identifying relationships.
type AddRelationship struct {
	Kind              diagram.RelationshipKind `json:"kind"`
	SourceNodeID      string                   `json:"sourceNodeId"`
	TargetNodeID      string                   `json:"targetNodeId"`
	SourceCardinality diagram.Cardinality      `json:"sourceCardinality,omitempty"`
	TargetCardinality diagram.Cardinality      `json:"targetCardinality,omitempty"`
	Name              string                   `json:"name,omitempty"`
	Optional          *bool                    `json:"isOptional,omitempty"`
}

func (AddRelationship) Type() CommandType { return CmdAddRelationship }

func (c AddRelationship) Validate() error {
	if c.SourceNodeID == "" || c.TargetNodeID == "" {
		return invalid("addRelationship: both endpoints are required")
	}
	if !c.Kind.Valid() {
		return invalid("addRelationship: unknown kind %d", c.Kind)
	}
	for _, card := range []diagram.Cardinality{c.SourceCardinality, c.TargetCardinality} {
		if card != "" && !card.Valid() {
			return invalid("addRelationship: cardinality %q", card)
		}
	}
	return nil
}

func (c AddRelationship) apply(e *Editor, refs refTable) (string, error) {
	optional := c.Kind == diagram.NonIdentifying
	if c.Optional != nil {
		optional = *c.Optional
	}
	return e.model.AddRelationship(diagram.NewRelationship{
		Kind:              c.Kind,
		SourceNodeID:      refs.resolve(c.SourceNodeID),
		TargetNodeID:      refs.resolve(c.TargetNodeID),
		SourceCardinality: c.SourceCardinality,
		TargetCardinality: c.TargetCardinality,
		Name:              c.Name,
		Optional:          optional,
	})
}

// UpdateRelationship merges the non-nil fields into a relationship.
type UpdateRelationship struct {
	ID                string                    `json:"id"`
	Kind              *diagram.RelationshipKind `json:"kind,omitempty"`
	SourceCardinality *diagram.Cardinality      `json:"sourceCardinality,omitempty"`
	TargetCardinality *diagram.Cardinality      `json:"targetCardinality,omitempty"`
	Name              *string                   `json:"name,omitempty"`
	Optional          *bool                     `json:"isOptional,omitempty"`
}

func (UpdateRelationship) Type() CommandType { return CmdUpdateRelationship }

func (c UpdateRelationship) Validate() error {
	if c.ID == "" {
		return invalid("updateRelationship: missing id")
	}
	if c.Kind != nil && !c.Kind.Valid() {
		return invalid("updateRelationship %s: unknown kind %d", c.ID, *c.Kind)
	}
	for _, card := range []*diagram.Cardinality{c.SourceCardinality, c.TargetCardinality} {
		if card != nil && !card.Valid() {
			return invalid("updateRelationship %s: cardinality %q", c.ID, *card)
		}
	}
	return nil
}

func (c UpdateRelationship) apply(e *Editor, refs refTable) (string, error) {
	return c.ID, e.model.UpdateRelationship(c.ID, diagram.RelationshipPatch{
		Kind:              c.Kind,
		SourceCardinality: c.SourceCardinality,
		TargetCardinality: c.TargetCardinality,
		Name:              c.Name,
		Optional:          c.Optional,
	})
}

// RemoveRelationship deletes a relationship.
type RemoveRelationship struct {
	ID string `json:"id"`
}

func (RemoveRelationship) Type() CommandType { return CmdRemoveRelationship }

func (c RemoveRelationship) Validate() error {
	if c.ID == "" {
		return invalid("removeRelationship: missing id")
	}
	return nil
}

func (c RemoveRelationship) apply(e *Editor, refs refTable) (string, error) {
	return c.ID, e.model.RemoveRelationship(c.ID)
}

// SetSelection selects one node or relationship; both empty clears.
type SetSelection struct {
	NodeID         string `json:"nodeId,omitempty"`
	RelationshipID string `json:"relationshipId,omitempty"`
}

func (SetSelection) Type() CommandType { return CmdSetSelection }

func (c SetSelection) Validate() error {
	if c.NodeID != "" && c.RelationshipID != "" {
		return invalid("setSelection: node and relationship are mutually exclusive")
	}
	return nil
}

func (c SetSelection) apply(e *Editor, refs refTable) (string, error) {
	sel := diagram.Selection{NodeID: refs.resolve(c.NodeID), RelationshipID: c.RelationshipID}
	e.SetSelection(sel)
	return sel.NodeID + sel.RelationshipID, nil
}

func validateAttributes(attrs []diagram.Attribute) error {
	for i, a := range attrs {
		if strings.TrimSpace(a.Name) == "" {
			return invalid("attribute %d: missing name", i)
		}
		if !a.IndexType.Valid() {
			return invalid("attribute %s: index type %q", a.Name, a.IndexType)
		}
	}
	return nil
}

func mutates(c Command) bool {
	return c.Type() != CmdSetSelection
}

// Apply validates and runs a single command. Model edits record one history
// entry; a failed command changes nothing.
func (e *Editor) Apply(cmd Command) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}
	id, err := cmd.apply(e, refTable{})
	if err != nil {
		e.logger.Warn("command rejected", zap.String("type", string(cmd.Type())), zap.Error(err))
		return "", err
	}
	if mutates(cmd) {
		e.commit()
	}
	e.logger.Debug("command applied", zap.String("type", string(cmd.Type())), zap.String("id", id))
	return id, nil
}

// ApplyBatch runs cmds all-or-nothing. Every command is validated before
// any runs; if one fails the model is rolled back and no history entry is
// recorded. A successful batch that edits the model records exactly one.
func (e *Editor) ApplyBatch(cmds []Command) ([]string, error) {
	for i, c := range cmds {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
	}

	before := e.model.Snapshot()
	sel := e.model.Selection()
	pending := e.pendingSource
	refs := refTable{}
	ids := make([]string, 0, len(cmds))
	edited := false

	for i, c := range cmds {
		id, err := c.apply(e, refs)
		if err != nil {
			e.model.Restore(before)
			e.SetSelection(sel)
			e.pendingSource = pending
			e.logger.Warn("batch rolled back", zap.Int("index", i), zap.String("type", string(c.Type())), zap.Error(err))
			return nil, fmt.Errorf("command %d (%s): %w", i, c.Type(), err)
		}
		edited = edited || mutates(c)
		ids = append(ids, id)
	}

	if edited {
		e.commit()
	}
	e.logger.Debug("batch applied", zap.Int("commands", len(cmds)))
	return ids, nil
}

// DecodeCommand parses one {"type": ..., ...} object.
func DecodeCommand(data []byte) (Command, error) {
	var head struct {
		Type CommandType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}

	var (
		cmd Command
		err error
	)
	switch head.Type {
	case CmdAddNode:
		cmd, err = decodeAs[AddNode](data)
	case CmdUpdateNode:
		cmd, err = decodeAs[UpdateNode](data)
	case CmdRemoveNode:
		cmd, err = decodeAs[RemoveNode](data)
	case CmdAddRelationship:
		cmd, err = decodeAs[AddRelationship](data)
	case CmdUpdateRelationship:
		cmd, err = decodeAs[UpdateRelationship](data)
	case CmdRemoveRelationship:
		cmd, err = decodeAs[RemoveRelationship](data)
	case CmdSetSelection:
		cmd, err = decodeAs[SetSelection](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, head.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCommand, head.Type, err)
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// DecodeCommands parses a JSON array of commands, or a single object.
func DecodeCommands(data []byte) ([]Command, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		cmd, err := DecodeCommand(trimmed)
		if err != nil {
			return nil, err
		}
		return []Command{cmd}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	cmds := make([]Command, 0, len(raw))
	for i, r := range raw {
		cmd, err := DecodeCommand(r)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func decodeAs[T Command](data []byte) (Command, error) {
	var c T
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return c, nil
}
