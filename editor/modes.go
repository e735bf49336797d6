package editor

import (
	"fmt"
	"strings"

	"erd/diagram"

	"go.uber.org/zap"
)

// Tool represents the current tool mode
type Tool int

const (
	ToolSelect               Tool = iota // Select and drag (default)
	ToolPlaceEntity                      // Next empty-canvas click adds an entity
	ToolPlaceAnnotation                  // Next empty-canvas click adds a note
	ToolCreateIdentifying                // Two clicks create an identifying relationship
	ToolCreateNonIdentifying             // Two clicks create a non-identifying relationship
)

// String returns the tool name for display
func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "SELECT"
	case ToolPlaceEntity:
		return "ENTITY"
	case ToolPlaceAnnotation:
		return "NOTE"
	case ToolCreateIdentifying:
		return "IDENTIFYING"
	case ToolCreateNonIdentifying:
		return "NON-IDENTIFYING"
	default:
		return "UNKNOWN"
	}
}

// IsPlacement reports whether the tool places nodes.
func (t Tool) IsPlacement() bool {
	return t == ToolPlaceEntity || t == ToolPlaceAnnotation
}

// IsRelationship reports whether the tool draws relationships.
func (t Tool) IsRelationship() bool {
	return t == ToolCreateIdentifying || t == ToolCreateNonIdentifying
}

// RelationshipKind returns the kind created by a relationship tool.
func (t Tool) RelationshipKind() diagram.RelationshipKind {
	if t == ToolCreateNonIdentifying {
		return diagram.NonIdentifying
	}
	return diagram.Identifying
}

// ParseTool accepts the display names plus a few short aliases.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "select", "s":
		return ToolSelect, nil
	case "entity", "e", "table":
		return ToolPlaceEntity, nil
	case "note", "annotation", "a":
		return ToolPlaceAnnotation, nil
	case "identifying", "id", "i":
		return ToolCreateIdentifying, nil
	case "non-identifying", "nonid", "n":
		return ToolCreateNonIdentifying, nil
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", s)
}

// SetTool changes the tool mode and abandons any half-finished relationship.
// A drag in progress ends where the node is and is recorded like a release.
func (e *Editor) SetTool(tool Tool) {
	if e.tool != tool {
		e.logger.Info("tool changed", zap.Stringer("from", e.tool), zap.Stringer("to", tool))
	}
	e.endDrag()
	e.tool = tool
	e.pendingSource = ""
}

// Tool returns the current tool mode
func (e *Editor) Tool() Tool {
	return e.tool
}

// PendingSource returns the source node chosen by the first click of a
// relationship tool, or "" when none is pending.
func (e *Editor) PendingSource() string {
	return e.pendingSource
}

// Cancel drops the pending source and returns to Select.
func (e *Editor) Cancel() {
	e.SetTool(ToolSelect)
}
