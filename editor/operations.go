package editor

import (
	"erd/diagram"

	"go.uber.org/zap"
)

// AddNode adds a node and records one history entry.
func (e *Editor) AddNode(kind diagram.NodeKind, pos diagram.Point, size diagram.Size, content diagram.NodeContent) (string, error) {
	id, err := e.model.AddNode(kind, pos, size, content)
	if err != nil {
		return "", err
	}
	e.commit()
	return id, nil
}

// UpdateNode merges patch into a node and records one history entry.
func (e *Editor) UpdateNode(id string, patch diagram.NodePatch) error {
	if err := e.model.UpdateNode(id, patch); err != nil {
		return err
	}
	e.commit()
	return nil
}

// RemoveNode deletes a node with its relationships and records one history entry.
func (e *Editor) RemoveNode(id string) error {
	if err := e.model.RemoveNode(id); err != nil {
		return err
	}
	if e.pendingSource == id {
		e.pendingSource = ""
	}
	e.commit()
	return nil
}

// AddRelationship adds a relationship and records one history entry.
func (e *Editor) AddRelationship(req diagram.NewRelationship) (string, error) {
	id, err := e.model.AddRelationship(req)
	if err != nil {
		return "", err
	}
	e.commit()
	return id, nil
}

// UpdateRelationship merges patch into a relationship and records one history entry.
func (e *Editor) UpdateRelationship(id string, patch diagram.RelationshipPatch) error {
	if err := e.model.UpdateRelationship(id, patch); err != nil {
		return err
	}
	e.commit()
	return nil
}

// RemoveRelationship deletes a relationship and records one history entry.
func (e *Editor) RemoveRelationship(id string) error {
	if err := e.model.RemoveRelationship(id); err != nil {
		return err
	}
	e.commit()
	return nil
}

// SetSelection selects a node, a relationship, or nothing. Selection is not
// part of the history.
func (e *Editor) SetSelection(sel diagram.Selection) {
	switch {
	case sel.NodeID != "":
		e.model.SelectNode(sel.NodeID)
	case sel.RelationshipID != "":
		e.model.SelectRelationship(sel.RelationshipID)
	default:
		e.model.ClearSelection()
	}
}

// DeleteSelection removes whatever is selected. It returns false when
// nothing was selected.
func (e *Editor) DeleteSelection() (bool, error) {
	sel := e.model.Selection()
	switch {
	case sel.NodeID != "":
		return true, e.RemoveNode(sel.NodeID)
	case sel.RelationshipID != "":
		return true, e.RemoveRelationship(sel.RelationshipID)
	}
	return false, nil
}

// Undo restores the previous history entry. It returns false at the oldest
// entry. A drag in progress is recorded first, so Undo reverts it.
func (e *Editor) Undo() bool {
	e.endDrag()
	state, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.pendingSource = ""
	e.model.Restore(state)
	e.logger.Debug("undo", zap.Int("nodes", len(state.Nodes)), zap.Int("relationships", len(state.Relationships)))
	return true
}

// Redo restores the next history entry. It returns false at the newest
// entry.
func (e *Editor) Redo() bool {
	e.endDrag()
	state, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.pendingSource = ""
	e.model.Restore(state)
	e.logger.Debug("redo", zap.Int("nodes", len(state.Nodes)), zap.Int("relationships", len(state.Relationships)))
	return true
}

// CanUndo returns true if an undo is possible.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if a redo is possible.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// HistoryStats returns undo/redo statistics
func (e *Editor) HistoryStats() (current, total int) {
	return e.history.Stats()
}

// ZoomIn zooms the view in one step.
func (e *Editor) ZoomIn() {
	e.view.ZoomIn()
}

// ZoomOut zooms the view out one step.
func (e *Editor) ZoomOut() {
	e.view.ZoomOut()
}

// PanBy shifts the view by delta screen units.
func (e *Editor) PanBy(delta diagram.Point) {
	e.view.PanBy(delta)
}
