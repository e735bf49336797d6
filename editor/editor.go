// Package editor turns pointer input into diagram edits and keeps the
// undo/redo history.
package editor

import (
	"errors"

	"erd/diagram"
	"erd/view"

	"go.uber.org/zap"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Options configures an Editor.
type Options struct {
	HistoryCapacity int
	Limits          view.Limits
	EntitySize      diagram.Size
	AnnotationSize  diagram.Size
	Logger          *zap.Logger
}

// DefaultOptions returns the stock editor settings.
func DefaultOptions() Options {
	return Options{
		HistoryCapacity: 500,
		Limits:          view.DefaultLimits(),
		EntitySize:      diagram.Size{Width: 220, Height: 180},
		AnnotationSize:  diagram.Size{Width: 200, Height: 100},
	}
}

// dragState tracks a node being repositioned with the pointer held.
type dragState struct {
	nodeID string
	grab   diagram.Point // pointer minus node position, world units
	origin diagram.Point // node position when the drag began
	moved  bool
}

// Editor is the interaction state machine. It owns the tool mode and the
// pending relationship source, and routes every discrete edit through the
// history.
type Editor struct {
	model   *diagram.Model
	history *History
	view    *view.Transform

	tool          Tool
	pendingSource string // first click of a relationship tool
	drag          *dragState
	panFrom       *diagram.Point // last pointer position while panning
	handTool      bool

	opts   Options
	logger *zap.Logger
}

// New creates an editor over model and records its current content as the
// oldest history entry.
func New(model *diagram.Model, opts Options) *Editor {
	if model == nil {
		model = diagram.NewModel()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultOptions()
	if opts.Limits == (view.Limits{}) {
		opts.Limits = def.Limits
	}
	if !opts.EntitySize.Valid() {
		opts.EntitySize = def.EntitySize
	}
	if !opts.AnnotationSize.Valid() {
		opts.AnnotationSize = def.AnnotationSize
	}

	e := &Editor{
		model:   model,
		history: NewHistory(opts.HistoryCapacity),
		view:    view.NewTransform(opts.Limits),
		tool:    ToolSelect,
		opts:    opts,
		logger:  logger,
	}
	e.history.Snapshot(model.Snapshot())
	return e
}

// Model returns the live diagram model for queries.
func (e *Editor) Model() *diagram.Model {
	return e.model
}

// View returns the pan/zoom transform.
func (e *Editor) View() *view.Transform {
	return e.view
}

// IsDragging reports whether a node drag is in progress.
func (e *Editor) IsDragging() bool {
	return e.drag != nil
}

// IsPanning reports whether a pan gesture is in progress.
func (e *Editor) IsPanning() bool {
	return e.panFrom != nil
}

// HandTool reports whether primary-button drags pan the view.
func (e *Editor) HandTool() bool {
	return e.handTool
}

// SetHandTool toggles the hand tool. While it is on, node dragging is
// suppressed.
func (e *Editor) SetHandTool(on bool) {
	e.handTool = on
	if on {
		e.endDrag()
	}
}

// PointerDown handles a button press at a screen position.
func (e *Editor) PointerDown(screen diagram.Point, button Button) {
	if button == ButtonMiddle || (button == ButtonPrimary && e.handTool) {
		p := screen
		e.panFrom = &p
		return
	}
	if button != ButtonPrimary {
		return
	}

	world := e.view.ScreenToWorld(screen)
	node, hit := e.model.NodeAt(world)

	switch {
	case e.tool.IsPlacement():
		if hit {
			return
		}
		e.placeNode(world)

	case e.tool.IsRelationship():
		if hit {
			e.relationshipClick(node)
		}

	default:
		if !hit {
			e.model.ClearSelection()
			return
		}
		e.model.SelectNode(node.ID)
		e.drag = &dragState{
			nodeID: node.ID,
			grab:   world.Sub(node.Position),
			origin: node.Position,
		}
	}
}

// PointerMove handles pointer motion with or without a button held.
func (e *Editor) PointerMove(screen diagram.Point) {
	if e.panFrom != nil {
		e.view.PanBy(screen.Sub(*e.panFrom))
		*e.panFrom = screen
		return
	}
	if e.drag == nil {
		return
	}

	pos := e.view.ScreenToWorld(screen).Sub(e.drag.grab)
	if err := e.model.MoveNode(e.drag.nodeID, pos); err != nil {
		// The node vanished under the pointer (an external remove).
		e.logger.Warn("drag target lost", zap.String("node", e.drag.nodeID), zap.Error(err))
		e.drag = nil
		return
	}
	e.drag.moved = true
}

// PointerUp ends a drag or pan. A drag that moved the node records one
// history entry.
func (e *Editor) PointerUp(screen diagram.Point) {
	if e.panFrom != nil {
		e.panFrom = nil
		return
	}
	e.endDrag()
}

// Click is a press and release at the same position.
func (e *Editor) Click(screen diagram.Point) {
	e.PointerDown(screen, ButtonPrimary)
	e.PointerUp(screen)
}

// Wheel zooms the view.
func (e *Editor) Wheel(deltaY float64) {
	e.view.WheelZoom(deltaY)
}

func (e *Editor) endDrag() {
	d := e.drag
	e.drag = nil
	if d == nil || !d.moved {
		return
	}
	n, ok := e.model.Node(d.nodeID)
	if !ok || n.Position == d.origin {
		return
	}
	e.logger.Debug("node dragged",
		zap.String("node", d.nodeID),
		zap.Float64("x", n.Position.X),
		zap.Float64("y", n.Position.Y))
	e.commit()
}

func (e *Editor) placeNode(world diagram.Point) {
	var (
		id  string
		err error
	)
	if e.tool == ToolPlaceEntity {
		id, err = e.model.AddNode(diagram.KindEntity, world, e.opts.EntitySize, e.defaultEntity())
	} else {
		id, err = e.model.AddNode(diagram.KindAnnotation, world, e.opts.AnnotationSize, defaultAnnotation())
	}
	if err != nil {
		e.logger.Warn("place node failed", zap.Error(err))
		return
	}
	e.commit()
	e.logger.Debug("node placed", zap.String("id", id), zap.Stringer("tool", e.tool))
	e.SetTool(ToolSelect)
}

// relationshipClick runs the two-click protocol. Clicking the pending
// source again cancels without leaving the tool.
func (e *Editor) relationshipClick(node diagram.Node) {
	if node.Kind != diagram.KindEntity {
		return
	}
	if e.pendingSource == "" {
		e.pendingSource = node.ID
		return
	}
	if node.ID == e.pendingSource {
		e.pendingSource = ""
		return
	}

	kind := e.tool.RelationshipKind()
	_, err := e.model.AddRelationship(diagram.NewRelationship{
		Kind:              kind,
		SourceNodeID:      e.pendingSource,
		TargetNodeID:      node.ID,
		SourceCardinality: diagram.CardOne,
		TargetCardinality: diagram.CardOneOrMany,
		Optional:          kind == diagram.NonIdentifying,
	})
	if err != nil {
		e.logger.Warn("relationship rejected", zap.String("source", e.pendingSource),
			zap.String("target", node.ID), zap.Error(err))
		if errors.Is(err, diagram.ErrInvalidEndpoint) {
			e.pendingSource = ""
		}
		return
	}
	e.commit()
	e.SetTool(ToolSelect)
}

// commit records the model's current state as a new history entry.
func (e *Editor) commit() {
	e.history.Snapshot(e.model.Snapshot())
}
