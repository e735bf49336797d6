package editor

import "erd/diagram"

// History manages undo/redo as a linear list of deep-copied snapshots and a
// cursor. It never holds the live model.
type History struct {
	states  []*diagram.Diagram
	current int // index of the state the model currently matches
	max     int // maximum number of states to keep
}

// NewHistory creates a history that keeps at most max snapshots.
func NewHistory(max int) *History {
	if max <= 0 {
		max = 500
	}
	return &History{
		states:  make([]*diagram.Diagram, 0, min(max, 64)),
		current: -1,
		max:     max,
	}
}

// Snapshot truncates any redo states and appends a deep copy of d.
func (h *History) Snapshot(d *diagram.Diagram) {
	clone := d.Clone()

	// If we're not at the end, truncate everything after current
	if h.current < len(h.states)-1 {
		clear(h.states[h.current+1:])
		h.states = h.states[:h.current+1]
	}

	h.states = append(h.states, clone)

	// Drop the oldest state once over capacity
	if len(h.states) > h.max {
		h.states[0] = nil
		h.states = h.states[1:]
	}
	h.current = len(h.states) - 1
}

// CanUndo returns true if we can undo
func (h *History) CanUndo() bool {
	return h.current > 0
}

// CanRedo returns true if we can redo
func (h *History) CanRedo() bool {
	return h.current < len(h.states)-1
}

// Undo moves the cursor back and returns a copy of that state.
func (h *History) Undo() (*diagram.Diagram, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.current--
	return h.states[h.current].Clone(), true
}

// Redo moves the cursor forward and returns a copy of that state.
func (h *History) Redo() (*diagram.Diagram, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.current++
	return h.states[h.current].Clone(), true
}

// Current returns a copy of the state at the cursor, or nil when empty.
func (h *History) Current() *diagram.Diagram {
	if h.current < 0 {
		return nil
	}
	return h.states[h.current].Clone()
}

// Clear clears all history
func (h *History) Clear() {
	clear(h.states)
	h.states = h.states[:0]
	h.current = -1
}

// Stats returns current position (1-based) and total states
func (h *History) Stats() (current, total int) {
	return h.current + 1, len(h.states)
}
