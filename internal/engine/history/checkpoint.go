package history

import (
	"errors"

	"github.com/dshills/keystate/internal/engine/state"
)

// ErrCheckpointUnreachable indicates the entries needed to return to a
// checkpoint were trimmed, cleared or replaced by a new edit.
var ErrCheckpointUnreachable = errors.New("checkpoint unreachable")

// Checkpoint represents a point in history that can be returned to.
// It names the newest entry applied at the time it was created.
type Checkpoint struct {
	seq uint64
}

// CreateCheckpoint creates a checkpoint at the current history position.
func (h *History) CreateCheckpoint() Checkpoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Checkpoint{seq: h.position()}
}

// position returns the sequence number of the top undo entry, or the floor
// when the undo stack is empty. Callers must hold h.mu.
func (h *History) position() uint64 {
	if len(h.undoStack) == 0 {
		return h.floor
	}
	return h.undoStack[len(h.undoStack)-1].seq
}

// inUndo reports whether cp can be reached by undoing. Callers must hold h.mu.
func (h *History) inUndo(cp Checkpoint) bool {
	if cp.seq == h.floor {
		return true
	}
	for _, e := range h.undoStack {
		if e.seq == cp.seq {
			return true
		}
	}
	return false
}

// inRedo reports whether cp can be reached by redoing. Callers must hold h.mu.
func (h *History) inRedo(cp Checkpoint) bool {
	if cp.seq == h.position() {
		return true
	}
	for _, e := range h.redoStack {
		if e.seq == cp.seq {
			return true
		}
	}
	return false
}

// UndoToCheckpoint undoes every entry applied after cp and returns the
// resulting state. It returns ErrCheckpointUnreachable, without undoing
// anything, if cp is no longer on the undo stack.
func (h *History) UndoToCheckpoint(cp Checkpoint, cur *state.EditorState) (*state.EditorState, error) {
	h.mu.Lock()
	ok := h.inUndo(cp)
	h.mu.Unlock()
	if !ok {
		return cur, ErrCheckpointUnreachable
	}

	for h.atPosition(func(pos uint64) bool { return pos > cp.seq }) {
		tx, err := h.Undo(cur)
		if err != nil {
			return cur, err
		}
		cur = tx.Apply()
	}
	return cur, nil
}

// RedoToCheckpoint redoes entries until cp is the current position and
// returns the resulting state. It returns ErrCheckpointUnreachable,
// without redoing anything, if cp is neither current nor on the redo stack.
func (h *History) RedoToCheckpoint(cp Checkpoint, cur *state.EditorState) (*state.EditorState, error) {
	h.mu.Lock()
	ok := h.inRedo(cp)
	h.mu.Unlock()
	if !ok {
		return cur, ErrCheckpointUnreachable
	}

	for h.atPosition(func(pos uint64) bool { return pos != cp.seq }) {
		tx, err := h.Redo(cur)
		if err != nil {
			return cur, err
		}
		cur = tx.Apply()
	}
	return cur, nil
}

func (h *History) atPosition(f func(pos uint64) bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return f(h.position())
}
