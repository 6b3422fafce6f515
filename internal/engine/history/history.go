package history

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/keystate/internal/engine/change"
	"github.com/dshills/keystate/internal/engine/selection"
	"github.com/dshills/keystate/internal/engine/state"
)

// DefaultMaxEntries is used when New is given a non-positive limit.
const DefaultMaxEntries = 1000

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrDocumentMismatch indicates the entry's changes do not fit the
	// document they are applied to.
	ErrDocumentMismatch = errors.New("history entry does not match document")
)

// History manages undo/redo stacks of recorded transactions.
type History struct {
	mu sync.Mutex

	undoStack []*Entry
	redoStack []*Entry

	maxEntries int

	// lastSeq is the sequence number of the newest recorded entry.
	// floor is the newest sequence number dropped by trimming or Clear.
	lastSeq uint64
	floor   uint64
}

// New creates a history keeping at most maxEntries undo entries.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Record adds tx to the undo stack and clears the redo stack.
// Transactions without document changes or marked with Skip are ignored.
// Returns true if an entry was recorded.
func (h *History) Record(tx *state.Transaction) bool {
	if !tx.DocChanged() {
		return false
	}
	if skip, _ := Skip.Get(tx); skip {
		return false
	}

	entry := newEntry(tx)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastSeq++
	entry.seq = h.lastSeq
	h.undoStack = append(h.undoStack, entry)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.floor = h.undoStack[excess-1].seq
		h.undoStack = h.undoStack[excess:]
	}
	return true
}

// Undo returns a transaction on cur that reverts the most recent entry and
// restores the selection from before it. The entry moves to the redo stack.
func (h *History) Undo(cur *state.EditorState) (*state.Transaction, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return nil, ErrNothingToUndo
	}
	entry := h.undoStack[len(h.undoStack)-1]

	tx, err := replay(cur, entry.Inverse, entry.SelectionBefore)
	if err != nil {
		return nil, fmt.Errorf("undo %s: %w", entry.ID, err)
	}
	Origin.Set(tx, OriginUndo)
	ID.Set(tx, entry.ID)

	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, entry)
	return tx, nil
}

// Redo returns a transaction on cur that reapplies the most recently undone
// entry and restores the selection from after it.
func (h *History) Redo(cur *state.EditorState) (*state.Transaction, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}
	entry := h.redoStack[len(h.redoStack)-1]

	tx, err := replay(cur, entry.Changes, entry.SelectionAfter)
	if err != nil {
		return nil, fmt.Errorf("redo %s: %w", entry.ID, err)
	}
	Origin.Set(tx, OriginRedo)
	ID.Set(tx, entry.ID)

	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, entry)
	return tx, nil
}

// replay validates changes against cur and records them on a new transaction.
func replay(cur *state.EditorState, changes change.Mapping, sel selection.Selection) (*state.Transaction, error) {
	length := cur.Doc().Len()
	for _, c := range changes {
		if err := c.Validate(length); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDocumentMismatch, err)
		}
		length += c.Delta()
	}

	tx := cur.Transaction()
	for _, c := range changes {
		tx.Change(c)
	}
	tx.SetSelection(sel)
	return tx, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.floor = h.lastSeq
}

// UndoInfo returns info about available undo entries, oldest first.
func (h *History) UndoInfo() []EntryInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]EntryInfo, len(h.undoStack))
	for i, entry := range h.undoStack {
		result[i] = entry.Info()
	}
	return result
}

// PeekUndo returns info about the next undo entry without removing it.
func (h *History) PeekUndo() (EntryInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return EntryInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].Info(), true
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
