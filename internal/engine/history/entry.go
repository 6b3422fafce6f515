package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keystate/internal/engine/change"
	"github.com/dshills/keystate/internal/engine/selection"
	"github.com/dshills/keystate/internal/engine/state"
)

// Transaction annotations understood by History.
var (
	ID     = state.NewMetaKey[string]("history.id")
	Skip   = state.NewMetaKey[bool]("history.skip")
	Origin = state.NewMetaKey[string]("history.origin")
)

// Origin values.
const (
	OriginUndo = "undo"
	OriginRedo = "redo"
)

// Entry is a single undoable unit built from one transaction.
type Entry struct {
	ID string

	// seq orders entries within one History; it is assigned by Record.
	seq uint64

	// Edit data
	Changes change.Mapping // Forward changes, from the start document
	Inverse change.Mapping // Changes reverting Changes, from the end document

	// Selection state for restore
	SelectionBefore selection.Selection
	SelectionAfter  selection.Selection

	Timestamp time.Time
}

// newEntry captures tx as an entry.
func newEntry(tx *state.Transaction) *Entry {
	id, ok := ID.Get(tx)
	if !ok || id == "" {
		id = uuid.New().String()
	}
	return &Entry{
		ID:              id,
		Changes:         tx.Mapping(),
		Inverse:         tx.InvertedChanges(),
		SelectionBefore: tx.StartState().Selection(),
		SelectionAfter:  tx.Selection(),
		Timestamp:       time.Now(),
	}
}

// Description returns a human-readable description of the entry.
func (e *Entry) Description() string {
	if len(e.Changes) != 1 {
		return fmt.Sprintf("Edit (%d changes)", len(e.Changes))
	}
	c := e.Changes[0]
	switch {
	case c.IsInsert():
		return "Insert"
	case c.IsDelete():
		return "Delete"
	default:
		return "Replace"
	}
}

// Info returns read-only information about the entry.
func (e *Entry) Info() EntryInfo {
	return EntryInfo{
		ID:          e.ID,
		Description: e.Description(),
		Timestamp:   e.Timestamp,
		BytesDelta:  e.Changes.Delta(),
	}
}

// EntryInfo provides read-only info about an entry.
// Used for displaying undo/redo history to users.
type EntryInfo struct {
	ID          string    // Entry id
	Description string    // Human-readable description
	Timestamp   time.Time // When the transaction was recorded
	BytesDelta  int       // Positive for insertions, negative for deletions
}
