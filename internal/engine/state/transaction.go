package state

import (
	"github.com/dshills/keystate/internal/engine/change"
	"github.com/dshills/keystate/internal/engine/selection"
	"github.com/dshills/keystate/internal/engine/text"
)

// step is one entry of the transaction log: a change and the document it
// produced.
type step struct {
	change change.Change
	doc    text.Text
}

// Transaction accumulates changes against a start state.
// Transaction is not safe for concurrent use.
type Transaction struct {
	start *EditorState
	steps []step
	sel   selection.Selection
	meta  map[string]any
}

func newTransaction(start *EditorState) *Transaction {
	return &Transaction{
		start: start,
		sel:   start.selection,
	}
}

// StartState returns the state the transaction was created from.
func (tx *Transaction) StartState() *EditorState {
	return tx.start
}

// Doc returns the document after every change recorded so far.
func (tx *Transaction) Doc() text.Text {
	if len(tx.steps) == 0 {
		return tx.start.doc
	}
	return tx.steps[len(tx.steps)-1].doc
}

// Selection returns the current selection.
func (tx *Transaction) Selection() selection.Selection {
	return tx.sel
}

// Len returns the number of recorded changes.
func (tx *Transaction) Len() int {
	return len(tx.steps)
}

// DocChanged returns true if at least one change was recorded.
func (tx *Transaction) DocChanged() bool {
	return len(tx.steps) > 0
}

// Change records c, applies it to the current document and maps the current
// selection through it. A change that neither removes nor inserts text is
// dropped. Invalid offsets cause the document's Replace to panic.
func (tx *Transaction) Change(c change.Change) *Transaction {
	if c.IsNoop() {
		return tx
	}
	tx.steps = append(tx.steps, step{change: c, doc: c.Apply(tx.Doc())})
	tx.sel = tx.sel.Map(c)
	return tx
}

// SetSelection replaces the current selection. Changes recorded afterwards
// map the new selection.
func (tx *Transaction) SetSelection(sel selection.Selection) *Transaction {
	if sel.Len() > 0 {
		tx.sel = sel
	}
	return tx
}

// ReplaceSelection replaces every range of the current selection with s.
// Carets receive an insertion.
func (tx *Transaction) ReplaceSelection(s string) *Transaction {
	tx.ForEachRange(func(r selection.Range) {
		tx.Change(change.New(r.From(), r.To(), s))
	})
	return tx
}

// ForEachRange calls f for each range of the selection as it is when the
// call begins. Before each call the range is mapped through the changes
// recorded by earlier calls of f, so f always sees positions in the current
// document. Changes recorded before ForEachRange started are not applied
// again.
func (tx *Transaction) ForEachRange(f func(r selection.Range)) {
	ranges := tx.sel.Ranges()
	start := len(tx.steps)
	for _, r := range ranges {
		for _, st := range tx.steps[start:] {
			r, _ = r.Map(st.change)
		}
		f(r)
	}
}

// Changes returns the recorded changes in order.
func (tx *Transaction) Changes() []change.Change {
	changes := make([]change.Change, len(tx.steps))
	for i, st := range tx.steps {
		changes[i] = st.change
	}
	return changes
}

// Mapping returns the recorded changes as a mapping from the start document
// to the current one.
func (tx *Transaction) Mapping() change.Mapping {
	return change.Mapping(tx.Changes())
}

// InvertedChanges returns the changes that turn the current document back
// into the start document, in the order they must be applied.
func (tx *Transaction) InvertedChanges() change.Mapping {
	inverted := make(change.Mapping, len(tx.steps))
	before := tx.start.doc
	for i, st := range tx.steps {
		inverted[len(tx.steps)-1-i] = st.change.Invert(before)
		before = st.doc
	}
	return inverted
}

// Apply returns a new state holding the current document and selection.
func (tx *Transaction) Apply() *EditorState {
	return &EditorState{
		doc:       tx.Doc(),
		selection: tx.sel,
	}
}
