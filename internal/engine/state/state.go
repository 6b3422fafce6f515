package state

import (
	"github.com/dshills/keystate/internal/engine/selection"
	"github.com/dshills/keystate/internal/engine/text"
)

// EditorState is an immutable (document, selection) pair.
type EditorState struct {
	doc       text.Text
	selection selection.Selection
}

// Option configures an EditorState during creation.
type Option func(*EditorState)

// WithSelection sets the initial selection.
func WithSelection(sel selection.Selection) Option {
	return func(s *EditorState) {
		if sel.Len() > 0 {
			s.selection = sel
		}
	}
}

// New creates a state for doc. The selection defaults to a single caret at
// the start of the document. A nil doc is treated as an empty document.
func New(doc text.Text, opts ...Option) *EditorState {
	if doc == nil {
		doc = text.New()
	}
	s := &EditorState{
		doc:       doc,
		selection: selection.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromString creates a state holding content.
func FromString(content string, opts ...Option) *EditorState {
	return New(text.FromString(content), opts...)
}

// Doc returns the document.
func (s *EditorState) Doc() text.Text {
	return s.doc
}

// Selection returns the selection.
func (s *EditorState) Selection() selection.Selection {
	return s.selection
}

// Transaction starts a new transaction rooted at this state.
func (s *EditorState) Transaction() *Transaction {
	return newTransaction(s)
}
