// Package state provides the immutable editor state and the transaction type
// used to move from one state to the next.
//
// An EditorState pairs a document with a selection. States are never
// modified; editing goes through a Transaction:
//
//	tx := st.Transaction()
//	tx.ReplaceSelection("X")
//	next := tx.Apply()
//
// A Transaction records an ordered, append-only log of changes. After every
// change its Doc and Selection reflect exactly the changes recorded so far,
// so callers can inspect intermediate results while building a batch.
//
// Multi-cursor edits:
//
// ForEachRange visits the selection as it was when the call started and maps
// each range through the changes made by earlier iterations of the same
// call. Typing at several carets in one transaction therefore produces
// correctly offset edits:
//
//	// "hello world" with carets at 0 and 6
//	tx.ReplaceSelection("X") // "Xhello Xworld"
//
// Annotations:
//
// Transactions carry a side channel of typed annotations (see MetaKey) that
// the state core stores but never interprets.
//
// Lifecycle:
//
// Apply does not finalize a transaction. A transaction may keep recording
// changes after Apply and Apply may be called again; each call returns a
// state reflecting the log at that moment. A Transaction must not be shared
// between goroutines.
package state
