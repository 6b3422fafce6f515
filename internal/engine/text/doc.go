// Package text defines the document buffer consumed by the editor state core
// and provides an immutable rope implementation of it.
//
// The state core only needs three operations from a document:
//
//   - Len: the byte length of the document
//   - Slice: the text in a byte range [from, to)
//   - Replace: a new document with [from, to) replaced, the receiver untouched
//
// Any type providing these (plus String) can back an EditorState. Rope is the
// implementation used throughout this module:
//
//	doc := text.FromString("hello world")
//	next := doc.Replace(0, 5, "goodbye") // "goodbye world"
//	_ = doc.String()                     // still "hello world"
//
// Offsets are bytes. Out-of-range or inverted ranges are programmer errors:
// Slice and Replace panic with a *RangeError, the way slice indexing does.
// CheckRange reports the same condition as an error for callers that want to
// validate input first.
package text
