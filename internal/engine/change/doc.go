// Package change provides the atomic edit type of the editor state core and
// the position mapping it induces.
//
// A Change replaces the byte range [From, To) of a document with Text.
// Besides producing a new document, every change defines how positions in
// the old document map into the new one:
//
//   - Positions before the edited span are unchanged.
//   - Positions after it shift by the change's length delta.
//   - Positions inside or on the boundary of the span collapse to either the
//     start or the end of the inserted text.
//
// Bias:
//
// For a pure insertion, a position sitting exactly at the insertion point is
// ambiguous. The caller resolves it with a Bias: BiasBefore keeps the position
// before the inserted text, BiasAfter moves it past it. Bias also decides
// where a position strictly inside a replaced span ends up.
//
//	c := change.Insert(3, "XYZ")
//	c.Map(3, change.BiasBefore) // 3
//	c.Map(3, change.BiasAfter)  // 6
//
// Mapping is an ordered list of changes, each expressed in the coordinates of
// the document produced by the previous one. Diff computes such a list from
// two versions of a text.
package change
