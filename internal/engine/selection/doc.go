// Package selection provides carets, ranges and multi-range selections that
// can be carried forward across document changes.
//
// Range Model:
//
// A Range uses an anchor/head model:
//   - Anchor: the end that stays put when a selection is extended
//   - Head: the end that moves (where typing occurs)
//
// When Anchor == Head the range is a caret. Both ends are tracked
// independently, so a backward selection (head < anchor) stays backward
// after mapping.
//
// Selections:
//
// A Selection is an ordered, non-empty list of ranges. The first range is the
// primary one. Mapping a selection through a change maps every range and
// never merges, drops or reorders them, even when ranges end up overlapping
// or coincident; range counts are observable by callers and stay stable.
// Normalize is available for callers that explicitly want sorted, merged
// ranges.
//
//	sel := selection.New(selection.Cursor(0), selection.Cursor(6))
//	sel = sel.Map(change.Insert(0, "X"))
//	// carets now at 1 and 7
//
// Range and Selection are immutable value types and safe for concurrent use.
package selection
