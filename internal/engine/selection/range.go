package selection

import (
	"fmt"

	"github.com/dshills/keystate/internal/engine/change"
)

// Range is a caret or a span of selected text.
// Range is an immutable value type.
type Range struct {
	Anchor int // Fixed end of the range
	Head   int // Moving end of the range
}

// NewRange creates a range from anchor to head.
func NewRange(anchor, head int) Range {
	return Range{Anchor: anchor, Head: head}
}

// Cursor creates an empty range (a caret) at pos.
func Cursor(pos int) Range {
	return Range{Anchor: pos, Head: pos}
}

// From returns the lower bound of the range.
func (r Range) From() int {
	return min(r.Anchor, r.Head)
}

// To returns the upper bound of the range.
func (r Range) To() int {
	return max(r.Anchor, r.Head)
}

// Empty returns true if the range is a caret.
func (r Range) Empty() bool {
	return r.Anchor == r.Head
}

// Len returns the number of selected bytes.
func (r Range) Len() int {
	return r.To() - r.From()
}

// IsForward returns true if the range extends forward (head >= anchor).
func (r Range) IsForward() bool {
	return r.Head >= r.Anchor
}

// Map maps both ends of the range through m with the default bias.
// If neither end moves, r itself is returned and the boolean is false.
func (r Range) Map(m change.Mapper) (Range, bool) {
	anchor := m.Map(r.Anchor, change.DefaultBias)
	head := m.Map(r.Head, change.DefaultBias)
	if anchor == r.Anchor && head == r.Head {
		return r, false
	}
	return Range{Anchor: anchor, Head: head}, true
}

// Extend returns a range with the same anchor and the head moved to pos.
func (r Range) Extend(pos int) Range {
	return Range{Anchor: r.Anchor, Head: pos}
}

// Collapse returns a caret at the head.
func (r Range) Collapse() Range {
	return Cursor(r.Head)
}

// Flip returns the range with anchor and head swapped.
func (r Range) Flip() Range {
	return Range{Anchor: r.Head, Head: r.Anchor}
}

// Contains returns true if pos lies within [From, To).
// Carets contain nothing.
func (r Range) Contains(pos int) bool {
	return pos >= r.From() && pos < r.To()
}

// Overlaps returns true if the two ranges share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.From() < other.To() && other.From() < r.To()
}

// Touches returns true if the ranges overlap or are adjacent.
func (r Range) Touches(other Range) bool {
	return r.From() <= other.To() && other.From() <= r.To()
}

// Merge returns a forward range covering both ranges.
// Direction information is not preserved.
func (r Range) Merge(other Range) Range {
	return Range{
		Anchor: min(r.From(), other.From()),
		Head:   max(r.To(), other.To()),
	}
}

// Clamp returns the range with both ends clamped to [0, maxPos].
func (r Range) Clamp(maxPos int) Range {
	return Range{
		Anchor: min(max(r.Anchor, 0), maxPos),
		Head:   min(max(r.Head, 0), maxPos),
	}
}

// String returns a string representation of the range.
func (r Range) String() string {
	if r.Empty() {
		return fmt.Sprintf("Cursor(%d)", r.Head)
	}
	dir := "→"
	if !r.IsForward() {
		dir = "←"
	}
	return fmt.Sprintf("Range(%d%s%d)", r.Anchor, dir, r.Head)
}
