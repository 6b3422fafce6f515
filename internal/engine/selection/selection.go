package selection

import (
	"sort"
	"strings"

	"github.com/dshills/keystate/internal/engine/change"
)

// Selection is an ordered, non-empty list of ranges. The first range is the
// primary range. Overlapping ranges are allowed and order is whatever the
// caller supplied.
type Selection struct {
	ranges []Range
}

// New creates a selection with primary first, followed by rest in order.
func New(primary Range, rest ...Range) Selection {
	ranges := make([]Range, 0, len(rest)+1)
	ranges = append(ranges, primary)
	ranges = append(ranges, rest...)
	return Selection{ranges: ranges}
}

// FromRanges creates a selection from a list of ranges.
// Returns ErrEmptySelection if ranges is empty.
func FromRanges(ranges []Range) (Selection, error) {
	if len(ranges) == 0 {
		return Selection{}, ErrEmptySelection
	}
	return New(ranges[0], ranges[1:]...), nil
}

// Default returns a selection with a single caret at the start of the document.
func Default() Selection {
	return New(Cursor(0))
}

// Primary returns the first range.
func (s Selection) Primary() Range {
	if len(s.ranges) == 0 {
		return Range{}
	}
	return s.ranges[0]
}

// Ranges returns a copy of the ranges.
func (s Selection) Ranges() []Range {
	result := make([]Range, len(s.ranges))
	copy(result, s.ranges)
	return result
}

// Len returns the number of ranges.
func (s Selection) Len() int {
	return len(s.ranges)
}

// At returns the range at index i. It panics if i is out of bounds.
func (s Selection) At(i int) Range {
	return s.ranges[i]
}

// IsMulti returns true if there is more than one range.
func (s Selection) IsMulti() bool {
	return len(s.ranges) > 1
}

// Map maps every range through m, preserving count and order. When no range
// moves, s is returned unchanged.
func (s Selection) Map(m change.Mapper) Selection {
	var mapped []Range
	for i, r := range s.ranges {
		next, moved := r.Map(m)
		if moved && mapped == nil {
			mapped = make([]Range, len(s.ranges))
			copy(mapped, s.ranges[:i])
		}
		if mapped != nil {
			mapped[i] = next
		}
	}
	if mapped == nil {
		return s
	}
	return Selection{ranges: mapped}
}

// Equal returns true if both selections hold the same ranges in the same order.
func (s Selection) Equal(other Selection) bool {
	if len(s.ranges) != len(other.ranges) {
		return false
	}
	for i, r := range s.ranges {
		if r != other.ranges[i] {
			return false
		}
	}
	return true
}

// Normalize returns a selection sorted by position with overlapping or
// adjacent ranges merged. Mapping never normalizes on its own.
func (s Selection) Normalize() Selection {
	if len(s.ranges) <= 1 {
		return s
	}

	sorted := s.Ranges()
	sort.SliceStable(sorted, func(i, j int) bool {
		fi, fj := sorted[i].From(), sorted[j].From()
		if fi != fj {
			return fi < fj
		}
		// Same start: larger ranges first
		return sorted[i].To() > sorted[j].To()
	})

	merged := sorted[:1]
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.From() <= last.To() {
			*last = last.Merge(r)
		} else {
			merged = append(merged, r)
		}
	}
	return Selection{ranges: merged}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	parts := make([]string, len(s.ranges))
	for i, r := range s.ranges {
		parts[i] = r.String()
	}
	return "Selection[" + strings.Join(parts, " ") + "]"
}
