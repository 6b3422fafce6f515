package change

import (
	"fmt"

	"github.com/dshills/keystate/internal/engine/text"
)

// Bias selects the side a position sticks to when a change makes its new
// location ambiguous.
type Bias int

const (
	// BiasBefore keeps the position before inserted text.
	BiasBefore Bias = -1

	// BiasAfter moves the position past inserted text.
	BiasAfter Bias = 1
)

// DefaultBias is the bias used when mapping selection endpoints.
const DefaultBias = BiasAfter

// Mapper maps positions from the document before an edit to the document
// after it.
type Mapper interface {
	Map(pos int, bias Bias) int
}

// Change replaces the document span [From, To) with Text.
// Change is an immutable value type. Offsets are not validated at
// construction; an out-of-range change fails when applied.
type Change struct {
	From int    // Inclusive start of the replaced span
	To   int    // Exclusive end of the replaced span
	Text string // Replacement text
}

var (
	_ Mapper = Change{}
	_ Mapper = Mapping{}
)

// New creates a change replacing [from, to) with s.
func New(from, to int, s string) Change {
	return Change{From: from, To: to, Text: s}
}

// Insert creates a change inserting s at pos.
func Insert(pos int, s string) Change {
	return Change{From: pos, To: pos, Text: s}
}

// Delete creates a change removing [from, to).
func Delete(from, to int) Change {
	return Change{From: from, To: to}
}

// Map maps pos from the coordinate space before this change into the space
// after it.
func (c Change) Map(pos int, bias Bias) int {
	if pos < c.From || (bias < 0 && pos == c.From) {
		return pos
	}
	if pos > c.To {
		return pos + c.Delta()
	}

	side := bias
	switch {
	case c.From == c.To:
		// Pure insertion: the caller decides.
	case pos == c.From:
		side = BiasBefore
	case pos == c.To:
		side = BiasAfter
	}

	if side < 0 {
		return c.From
	}
	return c.From + len(c.Text)
}

// Invert returns the change that undoes c. doc must be the document c was
// applied to.
func (c Change) Invert(doc text.Text) Change {
	return Change{
		From: c.From,
		To:   c.From + len(c.Text),
		Text: doc.Slice(c.From, c.To),
	}
}

// Apply returns doc with c applied. Range checking is left to doc.
func (c Change) Apply(doc text.Text) text.Text {
	return doc.Replace(c.From, c.To, c.Text)
}

// Validate reports whether c can be applied to a document of the given
// length, without applying it.
func (c Change) Validate(docLen int) error {
	return text.CheckRange("change", c.From, c.To, docLen)
}

// Delta returns the change in document length caused by c.
func (c Change) Delta() int {
	return len(c.Text) - (c.To - c.From)
}

// IsNoop returns true if c neither removes nor inserts text.
func (c Change) IsNoop() bool {
	return c.From == c.To && c.Text == ""
}

// IsInsert returns true if c is a pure insertion.
func (c Change) IsInsert() bool {
	return c.From == c.To && c.Text != ""
}

// IsDelete returns true if c is a pure deletion.
func (c Change) IsDelete() bool {
	return c.From != c.To && c.Text == ""
}

// IsReplace returns true if c replaces existing text with new text.
func (c Change) IsReplace() bool {
	return c.From != c.To && c.Text != ""
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	switch {
	case c.From == c.To:
		return fmt.Sprintf("Insert(%d, %q)", c.From, c.Text)
	case c.Text == "":
		return fmt.Sprintf("Delete[%d:%d)", c.From, c.To)
	default:
		return fmt.Sprintf("Replace[%d:%d) with %q", c.From, c.To, c.Text)
	}
}
