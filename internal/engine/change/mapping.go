package change

import "github.com/dshills/keystate/internal/engine/text"

// Mapping is an ordered sequence of changes. Each change is expressed in the
// coordinates of the document produced by the changes before it.
type Mapping []Change

// Map maps pos through every change in order.
func (m Mapping) Map(pos int, bias Bias) int {
	for _, c := range m {
		pos = c.Map(pos, bias)
	}
	return pos
}

// Apply applies every change to doc in order.
func (m Mapping) Apply(doc text.Text) text.Text {
	for _, c := range m {
		doc = c.Apply(doc)
	}
	return doc
}

// Invert returns the sequence undoing m. doc must be the document m starts
// from. Applying the result to m.Apply(doc) yields doc.
func (m Mapping) Invert(doc text.Text) Mapping {
	inverted := make(Mapping, len(m))
	for i, c := range m {
		inverted[len(m)-1-i] = c.Invert(doc)
		doc = c.Apply(doc)
	}
	return inverted
}

// Delta returns the total change in document length.
func (m Mapping) Delta() int {
	total := 0
	for _, c := range m {
		total += c.Delta()
	}
	return total
}
