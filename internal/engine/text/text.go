package text

// Text is an immutable document buffer.
type Text interface {
	// Len returns the document length in bytes.
	Len() int

	// Slice returns the text in [from, to).
	Slice(from, to int) string

	// Replace returns a new document with [from, to) replaced by s.
	// The receiver is not modified.
	Replace(from, to int, s string) Text

	// String returns the whole document.
	String() string
}

// Equal reports whether two documents hold the same text.
func Equal(a, b Text) bool {
	if a.Len() != b.Len() {
		return false
	}
	return a.String() == b.String()
}
