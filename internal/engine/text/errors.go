package text

import (
	"errors"
	"fmt"
)

// Errors describing invalid document ranges.
var (
	// ErrOffsetOutOfRange indicates an offset is outside [0, Len()].
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates a range whose end precedes its start.
	ErrRangeInvalid = errors.New("invalid range")
)

// RangeError describes an invalid range passed to a Text operation.
type RangeError struct {
	Op   string
	From int
	To   int
	Len  int
	Err  error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("text: %s [%d:%d) on length %d: %v", e.Op, e.From, e.To, e.Len, e.Err)
}

func (e *RangeError) Unwrap() error {
	return e.Err
}

// CheckRange reports whether [from, to) is a valid range in a document of the
// given length. The returned error, if any, is a *RangeError.
func CheckRange(op string, from, to, length int) error {
	switch {
	case from > to:
		return &RangeError{Op: op, From: from, To: to, Len: length, Err: ErrRangeInvalid}
	case from < 0 || to > length:
		return &RangeError{Op: op, From: from, To: to, Len: length, Err: ErrOffsetOutOfRange}
	}
	return nil
}

func mustRange(op string, from, to, length int) {
	if err := CheckRange(op, from, to, length); err != nil {
		panic(err)
	}
}
