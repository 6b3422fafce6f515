package script

import (
	"errors"
	"fmt"
)

// Common script errors.
var (
	ErrUnknownOp          = errors.New("unknown op")
	ErrUnsupportedFormat  = errors.New("unsupported script format")
	ErrInvalidStep        = errors.New("invalid step")
	ErrOutOfRange         = errors.New("position out of range")
	ErrPendingChanges     = errors.New("uncommitted changes")
	ErrUnsupportedMetaVal = errors.New("unsupported meta value")
)

// StepError reports the step that failed.
type StepError struct {
	Index int
	Op    string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
