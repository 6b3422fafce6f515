package selection

import "errors"

// ErrEmptySelection indicates an attempt to build a selection without ranges.
var ErrEmptySelection = errors.New("selection must contain at least one range")
