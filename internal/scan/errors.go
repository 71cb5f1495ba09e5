package scan

import (
	"errors"
	"fmt"
)

// ErrBlankInput is returned when the product input is empty after trimming.
var ErrBlankInput = errors.New("product input is blank")

// PartialCommentFailure records a thread whose comments could not be read.
// The scan carries on without them.
type PartialCommentFailure struct {
	Community string
	Permalink string
	Err       error
}

func (e *PartialCommentFailure) Error() string {
	return fmt.Sprintf("fetching comments from r/%s: %v", e.Community, e.Err)
}

func (e *PartialCommentFailure) Unwrap() error {
	return e.Err
}
