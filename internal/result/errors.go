package result

import (
	"errors"
	"fmt"
)

// ErrMalformed is matched by every MalformedResultError.
var ErrMalformed = errors.New("result: malformed artifact")

// MalformedResultError reports an artifact that does not follow the
// eight-column layout, or that holds no rows at all.
type MalformedResultError struct {
	Path   string
	Line   int
	Reason string
}

func (e *MalformedResultError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("result: %s:%d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("result: %s: %s", e.Path, e.Reason)
}

func (e *MalformedResultError) Unwrap() error {
	return ErrMalformed
}
