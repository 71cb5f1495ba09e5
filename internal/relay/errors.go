package relay

import (
	"errors"
	"fmt"
)

var (
	// ErrRelayExhausted is matched by every *ExhaustedError.
	ErrRelayExhausted = errors.New("all relays failed")

	// ErrMalformedResponse means a relay answered but the payload did not
	// have the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// ExhaustedError reports that no relay produced a usable response.
type ExhaustedError struct {
	Target   string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("%s after %d attempts: %s", ErrRelayExhausted, e.Attempts, e.Target)
	}
	return fmt.Sprintf("%s after %d attempts: %s: %v", ErrRelayExhausted, e.Attempts, e.Target, e.Last)
}

// Is reports whether target is ErrRelayExhausted.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrRelayExhausted
}

// Unwrap returns the error from the last relay tried.
func (e *ExhaustedError) Unwrap() error {
	return e.Last
}
