package ai

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoBody means the backend answered without a readable body.
var ErrNoBody = errors.New("response has no body")

// TransportError reports a request that could not produce a reply stream.
type TransportError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("chat backend at %s returned status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("chat backend at %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
