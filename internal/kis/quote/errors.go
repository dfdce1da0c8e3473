package quote

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes an operation can report. Wrapped
// errors carry the underlying cause; match with errors.Is.
var (
	// ErrTokenUnavailable is returned before any network I/O when the
	// credential provider holds no access token.
	ErrTokenUnavailable = errors.New("access token unavailable")

	// ErrRequest is returned when the request URL cannot be constructed
	// from the parameter set.
	ErrRequest = errors.New("building request")

	// ErrTransport is returned when the call fails before an HTTP
	// response is received.
	ErrTransport = errors.New("performing request")

	// ErrDecode is returned when a 2xx response body does not match the
	// operation's schema.
	ErrDecode = errors.New("decoding response")
)

// StatusError reports a non-2xx upstream response. Body holds at most the
// first 2KiB of the response body.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d: %s", e.Code, e.Body)
}
