package ai

import (
	"errors"
	"fmt"
	"net"
	"net/http"
)

// RemoteError classifies a failed backend round-trip by HTTP status.
type RemoteError struct {
	StatusCode int
	Quota      bool // rate limit caused by an exhausted quota
	Err        error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("AI backend returned status %d: %v", e.StatusCode, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// FatalError marks a caller precondition fault. It is never retried.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string {
	return e.Reason
}

// Retryable reports whether another attempt can succeed: rate limits, service
// unavailability and transient network faults qualify, everything else does
// not.
func Retryable(err error) bool {
	var fatal *FatalError
	if errors.As(err, &fatal) {
		return false
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.StatusCode == http.StatusTooManyRequests ||
			remote.StatusCode == http.StatusServiceUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
