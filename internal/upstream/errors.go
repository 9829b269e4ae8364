package upstream

import (
	"errors"
	"fmt"
)

// UpstreamError is a non-2xx answer from the platform API. It keeps the
// status and the (truncated) body, since the upstream's error JSON is often
// the only hint about what it disliked.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, truncate(e.Body, 200))
}

// TransportError is a network-level failure before any upstream status was
// received.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsUpstreamError reports whether err is a non-2xx upstream response.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
