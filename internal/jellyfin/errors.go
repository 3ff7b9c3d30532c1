// SPDX-License-Identifier: MIT

package jellyfin

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrNotFound    = errors.New("jellyfin: resource not found")
	ErrUpstream    = errors.New("jellyfin: upstream returned non-success status")
	ErrUnreachable = errors.New("jellyfin: host unreachable or transport failure")
	ErrNoUsers     = errors.New("jellyfin: no users configured on upstream server")
)

// APIError wraps the sentinel errors with diagnostic context from the upstream.
// Status and Body carry the upstream response verbatim so callers can tell a
// throttling rejection from any other upstream failure.
type APIError struct {
	Sentinel  error
	Operation string
	Status    int
	Body      string
	Err       error // nested lower-level error (e.g. net.Error)
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("jellyfin: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Sentinel
}

// UpstreamStatus returns the upstream HTTP status carried by err, or 0 when err
// did not originate from an upstream response.
func UpstreamStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// UpstreamBody returns the upstream response body carried by err, if any.
func UpstreamBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}
