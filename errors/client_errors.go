// errors/client_errors.go
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredentials = errors.New("client ID and client secret must be configured")
	ErrMissingServiceTag  = errors.New("missing service tag")
	ErrInternalServer     = errors.New("internal server error")
)

// AuthenticationError indicates the auth endpoint rejected the credentials or
// returned a body without an access token. It is surfaced after the single
// 401-triggered retry has been used up.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// UpstreamError carries a non-200, non-401 response verbatim so callers can
// diagnose the upstream service.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// NetworkError is a transport-level failure: connection refused, DNS failure,
// timeout, or a cancelled context. It is not retried inside the client.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsAuthentication reports whether err is an AuthenticationError.
func IsAuthentication(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

// IsUpstream reports whether err is an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// IsNetwork reports whether err is a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
