package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the signup service is unreachable.
	ErrUnavailable = errors.New("signup service unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("signup request timed out")

	// ErrInvalidResponse indicates the response body could not be decoded
	// or carried out-of-range values.
	ErrInvalidResponse = errors.New("invalid signup service response")

	// ErrRejected indicates the service answered but refused the signup.
	ErrRejected = errors.New("signup rejected")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("signup retry attempts exhausted")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("signup service returned status %d", e.Code)
	}
	return fmt.Sprintf("signup service returned status %d: %s", e.Code, e.Body)
}

// ErrorCode maps an error from this package to a short stable code used in
// logs and the attempt history.
func ErrorCode(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	case errors.Is(err, ErrRejected):
		return "REJECTED"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("HTTP_%d", statusErr.Code)
	default:
		return "UNKNOWN"
	}
}
