package api

import (
	"errors"
	"fmt"
)

// TransportError wraps a failure to reach the backend at all
// (DNS, refused connection, timeout, cancelled context).
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s returned %d", e.Endpoint, e.StatusCode)
}

// DecodeError is returned when a 2xx body does not have the expected shape.
// Field names the offending JSON field when known.
type DecodeError struct {
	Endpoint string
	Field    string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("decoding %s response: field %q: %v", e.Endpoint, e.Field, e.Err)
	}
	return fmt.Sprintf("decoding %s response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Kind names the failure class of err for logging: "transport", "status",
// "decode" or "unknown".
func Kind(err error) string {
	var te *TransportError
	var se *StatusError
	var de *DecodeError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &se):
		return "status"
	case errors.As(err, &de):
		return "decode"
	default:
		return "unknown"
	}
}

var (
	errMissing    = errors.New("required field missing")
	errOutOfRange = errors.New("value out of range")
)
