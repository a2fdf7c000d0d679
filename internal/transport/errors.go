package transport

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies why a fetch failed. The set is closed.
type Kind int

const (
	// KindWrongResponse: the response was not shaped like an HTTP response.
	KindWrongResponse Kind = iota + 1
	// KindWrongStatusCode: HTTP status outside [200,300).
	KindWrongStatusCode
	// KindNoValidData: the body did not decode into the requested type.
	KindNoValidData
	// KindTransport: DNS, connection, timeout, cancellation or body read failure.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindWrongResponse:
		return "wrong_response"
	case KindWrongStatusCode:
		return "wrong_status_code"
	case KindNoValidData:
		return "no_valid_data"
	case KindTransport:
		return "transport_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the only error type returned by Fetch.
type Error struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindWrongStatusCode:
		return fmt.Sprintf("%s: http status %d", e.Kind, e.StatusCode)
	case KindWrongResponse:
		if e.Err == nil {
			return e.Kind.String()
		}
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Canceled reports whether a transport failure came from the caller's
// context being cancelled or timing out.
func (e *Error) Canceled() bool {
	if e.Kind != KindTransport {
		return false
	}
	return errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded)
}

// KindOf returns the Kind of a transport error, or 0 if err is not one.
func KindOf(err error) Kind {
	var terr *Error
	if errors.As(err, &terr) {
		return terr.Kind
	}
	return 0
}
