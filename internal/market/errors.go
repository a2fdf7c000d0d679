package market

import (
	"errors"
	"fmt"

	"quote-favorites/internal/transport"
)

// FetchErrorKind is the domain view of a failed fetch.
type FetchErrorKind int

const (
	// NoConnection: the request never got an answer (network, DNS, cancel).
	NoConnection FetchErrorKind = iota + 1
	// ServerError: an answer came back but was unusable.
	ServerError
)

const (
	msgNoConnection = "No internet connection. Please try again later."
	msgGeneric      = "Something went wrong. Please try again later."
)

func (k FetchErrorKind) String() string {
	switch k {
	case NoConnection:
		return "no_connection"
	case ServerError:
		return "server_error"
	default:
		return fmt.Sprintf("fetch_error(%d)", int(k))
	}
}

// Message is the user-visible text for the kind.
func (k FetchErrorKind) Message() string {
	if k == NoConnection {
		return msgNoConnection
	}
	return msgGeneric
}

// FetchError is returned by Service.FetchQuotes. Err holds the
// *transport.Error it was derived from.
type FetchError struct {
	Kind FetchErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch quotes: %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func fetchErrorFrom(err error) *FetchError {
	switch transport.KindOf(err) {
	case transport.KindTransport:
		return &FetchError{Kind: NoConnection, Err: err}
	case transport.KindWrongResponse, transport.KindWrongStatusCode, transport.KindNoValidData:
		return &FetchError{Kind: ServerError, Err: err}
	default:
		return &FetchError{Kind: ServerError, Err: err}
	}
}

// UserMessage picks one of the two user-visible texts for any error.
func UserMessage(err error) string {
	var ferr *FetchError
	if errors.As(err, &ferr) {
		return ferr.Kind.Message()
	}
	return msgGeneric
}
