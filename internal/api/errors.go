package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed call so screens can react without inspecting
// transport details.
type Kind int

const (
	// KindTransport: the request never produced a response.
	KindTransport Kind = iota + 1
	// KindBackend: the server answered with an error status.
	KindBackend
	// KindUnauthorized: 401, the token is missing, expired or invalid.
	KindUnauthorized
	// KindNotFound: 404, e.g. an unknown topic.
	KindNotFound
	// KindDecode: a 2xx response whose body did not parse.
	KindDecode
	// KindPrecondition: the call was refused locally before any I/O.
	KindPrecondition
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindBackend:
		return "backend"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not-found"
	case KindDecode:
		return "decode"
	case KindPrecondition:
		return "precondition"
	}
	return "unknown"
}

// Error is the single error type returned by Client methods.
type Error struct {
	Kind   Kind
	Status int    // HTTP status, 0 for transport and precondition errors
	Detail string // server-provided "detail", may be empty
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "" && e.Status != 0:
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Detail)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error (status %d)", e.Kind, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// statusKind maps an HTTP error status to a Kind.
func statusKind(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	}
	return KindBackend
}

// Message returns the text to show a user for err: the server's detail
// when there is one, otherwise fallback.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
