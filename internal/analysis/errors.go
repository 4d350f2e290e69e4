package analysis

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a submission did not produce a result.
type ErrorKind int

const (
	KindUnknown         ErrorKind = iota
	KindValidation                // Empty input, rejected before any request
	KindNetworkOrServer           // Transport failure or non-2xx status
	KindMalformedResult           // Body is not JSON or not an object
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetworkOrServer:
		return "network_or_server"
	case KindMalformedResult:
		return "malformed_result"
	default:
		return "unknown"
	}
}

// Error carries the kind of a failed submission plus diagnostic detail.
// Status is the HTTP status code when one was received.
type Error struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with the given kind.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the kind of err, or KindUnknown when err carries none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status recorded in err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
