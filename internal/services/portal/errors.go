package portal

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call
type Kind int

const (
	// KindValidation means a required parameter is missing or malformed
	KindValidation Kind = iota + 1
	// KindNotFound means the requested record does not exist
	KindNotFound
	// KindUnexpected carries any store failure
	KindUnexpected
	// KindAuth is a login failure, rendered with "ok": false
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnexpected:
		return "unexpected"
	case KindAuth:
		return "auth"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the error-shaped result of a façade call. Message is what the caller sees.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts the façade error from err, wrapping foreign errors as unexpected
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return unexpected(err)
}

func validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func notFound(msg string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Err: err}
}

func authFailure(msg string, err error) *Error {
	return &Error{Kind: KindAuth, Message: msg, Err: err}
}

func unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: err.Error(), Err: err}
}

// recovered turns a panic value into an unexpected error
func recovered(v interface{}) *Error {
	if err, ok := v.(error); ok {
		return unexpected(err)
	}
	return unexpected(fmt.Errorf("%v", v))
}
