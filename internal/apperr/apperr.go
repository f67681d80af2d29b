// Package apperr classifies the failures an article operation can end with.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindMalformedRequest
	KindValidation
	KindNotFound
	KindForbidden
	KindStoreUnavailable
	KindNotImplemented
)

var kindNames = map[Kind]string{
	KindUnknown:          "Unknown",
	KindUnauthenticated:  "Unauthenticated",
	KindMalformedRequest: "MalformedRequest",
	KindValidation:       "ValidationError",
	KindNotFound:         "NotFound",
	KindForbidden:        "Forbidden",
	KindStoreUnavailable: "StoreUnavailable",
	KindNotImplemented:   "NotImplemented",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a classified failure. Message is safe to show to callers; Err is
// the low-level cause, if any.
type Error struct {
	Kind    Kind
	Message string
	// Field names the offending payload field for KindValidation.
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so errors.Is(err,
// apperr.NotFound) works without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	Unauthenticated  = &Error{Kind: KindUnauthenticated}
	MalformedRequest = &Error{Kind: KindMalformedRequest}
	Validation       = &Error{Kind: KindValidation}
	NotFound         = &Error{Kind: KindNotFound}
	Forbidden        = &Error{Kind: KindForbidden}
	StoreUnavailable = &Error{Kind: KindStoreUnavailable}
	NotImplemented   = &Error{Kind: KindNotImplemented}
)

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err. The message is what callers see; err stays reachable
// through errors.Unwrap.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func FieldRequired(field string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: field + " must be specified."}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}
