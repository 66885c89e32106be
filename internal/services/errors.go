package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by store adapters when the object does not exist
var ErrNotFound = errors.New("object not found")

// Kind classifies a pipeline failure. The string is the wire name.
type Kind string

const (
	KindInvalidRequest  Kind = "InvalidRequest"
	KindNotFound        Kind = "NotFound"
	KindStoreError      Kind = "StoreError"
	KindBlockedByPolicy Kind = "InvalidObjectState"
	KindSigningError    Kind = "SigningError"
)

// Error is a classified pipeline failure
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err. Unclassified errors count as store errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreError
}
