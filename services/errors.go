package services

import "errors"

// ErrorKind classifies business-rule failures so handlers can map them to
// HTTP status codes without string matching.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindValidation
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func ForbiddenError(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func ConflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// KindOf extracts the kind from an error chain; store-layer errors that
// carry no kind come back as KindUnknown and are surfaced unchanged.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
