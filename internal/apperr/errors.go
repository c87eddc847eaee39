// Package apperr defines the closed set of failures a request can end with.
//
// Every layer produces one of these variants explicitly; the HTTP error
// normalizer matches on Kind to choose a status code and message. Anything
// that is not an *Error is treated as Internal.
package apperr

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// ServerErrorMessage is the only message clients ever see for internal failures.
const ServerErrorMessage = "There was a server error"

// ForbiddenMessage is returned by the authorization gate.
const ForbiddenMessage = "Access forbidden"

// Kind tags an Error with its place in the taxonomy.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindUnchanged
)

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnchanged:
		return http.StatusNoContent
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnchanged:
		return "unchanged"
	default:
		return "internal"
	}
}

// FieldError is one violated field and its human readable message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a tagged application failure.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.Kind == KindInternal && e.cause != nil {
		return e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Stack renders the cause with the stack trace recorded at construction.
func (e *Error) Stack() string {
	if e.cause == nil {
		return ""
	}
	return fmt.Sprintf("%+v", e.cause)
}

// Validation reports field-level violations. The first field's message
// becomes the error message.
func Validation(fields ...FieldError) *Error {
	msg := "Validation failed"
	if len(fields) > 0 {
		msg = fields[0].Message
	}
	return &Error{Kind: KindValidation, Message: msg, Fields: fields, cause: errors.New(msg)}
}

// Invalid reports a request that is well formed but cannot be processed,
// without pointing at a particular field.
func Invalid(message string) *Error {
	return &Error{Kind: KindValidation, Message: message, cause: errors.New(message)}
}

// NotFound reports a missing entity addressed by id.
func NotFound(entity string, id any) *Error {
	msg := fmt.Sprintf("%s with ID %v doesn't exist", entity, id)
	return &Error{Kind: KindNotFound, Message: msg, cause: errors.New(msg)}
}

// Conflict reports a uniqueness violation with a domain specific message.
func Conflict(message string, cause error) *Error {
	if cause == nil {
		cause = errors.New(message)
	} else {
		cause = errors.WithStack(cause)
	}
	return &Error{Kind: KindConflict, Message: message, cause: cause}
}

// Forbidden reports a failed authorization check.
func Forbidden() *Error {
	return &Error{Kind: KindForbidden, Message: ForbiddenMessage, cause: errors.New(ForbiddenMessage)}
}

// Unchanged reports an update request that had nothing to apply.
func Unchanged(message string) *Error {
	return &Error{Kind: KindUnchanged, Message: message, cause: errors.New(message)}
}

// Internal wraps an unexpected failure. The client only sees ServerErrorMessage.
func Internal(err error) *Error {
	if err == nil {
		err = stderrors.New("unknown error")
	}
	var existing *Error
	if stderrors.As(err, &existing) {
		return existing
	}
	return &Error{Kind: KindInternal, Message: ServerErrorMessage, cause: errors.WithStack(err)}
}

// From returns err as an *Error, treating anything unrecognized as Internal.
func From(err error) *Error {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return stderrors.As(err, &appErr) && appErr.Kind == kind
}
