// Package apperror defines the error taxonomy shared by services and the HTTP
// layer. Client errors carry a field-keyed body that is rendered verbatim;
// infrastructure errors carry a generic message and keep their cause for logs.
package apperror

import (
	stderrors "errors"
	"net/http"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindInvalidCredentials
	KindUnauthorized
	KindForbidden
	KindStore
	KindSigning
	KindPartialDelivery
)

var kindNames = map[Kind]string{
	KindInternal:           "internal",
	KindValidation:         "validation",
	KindConflict:           "conflict",
	KindNotFound:           "not_found",
	KindInvalidCredentials: "invalid_credentials",
	KindUnauthorized:       "unauthorized",
	KindForbidden:          "forbidden",
	KindStore:              "store",
	KindSigning:            "signing",
	KindPartialDelivery:    "partial_delivery",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error is the single error type crossing the service boundary.
type Error struct {
	Kind   Kind
	Fields map[string]string
	Extra  map[string]any
	cause  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	for _, v := range e.Fields {
		msg += ": " + v
		break
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the kind onto a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindConflict, KindInvalidCredentials:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Body is the JSON object sent to the client.
func (e *Error) Body() map[string]any {
	body := make(map[string]any, len(e.Fields)+len(e.Extra))
	for k, v := range e.Fields {
		body[k] = v
	}
	for k, v := range e.Extra {
		body[k] = v
	}
	if len(body) == 0 {
		body["error"] = "Internal server error"
	}
	return body
}

// Validation wraps a field->message map produced by the validator.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

func Conflict(field, message string) *Error {
	return &Error{Kind: KindConflict, Fields: map[string]string{field: message}}
}

func NotFound(field, message string) *Error {
	return &Error{Kind: KindNotFound, Fields: map[string]string{field: message}}
}

func InvalidCredentials(field, message string) *Error {
	return &Error{Kind: KindInvalidCredentials, Fields: map[string]string{field: message}}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Fields: map[string]string{"error": message}}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Fields: map[string]string{"error": message}}
}

// Store reports a persistence or lookup failure.
func Store(err error, message string) *Error {
	return &Error{Kind: KindStore, Fields: map[string]string{"error": message}, cause: errors.WithStack(err)}
}

// Signing reports a token issuance failure.
func Signing(err error) *Error {
	return &Error{Kind: KindSigning, Fields: map[string]string{"error": "Could not generate token"}, cause: errors.WithStack(err)}
}

// Internal reports any other unexpected failure.
func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Fields: map[string]string{"error": message}, cause: errors.WithStack(err)}
}

// PartialDelivery reports a fan-out write where some targets were not updated.
// delivered maps each target name to whether its write succeeded.
func PartialDelivery(err error, delivered map[string]bool) *Error {
	return &Error{
		Kind:   KindPartialDelivery,
		Fields: map[string]string{"error": "Message was not delivered to every recipient"},
		Extra:  map[string]any{"delivered": delivered},
		cause:  errors.WithStack(err),
	}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}
