package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code is the stable, machine readable identifier carried in error envelopes
// and used by controllers to pick flash text and redirect targets.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeEmptyCart     Code = "EMPTY_CART"
	CodeInsufficient  Code = "INSUFFICIENT_STOCK"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool

	// the caller supplied message is replaced by PublicMessage
	masked bool
}

var registry = func() map[Code]Metadata {
	rows := []struct {
		code Code
		meta Metadata
	}{
		{CodeValidation, Metadata{HTTPStatus: http.StatusBadRequest, PublicMessage: "validation failed", DetailsAllowed: true}},
		{CodeUnauthorized, Metadata{HTTPStatus: http.StatusUnauthorized, PublicMessage: "authentication required"}},
		{CodeForbidden, Metadata{HTTPStatus: http.StatusForbidden, PublicMessage: "access denied"}},
		{CodeNotFound, Metadata{HTTPStatus: http.StatusNotFound, PublicMessage: "resource not found"}},
		{CodeConflict, Metadata{HTTPStatus: http.StatusConflict, PublicMessage: "conflict detected"}},
		{CodeStateConflict, Metadata{HTTPStatus: http.StatusUnprocessableEntity, PublicMessage: "state transition disallowed", DetailsAllowed: true}},
		{CodeEmptyCart, Metadata{HTTPStatus: http.StatusUnprocessableEntity, PublicMessage: "your cart is empty"}},
		{CodeInsufficient, Metadata{HTTPStatus: http.StatusConflict, PublicMessage: "insufficient stock", DetailsAllowed: true}},
		{CodeRateLimit, Metadata{HTTPStatus: http.StatusTooManyRequests, PublicMessage: "rate limit exceeded"}},
		{CodeInternal, Metadata{HTTPStatus: http.StatusInternalServerError, Retryable: true, PublicMessage: "internal server error", masked: true}},
		{CodeDependency, Metadata{HTTPStatus: http.StatusServiceUnavailable, Retryable: true, PublicMessage: "dependency unavailable", DetailsAllowed: true, masked: true}},
	}
	out := make(map[Code]Metadata, len(rows))
	for _, row := range rows {
		out[row.code] = row.meta
	}
	return out
}()

// MetadataFor resolves unknown codes to the internal error entry.
func MetadataFor(code Code) Metadata {
	if meta, ok := registry[code]; ok {
		return meta
	}
	return registry[CodeInternal]
}

// Error is a coded application error. The message is for operators unless
// the code allows it to be shown to callers.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches a code to err. A nil err yields a plain New.
func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return string(e.code) + ": " + e.message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the outermost *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries the given typed code anywhere in its chain.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}

// PublicMessage returns the caller-facing text for err, falling back to the code
// metadata when the error is untyped or the code hides its message.
func PublicMessage(err error) string {
	typed := As(err)
	if typed == nil {
		return registry[CodeInternal].PublicMessage
	}
	meta := MetadataFor(typed.code)
	if meta.masked || typed.message == "" {
		return meta.PublicMessage
	}
	return typed.message
}
