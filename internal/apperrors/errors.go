package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindDataIntegrity
	KindMalformedBody
	KindUnauthenticated
	KindForbidden
	KindRateLimited
)

var statusByKind = map[Kind]int{
	KindNotFound:        http.StatusNotFound,
	KindValidation:      http.StatusBadRequest,
	KindDataIntegrity:   http.StatusBadRequest,
	KindMalformedBody:   http.StatusBadRequest,
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindRateLimited:     http.StatusTooManyRequests,
}

// Status is the HTTP status a failure of this kind is reported with
func (k Kind) Status() int {
	if status, ok := statusByKind[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is a failure the HTTP layer knows how to render
type Error struct {
	Kind        Kind
	Message     string
	FieldErrors map[string]string
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound builds the "<Entity> wasn't found with <key> <value>" error
func NotFound(entity, key string, value any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s wasn't found with %s %v", entity, key, value),
	}
}

func Validation(fields map[string]string) *Error {
	return &Error{
		Kind:        KindValidation,
		Message:     "Validation failed",
		FieldErrors: fields,
	}
}

func DataIntegrity(message string, err error) *Error {
	return &Error{Kind: KindDataIntegrity, Message: message, Err: err}
}

func MalformedBody(err error) *Error {
	return &Error{Kind: KindMalformedBody, Message: "Malformed request body", Err: err}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

// KindOf returns KindInternal for errors that are not *Error
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
