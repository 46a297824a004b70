package errors

import (
	"errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// NotFound signals that a referenced record does not exist.
func NotFound(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound}
}

// Conflict signals a violated precondition about record state or input
// consistency (duplicate email, ticket mismatch, mismatched password repeat).
func Conflict(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusConflict}
}

// Unauthorized signals a failed credential check or a disabled account.
func Unauthorized(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusUnauthorized}
}

// BadRequest signals malformed input at the boundary.
func BadRequest(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest}
}

func hasStatusCode(err error, code int) bool {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode == code
	}
	return false
}

func IsNotFound(err error) bool {
	return hasStatusCode(err, http.StatusNotFound)
}

func IsConflict(err error) bool {
	return hasStatusCode(err, http.StatusConflict)
}

func IsUnauthorized(err error) bool {
	return hasStatusCode(err, http.StatusUnauthorized)
}
