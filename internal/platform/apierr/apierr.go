package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes surfaced in the "error.code" field of every failed response.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeServerError  = "SERVER_ERROR"
)

type Error struct {
	Status  int
	Code    string
	Err     error
	Details any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(err error) *Error { return New(http.StatusNotFound, CodeNotFound, err) }

func Validation(err error, details any) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Err: err, Details: details}
}

func Unauthorized(err error) *Error { return New(http.StatusUnauthorized, CodeUnauthorized, err) }

func Forbidden(err error) *Error { return New(http.StatusForbidden, CodeForbidden, err) }

func Internal(err error) *Error { return New(http.StatusInternalServerError, CodeServerError, err) }

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
