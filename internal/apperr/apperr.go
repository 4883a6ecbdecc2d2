package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrServiceUnavailable: the completion provider is unreachable, unauthenticated or failed.
	ErrServiceUnavailable = errors.New("external service unavailable")
	// ErrEmptyExtraction: the completion contained no usable fenced blocks.
	ErrEmptyExtraction = errors.New("no files extracted from response")
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidRequest  = errors.New("invalid request")
	// ErrPathTraversal: a file path resolves outside its sandbox root.
	ErrPathTraversal = errors.New("path traversal detected")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConflict      = errors.New("conflict")
)

type Error struct {
	Status int
	Code   string
	Field  string
	Err    error
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
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Invalid reports a missing or malformed request field.
func Invalid(field, msg string) *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Code:   "invalid_request",
		Field:  field,
		Err:    fmt.Errorf("%w: %s", ErrInvalidRequest, msg),
	}
}

func ProjectNotFound(id string) *Error {
	return &Error{
		Status: http.StatusNotFound,
		Code:   "project_not_found",
		Err:    fmt.Errorf("%w: %s", ErrProjectNotFound, id),
	}
}

func PathTraversal(p string) *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Code:   "path_traversal",
		Field:  "path",
		Err:    fmt.Errorf("%w: %s", ErrPathTraversal, p),
	}
}

// StatusOf maps any error onto the HTTP status the API answers with.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrPathTraversal):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
