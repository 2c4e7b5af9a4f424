package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by the services. Handlers translate these to HTTP
// status codes (404, 403, 401).
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrInvalidToken     = errors.New("invalid token")
)

// ValidationError is a field-keyed set of messages rendered verbatim as a 400
// response body.
type ValidationError map[string][]string

func (e ValidationError) Error() string {
	parts := make([]string, 0, len(e))
	for field, messages := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(messages, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// FieldError builds a single-field ValidationError.
func FieldError(field, message string) ValidationError {
	return ValidationError{field: {message}}
}

func (e ValidationError) Add(field, message string) ValidationError {
	e[field] = append(e[field], message)
	return e
}
