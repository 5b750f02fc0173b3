package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("invalid task data")

	// ErrRunNotFound is returned when an analysis run does not exist.
	ErrRunNotFound = errors.New("analysis run not found")

	// ErrInvalidStrategy is returned when a strategy definition is unusable.
	ErrInvalidStrategy = errors.New("invalid strategy")
)

const (
	msgRequired    = "This field is required."
	msgBlank       = "This field may not be blank."
	msgInvalidDate = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
)

// ValidationError reports field-level problems with a task. TaskIndex is the
// position of the offending task in its collection, or -1 when unknown.
type ValidationError struct {
	TaskIndex int
	Details   map[string][]string
}

// NewFieldError creates a ValidationError for a single field.
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{
		TaskIndex: -1,
		Details:   map[string][]string{field: {message}},
	}
}

// Error implements error.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for field := range e.Details {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.Details[field], " "))
	}

	prefix := ErrValidation.Error()
	if e.TaskIndex >= 0 {
		prefix = fmt.Sprintf("%s at index %d", prefix, e.TaskIndex)
	}
	return prefix + ": " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) true for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) add(field, message string) {
	if e.Details == nil {
		e.Details = make(map[string][]string)
	}
	e.Details[field] = append(e.Details[field], message)
}

// AtIndex returns a copy of e attributed to the task at index.
func (e *ValidationError) AtIndex(index int) *ValidationError {
	return &ValidationError{TaskIndex: index, Details: e.Details}
}
