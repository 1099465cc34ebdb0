package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrReviewNotFound  = errors.New("review not found")
)

var (
	ErrBookingNotAchieved = errors.New("the booking is not marked as achieved")
)

var (
	ErrReviewExists        = errors.New("a review already exists for this booking")
	ErrBookingIDTaken      = errors.New("booking id already exists")
	ErrBookingIDsExhausted = errors.New("could not allocate a unique booking id")
)

var ErrValidation = errors.New("validation error")

// ValidationError lists field level problems with an input.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], ", "))
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
