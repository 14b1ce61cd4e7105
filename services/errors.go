package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrUnauthorized = errors.New("invalid email or password")

	ErrAlreadyExists         = errors.New("already exists")
	ErrSelfSubscription      = errors.New("cannot subscribe to yourself")
	ErrDuplicateSubscription = errors.New("already subscribed to this author")

	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation            = errors.New("validation failed")
	ErrEmptyOrDuplicateTags  = errors.New("tags must be a non-empty list without repeats")
	ErrEmptyIngredientList   = errors.New("at least one ingredient is required")
	ErrDuplicateIngredient   = errors.New("ingredients must not repeat")
	ErrNonPositiveAmount     = errors.New("ingredient amount must be at least 1")
	ErrInvalidCookingTime    = errors.New("cooking time must be at least 1 minute")
	ErrAuthorChangeForbidden = errors.New("recipe author cannot be changed")
)

// ValidationError carries field level detail for a rejected write.
// It unwraps to the specific sentinel that caused it.
type ValidationError struct {
	Fields map[string][]string
	cause  error
}

func newValidationError(field string, cause error) *ValidationError {
	return &ValidationError{
		Fields: map[string][]string{field: {cause.Error()}},
		cause:  cause,
	}
}

// Invalid reports a validation failure on field with a free-form message.
func Invalid(field, msg string) *ValidationError {
	return &ValidationError{
		Fields: map[string][]string{field: {msg}},
		cause:  ErrValidation,
	}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.cause }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
