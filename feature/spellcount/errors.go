package spellcount

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrConstraintViolation = errors.New("constraint violation")
)

// NotFoundError reports a name lookup that matched no row.
type NotFoundError struct {
	Kind string // "role" or "spell"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s name not found: %s", e.Kind, e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents a rejected input with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConstraintViolation reports an association insert referencing a missing row.
type ConstraintViolation struct {
	Column string
	Value  int64
	Err    error
}

func (e *ConstraintViolation) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("role_spells insert references a missing role or spell: %v", e.Err)
	}
	return fmt.Sprintf("role_spells.%s references missing row %d", e.Column, e.Value)
}

func (e *ConstraintViolation) Is(target error) bool {
	return target == ErrConstraintViolation
}

func (e *ConstraintViolation) Unwrap() error {
	return e.Err
}
