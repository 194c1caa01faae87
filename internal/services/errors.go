package services

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/repository"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/statemachine"
)

// Common service errors. Callers classify with errors.Is.
var (
	ErrNotFound          = repository.ErrNotFound
	ErrConflict          = repository.ErrConflict
	ErrIllegalTransition = statemachine.ErrIllegalTransition
	ErrValidation        = errors.New("validation failed")
)

// ValidationError names the offending input fields
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// invalid builds a single-field validation error
func invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// requireText fails when value is blank
func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "is required")
	}
	return nil
}
