package models

import (
	"sort"
	"strings"
)

// ValidationError collects field level problems with caller input.
type ValidationError struct {
	Details map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Details: map[string]string{}}
}

// Add records the first message reported for field.
func (e *ValidationError) Add(field, message string) {
	if e.Details == nil {
		e.Details = map[string]string{}
	}
	if _, ok := e.Details[field]; ok {
		return
	}
	e.Details[field] = message
}

// OrNil returns nil when nothing was recorded.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Details) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for f := range e.Details {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Details[f])
	}
	return "invalid request data: " + strings.Join(parts, "; ")
}
