package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrInvalidProductID     = errors.New("invalid product id")
	ErrInvalidAction        = errors.New("unrecognized action")
	ErrGeneratorUnavailable = errors.New("metadata generator unavailable")
)

// FieldError is a single field-level rejection reported by the catalog
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when the catalog rejects an update
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "catalog rejected update: " + strings.Join(parts, "; ")
}

// HasField reports whether any rejection references the given field
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// TransportError wraps failures reaching the catalog (network, auth, query errors)
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
