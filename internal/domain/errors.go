package domain

import (
	"fmt"
	"sort"
	"strings"
)

// NonFieldErrors is the field key used for violations that are not tied to a
// single input field.
const NonFieldErrors = "non_field_errors"

// ValidationError reports malformed or inconsistent input.
// Messages are grouped by the request field they refer to.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	e := &ValidationError{Fields: make(map[string][]string)}
	e.Add(field, message)
	return e
}

// Add appends a message for the given field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any message has been recorded.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns nil when no message was recorded, so callers can
// accumulate violations and return the result directly.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Fields[field], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// SchemaError reports a fee, discount or parking-fee document whose key set
// (or, in the strict form, whose amounts) do not match the canonical template.
type SchemaError struct {
	Field   string
	Missing []string
	Unknown []string
	Invalid map[string]string
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing keys: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, "unknown keys: "+strings.Join(e.Unknown, ", "))
	}
	if len(e.Invalid) > 0 {
		keys := make([]string, 0, len(e.Invalid))
		for k := range e.Invalid {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, e.Invalid[k]))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "document does not match the default key set")
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, strings.Join(parts, "; "))
}

// Messages flattens the error into user-facing messages for the field.
func (e *SchemaError) Messages() []string {
	var msgs []string
	if len(e.Missing) > 0 || len(e.Unknown) > 0 {
		msgs = append(msgs, fmt.Sprintf("Only the default keys are allowed for %s.", e.Field))
	}
	for _, k := range e.Missing {
		msgs = append(msgs, fmt.Sprintf("Missing key `%s`.", k))
	}
	for _, k := range e.Unknown {
		msgs = append(msgs, fmt.Sprintf("Unknown key `%s`.", k))
	}
	keys := make([]string, 0, len(e.Invalid))
	for k := range e.Invalid {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("Invalid value for `%s`: %s.", k, e.Invalid[k]))
	}
	return msgs
}

// CapacityError reports an exceeded resource limit. It is surfaced to
// callers as a validation failure on Field.
type CapacityError struct {
	Field   string
	Message string
	Limit   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded (limit %d): %s", e.Limit, e.Message)
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Resource string
	Key      interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s `%v` not found", e.Resource, e.Key)
}

// ConflictError reports a write that lost a race against a concurrent
// request, e.g. a duplicate apartment number or a double booking.
type ConflictError struct {
	Resource string
	Message  string
	Err      error
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s conflict: %s: %v", e.Resource, e.Message, e.Err)
	}
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Message)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// PermissionError reports an operation the acting principal may not perform.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return "permission denied: " + e.Message
}
