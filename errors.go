package formrig

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for form definition failures.
const (
	ErrCodeRequired             = "required"
	ErrCodeDuplicate            = "duplicate"
	ErrCodeInvalidValue         = "invalid_value"
	ErrCodeInvalidType          = "invalid_type"
	ErrCodeUnknownConfiguration = "unknown_configuration"
	ErrCodeUnknownStrategy      = "unknown_strategy"
	ErrCodeUnknownKey           = "unknown_key"
)

var (
	// ErrClosed is returned when operating on a closed form.
	ErrClosed = errors.New("formrig: form is closed")

	// ErrDuplicateField is returned when two fields share a label.
	ErrDuplicateField = errors.New("formrig: duplicate field label")

	// ErrUnknownConfiguration is returned when a configuration name cannot be resolved.
	ErrUnknownConfiguration = errors.New("formrig: unknown configuration")

	// ErrUnknownStrategy is returned when an error strategy cannot be parsed.
	ErrUnknownStrategy = errors.New("formrig: unknown error strategy")

	// ErrUnknownRule is returned when a rule kind cannot be parsed.
	ErrUnknownRule = errors.New("formrig: unknown rule kind")

	// ErrNilTarget is returned when Declare or Fill receive a nil pointer.
	ErrNilTarget = errors.New("formrig: target must be a non-nil pointer to a struct")
)

// ValidationError aggregates field-level definition failures.
type ValidationError struct {
	FieldErrors []FieldError
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "form definition invalid: no errors"
	}

	var b strings.Builder
	if len(e.FieldErrors) == 1 {
		b.WriteString("form definition invalid: 1 error\n")
	} else {
		fmt.Fprintf(&b, "form definition invalid: %d errors\n", len(e.FieldErrors))
	}

	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", fe.FieldPath, fe.Code, fe.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// Unwrap exposes the sentinel errors behind the field errors.
func (e *ValidationError) Unwrap() []error {
	var errs []error
	for _, fe := range e.FieldErrors {
		if fe.Err != nil {
			errs = append(errs, fe.Err)
		}
	}
	return errs
}

// FieldError represents a single definition failure.
type FieldError struct {
	FieldPath string // Field label or dot path (e.g., "fields.2.debounce")
	Code      string // Error code (e.g., "required", "duplicate")
	Message   string // Human-readable description
	Err       error  // Optional sentinel for errors.Is
}

// PredicateError reports a rule predicate that failed instead of answering.
type PredicateError struct {
	Rule  string
	Cause any
}

func (e *PredicateError) Error() string {
	return fmt.Sprintf("formrig: rule %q predicate failed: %v", e.Rule, e.Cause)
}

func (e *PredicateError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}
