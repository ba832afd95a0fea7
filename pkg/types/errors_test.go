package types

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStructuralError(t *testing.T) {
	err := Structuralf("name must be between %d and %d characters", 1, 64)

	var se *StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StructuralError, got %T", err)
	}
	if !strings.Contains(err.Error(), "between 1 and 64") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string][]string{
		"rating":   {"value must be at most 5"},
		"headline": {"value must be at least 10 characters"},
	}}

	msg := err.Error()
	// Field names appear in sorted order so the message is stable.
	if strings.Index(msg, "headline") > strings.Index(msg, "rating") {
		t.Errorf("expected sorted field names in %q", msg)
	}
}

func TestValidationErrorViolations(t *testing.T) {
	err := &ValidationError{Fields: map[string][]string{
		"rating": {"value must be at most 5"},
	}}

	if got := err.Violations("rating"); len(got) != 1 {
		t.Errorf("expected one violation, got %v", got)
	}
	if got := err.Violations("missing"); got != nil {
		t.Errorf("expected nil for unknown field, got %v", got)
	}

	var nilErr *ValidationError
	if got := nilErr.Violations("rating"); got != nil {
		t.Errorf("expected nil from nil receiver, got %v", got)
	}
}

func TestCollaboratorErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := &CollaboratorError{Op: "media", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected CollaboratorError to unwrap its cause")
	}
	if !strings.Contains(err.Error(), "media") {
		t.Errorf("expected op in message, got %q", err.Error())
	}
}
