package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Catalog and definition errors.
var (
	ErrUnknownFieldKind = errors.New("unknown field kind")
	ErrNotValidated     = errors.New("definition has not passed validation")
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrTableNotFound   = errors.New("table not found")
)

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidFilter = errors.New("invalid filter value type")
	ErrDuplicateName = errors.New("name already in use")
)

// StructuralError reports a fatal, non-accumulating problem with a
// definition or a stored schema document: an unknown field kind tag,
// duplicate field names, a malformed top-level attribute, or an unexpected
// attribute on a stored field object. Further validation of the same call
// is aborted.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return e.Reason
}

// Structuralf builds a StructuralError from a format string.
func Structuralf(format string, args ...any) *StructuralError {
	return &StructuralError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError accumulates per-field violations. Fields maps a field
// name to the list of rules it violated; callers receive the full mapping
// rather than only the first failure.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed for fields: %s", strings.Join(names, ", "))
}

// Violations returns the violation list for a field name. A nil receiver
// returns nil, so callers can probe without checking for presence first.
func (e *ValidationError) Violations(field string) []string {
	if e == nil {
		return nil
	}
	return e.Fields[field]
}

// CollaboratorError reports that a lookup collaborator itself failed, as
// opposed to a referenced entity simply not existing (which is a field
// violation). It is fatal for the validation call that raised it.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("lookup collaborator %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
