package validate

import (
	"context"
	"fmt"
	"sync"

	"github.com/typeloom/typeloom/pkg/types"
)

// Record validates a content record against a definition that has already
// passed Definition. Every enabled field is checked concurrently; the call
// waits for all field evaluations, including asynchronous referential
// lookups, to settle before returning, so a slow or failing lookup never
// leaves other fields unreported.
//
// Violations accumulate into a *types.ValidationError keyed by field name.
// A failure of the lookup collaborator itself is fatal and surfaces as a
// *types.CollaboratorError instead. Each call owns its accumulator; no
// state is shared across calls.
func Record(ctx context.Context, def *types.ContentTypeDefinition, record types.ContentRecord, lookups types.Lookups) error {
	if def == nil {
		return types.Structuralf("definition must not be nil")
	}

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		fieldErrs = make(map[string][]string)
		collabErr error
	)
	for i := range def.Fields {
		f := &def.Fields[i]
		if f.IsDisabled() {
			// Disabled fields are never validated against submitted data.
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			violations, err := checkFieldValue(ctx, f, def.ProjectID, record, lookups)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if collabErr == nil {
					collabErr = err
				}
				return
			}
			if len(violations) > 0 {
				fieldErrs[f.Name] = violations
			}
		}()
	}
	wg.Wait()

	if collabErr != nil {
		return collabErr
	}
	if len(fieldErrs) > 0 {
		return &types.ValidationError{Fields: fieldErrs}
	}
	return nil
}

// checkFieldValue evaluates the per-field ruleset derived from the field's
// kind, format, and required flag. The error result is reserved for lookup
// collaborator failures.
func checkFieldValue(ctx context.Context, f *types.FieldDefinition, projectID string, record types.ContentRecord, lookups types.Lookups) ([]string, error) {
	value, present := record[f.Name]
	if !present || value == nil {
		if f.IsRequired() {
			return []string{"value is required"}, nil
		}
		return nil, nil
	}

	switch f.FieldType {
	case types.FieldKindText:
		return checkTextValue(f, value), nil
	case types.FieldKindLongText:
		return checkStringLength(f, value), nil
	case types.FieldKindBoolean:
		if _, ok := value.(bool); !ok {
			return []string{"value must be a boolean"}, nil
		}
		return nil, nil
	case types.FieldKindNumber:
		return checkNumberValue(f, value), nil
	case types.FieldKindDate:
		return checkDateValue(f, value), nil
	case types.FieldKindChoice:
		return checkChoiceValue(f, value), nil
	case types.FieldKindColor:
		return checkColorValue(f, value), nil
	case types.FieldKindMedia:
		return checkReferenceValue(ctx, f, projectID, value, lookups, referenceMedia)
	case types.FieldKindLink:
		return checkReferenceValue(ctx, f, projectID, value, lookups, referenceEntries)
	case types.FieldKindList:
		return checkListValue(f, value), nil
	default:
		return []string{fmt.Sprintf("unknown field kind %q", f.FieldType)}, nil
	}
}

// Referential targets for MEDIA and LINK fields.
const (
	referenceMedia   = "media"
	referenceEntries = "entries"
)

// checkReferenceValue enforces array length bounds and delegates the
// existence check for every referenced id to the injected lookup
// collaborator. A lookup failure is returned as a CollaboratorError, not
// folded into the violation list.
func checkReferenceValue(ctx context.Context, f *types.FieldDefinition, projectID string, value any, lookups types.Lookups, target string) ([]string, error) {
	ids, ok := toIDSlice(value)
	if !ok {
		return []string{"value must be an array of identifiers"}, nil
	}
	if v := checkItemCount(f, len(ids)); v != "" {
		return []string{v}, nil
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if lookups == nil {
		return nil, &types.CollaboratorError{Op: target, Err: fmt.Errorf("no lookup collaborator configured")}
	}

	var (
		exist bool
		err   error
	)
	switch target {
	case referenceMedia:
		exist, err = lookups.MediaExistInProject(ctx, ids, projectID)
	case referenceEntries:
		exist, err = lookups.EntriesExistInProject(ctx, ids, projectID)
	}
	if err != nil {
		return nil, &types.CollaboratorError{Op: target, Err: err}
	}
	if !exist {
		return []string{fmt.Sprintf("value references unknown %s", target)}, nil
	}
	return nil, nil
}
