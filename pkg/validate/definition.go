// Package validate implements the two-tier validation engine: checking
// that content-type definitions are themselves well-formed, and checking
// submitted content records against a validated definition.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/typeloom/typeloom/pkg/catalog"
	"github.com/typeloom/typeloom/pkg/types"
)

// Definition validates a whole content-type definition. The pipeline has
// two phases. The fail-fast phase checks the top-level attributes, the
// global field-name uniqueness invariant, and that every field carries a
// known kind tag; any failure there aborts the call with a
// *types.StructuralError. The accumulate phase then checks every field
// against its kind's constraint set from the catalog and collects all
// violations into a *types.ValidationError keyed by field name.
//
// Definition is pure and deterministic; it is safe to call concurrently.
func Definition(def *types.ContentTypeDefinition) error {
	if def == nil {
		return types.Structuralf("definition must not be nil")
	}
	if err := checkTopLevel(def); err != nil {
		return err
	}
	if err := checkUniqueFieldNames(def); err != nil {
		return err
	}
	if err := checkKnownKinds(def); err != nil {
		return err
	}

	fieldErrs := make(map[string][]string)
	for i := range def.Fields {
		f := &def.Fields[i]
		cs, err := catalog.DefinitionConstraints(f.FieldType)
		if err != nil {
			return types.Structuralf("unknown field kind %q", f.FieldType)
		}
		if violations := fieldViolations(f, cs); len(violations) > 0 {
			fieldErrs[fieldKey(f, i)] = violations
		}
	}
	if len(fieldErrs) > 0 {
		return &types.ValidationError{Fields: fieldErrs}
	}
	return nil
}

// checkTopLevel validates the definition's own attributes against the
// fixed top-level constraint set. The first violation aborts the call.
func checkTopLevel(def *types.ContentTypeDefinition) error {
	nameLen := utf8.RuneCountInString(def.Name)
	if nameLen < types.ContentTypeNameMinLen || nameLen > types.ContentTypeNameMaxLen {
		return types.Structuralf("name must be between %d and %d characters",
			types.ContentTypeNameMinLen, types.ContentTypeNameMaxLen)
	}
	if utf8.RuneCountInString(def.Description) > types.ContentTypeDescMaxLen {
		return types.Structuralf("description must be at most %d characters",
			types.ContentTypeDescMaxLen)
	}
	if utf8.RuneCountInString(def.Metadata) > types.ContentTypeMetaMaxLen {
		return types.Structuralf("metadata must be at most %d characters",
			types.ContentTypeMetaMaxLen)
	}
	if def.ProjectID == "" {
		return types.Structuralf("projectId is required")
	}
	if def.UserID == "" {
		return types.Structuralf("userId is required")
	}
	if len(def.Fields) == 0 {
		return types.Structuralf("fields must not be empty")
	}
	return nil
}

// checkUniqueFieldNames enforces the global case-sensitive uniqueness
// invariant. It takes priority over per-field checks.
func checkUniqueFieldNames(def *types.ContentTypeDefinition) error {
	seen := make(map[string]bool, len(def.Fields))
	for i := range def.Fields {
		name := def.Fields[i].Name
		if name == "" {
			continue
		}
		if seen[name] {
			return types.Structuralf("field names must be unique")
		}
		seen[name] = true
	}
	return nil
}

// checkKnownKinds fails fast on the first field whose kind tag is not in
// the catalog, naming the offending value.
func checkKnownKinds(def *types.ContentTypeDefinition) error {
	for i := range def.Fields {
		if !types.ValidFieldKind(def.Fields[i].FieldType) {
			return types.Structuralf("unknown field kind %q", def.Fields[i].FieldType)
		}
	}
	return nil
}

// fieldViolations checks one field against its kind's constraint set and
// returns every violated rule.
func fieldViolations(f *types.FieldDefinition, cs catalog.ConstraintSet) []string {
	var violations []string
	for _, attr := range cs.Attrs {
		value, present := f.Attr(attr.Name)
		if !present {
			if attr.Required {
				violations = append(violations, fmt.Sprintf("%s is required", attr.Name))
			}
			continue
		}
		violations = append(violations, attrViolations(attr, value)...)
		if attr.LessThan != "" {
			if other, ok := f.Attr(attr.LessThan); ok {
				if lhs, lok := toFloat(value); lok {
					if rhs, rok := toFloat(other); rok && lhs >= rhs {
						violations = append(violations,
							fmt.Sprintf("%s must be less than %s", attr.Name, attr.LessThan))
					}
				}
			}
		}
	}
	return violations
}

// attrViolations checks a single present attribute value against its
// constraint.
func attrViolations(attr catalog.AttrConstraint, value any) []string {
	var violations []string
	switch attr.Kind {
	case catalog.AttrString:
		s, ok := value.(string)
		if !ok {
			return []string{fmt.Sprintf("%s must be a string", attr.Name)}
		}
		if len(attr.Enum) > 0 {
			if !containsString(attr.Enum, s) {
				violations = append(violations, fmt.Sprintf("%s must be one of: %s",
					attr.Name, strings.Join(attr.Enum, ", ")))
			}
			break
		}
		n := utf8.RuneCountInString(s)
		switch {
		case attr.MinLen > 0 && attr.MaxLen > 0 && (n < attr.MinLen || n > attr.MaxLen):
			violations = append(violations, fmt.Sprintf("%s must be between %d and %d characters",
				attr.Name, attr.MinLen, attr.MaxLen))
		case attr.MinLen == 0 && attr.MaxLen > 0 && n > attr.MaxLen:
			violations = append(violations, fmt.Sprintf("%s must be at most %d characters",
				attr.Name, attr.MaxLen))
		}
	case catalog.AttrInteger, catalog.AttrNumber:
		v, ok := toFloat(value)
		if !ok {
			return []string{fmt.Sprintf("%s must be a number", attr.Name)}
		}
		if attr.Min != nil && attr.Max != nil && (v < *attr.Min || v > *attr.Max) {
			violations = append(violations, fmt.Sprintf("%s must be between %s and %s",
				attr.Name, formatBound(*attr.Min), formatBound(*attr.Max)))
		}
	case catalog.AttrBoolean:
		// Presence is the whole constraint; Attr already dereferenced
		// the pointer.
	case catalog.AttrStringList:
		items, ok := value.([]string)
		if !ok {
			return []string{fmt.Sprintf("%s must be an array of strings", attr.Name)}
		}
		if len(items) < attr.MinItems || (attr.MaxItems > 0 && len(items) > attr.MaxItems) {
			violations = append(violations, fmt.Sprintf("%s must contain between %d and %d items",
				attr.Name, attr.MinItems, attr.MaxItems))
		}
		if attr.UniqueItems && !uniqueStrings(items) {
			violations = append(violations, fmt.Sprintf("%s must contain unique values", attr.Name))
		}
	}
	return violations
}

// fieldKey names a field in the error mapping. Unnamed fields fall back to
// their position so their violations are not silently merged.
func fieldKey(f *types.FieldDefinition, index int) string {
	if f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("fields[%d]", index)
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func uniqueStrings(items []string) bool {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it] {
			return false
		}
		seen[it] = true
	}
	return true
}

// toFloat normalizes the numeric attribute representations to float64 for
// bound and ordering comparisons.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// formatBound renders a numeric bound without a trailing fraction when it
// is integral.
func formatBound(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
