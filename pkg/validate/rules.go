// Value-level rule helpers for the record validator: format parsers,
// numeric coercion, and array shape checks.
package validate

import (
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/typeloom/typeloom/pkg/types"
)

// Hex color patterns: # followed by exactly 6 (rgb) or 8 (rgba) hex digits.
var (
	colorRGBPattern  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	colorRGBAPattern = regexp.MustCompile(`^#[0-9a-fA-F]{8}$`)
)

// dateLayout is the calendar-date layout for DATE fields with format date.
const dateLayout = "2006-01-02"

// checkTextValue applies the TEXT rules: string length bounds plus the
// format-specific semantic parse for uri and email.
func checkTextValue(f *types.FieldDefinition, value any) []string {
	violations := checkStringLength(f, value)
	s, ok := value.(string)
	if !ok {
		return violations
	}
	switch f.Format {
	case types.FormatURI:
		if !validURL(s) {
			violations = append(violations, "value must be a valid URL")
		}
	case types.FormatEmail:
		if !validEmail(s) {
			violations = append(violations, "value must be a valid email address")
		}
	}
	return violations
}

// checkStringLength enforces the [minLength, maxLength] bounds shared by
// TEXT and LONGTEXT.
func checkStringLength(f *types.FieldDefinition, value any) []string {
	s, ok := value.(string)
	if !ok {
		return []string{"value must be a string"}
	}
	var violations []string
	n := utf8.RuneCountInString(s)
	if f.MinLength != nil && n < *f.MinLength {
		violations = append(violations, fmt.Sprintf("value must be at least %d characters", *f.MinLength))
	}
	if f.MaxLength != nil && n > *f.MaxLength {
		violations = append(violations, fmt.Sprintf("value must be at most %d characters", *f.MaxLength))
	}
	return violations
}

// checkNumberValue enforces the numeric range and, for format integer,
// rejects fractional values.
func checkNumberValue(f *types.FieldDefinition, value any) []string {
	n, ok := toFloat(value)
	if !ok {
		return []string{"value must be a number"}
	}
	var violations []string
	if f.MinValue != nil && n < *f.MinValue {
		violations = append(violations, fmt.Sprintf("value must be at least %s", formatBound(*f.MinValue)))
	}
	if f.MaxValue != nil && n > *f.MaxValue {
		violations = append(violations, fmt.Sprintf("value must be at most %s", formatBound(*f.MaxValue)))
	}
	if f.Format == types.FormatInteger && n != math.Trunc(n) {
		violations = append(violations, "value must be an integer")
	}
	return violations
}

// checkDateValue parses the value per the field's format: RFC 3339 for
// datetime, a calendar date for date.
func checkDateValue(f *types.FieldDefinition, value any) []string {
	s, ok := value.(string)
	if !ok {
		return []string{"value must be a string"}
	}
	switch f.Format {
	case types.FormatDate:
		if _, err := time.Parse(dateLayout, s); err != nil {
			return []string{"value must be a valid date"}
		}
	default:
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return []string{"value must be a valid datetime"}
		}
	}
	return nil
}

// checkChoiceValue enforces membership in the declared choices plus the
// single/multiple cardinality rules.
func checkChoiceValue(f *types.FieldDefinition, value any) []string {
	items, ok := toStringSlice(value)
	if !ok {
		return []string{"value must be an array of strings"}
	}
	var violations []string
	switch f.Format {
	case types.FormatSingle:
		if len(items) != 1 {
			violations = append(violations, "value must contain exactly one choice")
		}
	case types.FormatMultiple:
		if len(items) < 1 {
			violations = append(violations, "value must contain at least one choice")
		}
		if !uniqueStrings(items) {
			violations = append(violations, "value must contain unique choices")
		}
	}
	for _, it := range items {
		if !containsString(f.Choices, it) {
			violations = append(violations, fmt.Sprintf("%q is not a valid choice", it))
		}
	}
	return violations
}

// checkColorValue matches the hex color pattern for the field's format.
func checkColorValue(f *types.FieldDefinition, value any) []string {
	s, ok := value.(string)
	if !ok {
		return []string{"value must be a string"}
	}
	switch f.Format {
	case types.FormatRGBA:
		if !colorRGBAPattern.MatchString(s) {
			return []string{"value must be an 8-digit hex color"}
		}
	default:
		if !colorRGBPattern.MatchString(s) {
			return []string{"value must be a 6-digit hex color"}
		}
	}
	return nil
}

// checkListValue enforces the LIST rules: an array of strings within the
// [minLength, maxLength] element bounds.
func checkListValue(f *types.FieldDefinition, value any) []string {
	items, ok := toStringSlice(value)
	if !ok {
		return []string{"value must be an array of strings"}
	}
	if v := checkItemCount(f, len(items)); v != "" {
		return []string{v}
	}
	return nil
}

// checkItemCount applies the field's minLength/maxLength bounds to an
// element count. Returns an empty string when within bounds.
func checkItemCount(f *types.FieldDefinition, n int) string {
	if f.MinLength != nil && n < *f.MinLength {
		return fmt.Sprintf("value must contain at least %d items", *f.MinLength)
	}
	if f.MaxLength != nil && n > *f.MaxLength {
		return fmt.Sprintf("value must contain at most %d items", *f.MaxLength)
	}
	return ""
}

// validURL reports whether s parses as an absolute URL with a host.
func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// validEmail reports whether s parses as a bare email address.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// toStringSlice normalizes a JSON-decoded array value into []string. Only
// arrays whose every element is a string qualify.
func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, el := range v {
			s, ok := el.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// toIDSlice normalizes a JSON-decoded array of identifiers into []string.
// Identifiers may arrive as strings or as integral JSON numbers.
func toIDSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, el := range v {
			id, ok := idString(el)
			if !ok {
				return nil, false
			}
			out = append(out, id)
		}
		return out, true
	default:
		return nil, false
	}
}

// idString renders a single identifier value as a string.
func idString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		if v != math.Trunc(v) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}
