package types

// Field kinds determine the shape and semantics of a field's values.
const (
	FieldKindText     = "TEXT"
	FieldKindLongText = "LONGTEXT"
	FieldKindBoolean  = "BOOLEAN"
	FieldKindNumber   = "NUMBER"
	FieldKindDate     = "DATE"
	FieldKindChoice   = "CHOICE"
	FieldKindColor    = "COLOR"
	FieldKindMedia    = "MEDIA"
	FieldKindLink     = "LINK"
	FieldKindList     = "LIST"
)

// validFieldKinds is the set of recognized field kind tags.
var validFieldKinds = map[string]bool{
	FieldKindText:     true,
	FieldKindLongText: true,
	FieldKindBoolean:  true,
	FieldKindNumber:   true,
	FieldKindDate:     true,
	FieldKindChoice:   true,
	FieldKindColor:    true,
	FieldKindMedia:    true,
	FieldKindLink:     true,
	FieldKindList:     true,
}

// fieldKindOrder lists the kinds in their canonical order.
var fieldKindOrder = []string{
	FieldKindText,
	FieldKindLongText,
	FieldKindBoolean,
	FieldKindNumber,
	FieldKindDate,
	FieldKindChoice,
	FieldKindColor,
	FieldKindMedia,
	FieldKindLink,
	FieldKindList,
}

// Field formats refine a kind's value semantics.
const (
	FormatPlaintext = "plaintext"
	FormatURI       = "uri"
	FormatEmail     = "email"
	FormatMarkdown  = "markdown"
	FormatNumber    = "number"
	FormatInteger   = "integer"
	FormatDateTime  = "datetime"
	FormatDate      = "date"
	FormatSingle    = "single"
	FormatMultiple  = "multiple"
	FormatRGB       = "rgb"
	FormatRGBA      = "rgba"
)

// FieldDefinition describes one field of a content type. The FieldType tag
// selects which of the optional attributes apply; the catalog package holds
// the per-kind constraint sets that say which attributes must be present
// and what values they may take.
//
// Required and Disabled are pointers because the booleans are mandatory on
// every field definition: a missing boolean is a definition error, never a
// silent default. The numeric attributes are pointers for the same reason
// (zero is a meaningful value).
type FieldDefinition struct {
	FieldType   string `json:"fieldType"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Required    *bool  `json:"required,omitempty"`
	Disabled    *bool  `json:"disabled,omitempty"`

	// Kind-specific attributes.
	MinLength  *int     `json:"minLength,omitempty"`
	MaxLength  *int     `json:"maxLength,omitempty"`
	Format     string   `json:"format,omitempty"`
	MinValue   *float64 `json:"minValue,omitempty"`
	MaxValue   *float64 `json:"maxValue,omitempty"`
	LabelTrue  string   `json:"labelTrue,omitempty"`
	LabelFalse string   `json:"labelFalse,omitempty"`
	Choices    []string `json:"choices,omitempty"`
}

// IsRequired reports whether the field demands a value at record
// validation time. A missing Required boolean counts as not required;
// definition validation rejects such fields before they reach records.
func (f *FieldDefinition) IsRequired() bool {
	return f.Required != nil && *f.Required
}

// IsDisabled reports whether the field is excluded from record validation.
func (f *FieldDefinition) IsDisabled() bool {
	return f.Disabled != nil && *f.Disabled
}

// Attr returns the named attribute's value and whether it is present.
// Nil pointers and empty strings count as absent, so a mandatory
// attribute left out of a decoded definition reads as missing rather
// than as a zero value.
func (f *FieldDefinition) Attr(name string) (any, bool) {
	switch name {
	case "fieldType":
		return f.FieldType, f.FieldType != ""
	case "name":
		return f.Name, f.Name != ""
	case "label":
		return f.Label, f.Label != ""
	case "description":
		return f.Description, f.Description != ""
	case "required":
		if f.Required == nil {
			return nil, false
		}
		return *f.Required, true
	case "disabled":
		if f.Disabled == nil {
			return nil, false
		}
		return *f.Disabled, true
	case "minLength":
		if f.MinLength == nil {
			return nil, false
		}
		return *f.MinLength, true
	case "maxLength":
		if f.MaxLength == nil {
			return nil, false
		}
		return *f.MaxLength, true
	case "format":
		return f.Format, f.Format != ""
	case "minValue":
		if f.MinValue == nil {
			return nil, false
		}
		return *f.MinValue, true
	case "maxValue":
		if f.MaxValue == nil {
			return nil, false
		}
		return *f.MaxValue, true
	case "labelTrue":
		return f.LabelTrue, f.LabelTrue != ""
	case "labelFalse":
		return f.LabelFalse, f.LabelFalse != ""
	case "choices":
		return f.Choices, f.Choices != nil
	default:
		return nil, false
	}
}

// ValidFieldKind reports whether the given tag is a recognized field kind.
func ValidFieldKind(kind string) bool {
	return validFieldKinds[kind]
}

// FieldKinds returns the ten field kind tags in canonical order.
func FieldKinds() []string {
	kinds := make([]string, len(fieldKindOrder))
	copy(kinds, fieldKindOrder)
	return kinds
}
