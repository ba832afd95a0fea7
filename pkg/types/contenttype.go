package types

import "time"

// Top-level attribute bounds for a content-type definition.
const (
	ContentTypeNameMinLen   = 1
	ContentTypeNameMaxLen   = 64
	ContentTypeDescMaxLen   = 128
	ContentTypeMetaMaxLen   = 3000
	FieldNameMinLen         = 4
	FieldNameMaxLen         = 64
	FieldLabelMinLen        = 4
	FieldLabelMaxLen        = 64
	FieldDescriptionMaxLen  = 128
	FieldBooleanLabelMinLen = 1
	FieldBooleanLabelMaxLen = 32
	FieldChoicesMinItems    = 2
	FieldChoicesMaxItems    = 128
)

// ContentTypeDefinition is a user-defined schema: an ordered list of typed
// field definitions plus owning project and user references. A definition
// is accepted only after it passes validate.Definition; once compiled into
// a schema document it is immutable in storage.
type ContentTypeDefinition struct {
	// ID is a UUID v7, generated on creation.
	ID string `json:"id,omitempty"`

	// Name is the display name, 1-64 characters.
	Name string `json:"name"`

	// Description is optional, up to 128 characters.
	Description string `json:"description"`

	// Metadata is a free-form string, up to 3000 characters.
	Metadata string `json:"metadata"`

	// ProjectID references the owning project.
	ProjectID string `json:"projectId"`

	// UserID references the owning user.
	UserID string `json:"userId"`

	// Fields is the ordered field list; names are unique, case-sensitive.
	Fields []FieldDefinition `json:"fields"`

	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Field returns the field definition with the given name, or nil.
func (d *ContentTypeDefinition) Field(name string) *FieldDefinition {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// FieldNames returns the field names in definition order.
func (d *ContentTypeDefinition) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for i := range d.Fields {
		names = append(names, d.Fields[i].Name)
	}
	return names
}

// ContentRecord maps field names to submitted values. Records are
// transient; they are supplied at value-validation time and owned by the
// caller.
type ContentRecord map[string]any
