// Package schema compiles validated content-type definitions into the
// declarative schema documents that downstream storage persists, and
// re-validates those documents on reload. Each field object in a document
// is governed by its kind's catalog fragment: a closed attribute set with
// an explicit required list and no additional properties.
package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/typeloom/typeloom/pkg/catalog"
	"github.com/typeloom/typeloom/pkg/types"
	"github.com/typeloom/typeloom/pkg/validate"
)

// Document is the stored representation of a content type. Field objects
// carry exactly the common plus kind-specific attributes for their kind.
// Compilation is a pure function of the definition: the same input always
// marshals to the same bytes.
type Document struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Metadata    string           `json:"metadata"`
	ProjectID   string           `json:"projectId"`
	UserID      string           `json:"userId"`
	Fields      []map[string]any `json:"fields"`
	CreatedAt   string           `json:"createdAt"`
	ModifiedAt  string           `json:"modifiedAt"`
}

// Compile assembles the schema document for a definition that has passed
// validate.Definition. The precondition is enforced: a definition that
// does not validate fails here rather than producing a malformed document.
func Compile(def *types.ContentTypeDefinition) (*Document, error) {
	if err := validate.Definition(def); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrNotValidated, err)
	}

	doc := &Document{
		Name:        def.Name,
		Description: def.Description,
		Metadata:    def.Metadata,
		ProjectID:   def.ProjectID,
		UserID:      def.UserID,
		Fields:      make([]map[string]any, 0, len(def.Fields)),
		CreatedAt:   formatTimestamp(def.CreatedAt),
		ModifiedAt:  formatTimestamp(def.ModifiedAt),
	}

	for i := range def.Fields {
		obj, err := compileField(&def.Fields[i])
		if err != nil {
			return nil, err
		}
		doc.Fields = append(doc.Fields, obj)
	}
	return doc, nil
}

// Marshal renders the document as canonical JSON. Object keys marshal in
// sorted order, so the output is bit-reproducible for storage and interop.
func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// compileField projects one field definition onto its kind's fragment:
// every allowed attribute that is present is emitted, every required
// attribute must be present, and nothing else can appear.
func compileField(f *types.FieldDefinition) (map[string]any, error) {
	frag, err := catalog.SchemaFragment(f.FieldType)
	if err != nil {
		return nil, types.Structuralf("unknown field kind %q", f.FieldType)
	}

	obj := make(map[string]any, len(frag.Attributes))
	for _, attr := range frag.Attributes {
		value, present := f.Attr(attr)
		if !present {
			if frag.Requires(attr) {
				return nil, types.Structuralf("field %q: missing required attribute %q", f.Name, attr)
			}
			continue
		}
		obj[attr] = value
	}
	return obj, nil
}

// formatTimestamp renders a timestamp as RFC 3339 UTC. The zero time
// renders as the empty string so compilation never invents timestamps.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
