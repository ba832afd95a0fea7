package schema

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/typeloom/typeloom/pkg/catalog"
	"github.com/typeloom/typeloom/pkg/types"
)

// Parse decodes a stored schema document back into a content-type
// definition, re-validating its structural shape: unknown top-level keys,
// unknown field attributes, a missing required attribute, or an unknown
// kind tag are all structural errors. Parse(Compile(def).Marshal())
// returns the original field set and attribute values.
func Parse(data []byte) (*types.ContentTypeDefinition, error) {
	var raw struct {
		Name        string            `json:"name"`
		Description string            `json:"description"`
		Metadata    string            `json:"metadata"`
		ProjectID   string            `json:"projectId"`
		UserID      string            `json:"userId"`
		Fields      []json.RawMessage `json:"fields"`
		CreatedAt   string            `json:"createdAt"`
		ModifiedAt  string            `json:"modifiedAt"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, types.Structuralf("malformed schema document: %v", err)
	}

	def := &types.ContentTypeDefinition{
		Name:        raw.Name,
		Description: raw.Description,
		Metadata:    raw.Metadata,
		ProjectID:   raw.ProjectID,
		UserID:      raw.UserID,
		Fields:      make([]types.FieldDefinition, 0, len(raw.Fields)),
	}

	var err error
	if def.CreatedAt, err = parseTimestamp(raw.CreatedAt); err != nil {
		return nil, types.Structuralf("malformed createdAt %q", raw.CreatedAt)
	}
	if def.ModifiedAt, err = parseTimestamp(raw.ModifiedAt); err != nil {
		return nil, types.Structuralf("malformed modifiedAt %q", raw.ModifiedAt)
	}

	for _, rawField := range raw.Fields {
		field, err := parseField(rawField)
		if err != nil {
			return nil, err
		}
		def.Fields = append(def.Fields, *field)
	}
	return def, nil
}

// parseField validates one stored field object against its kind's
// fragment before decoding it.
func parseField(data json.RawMessage) (*types.FieldDefinition, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, types.Structuralf("malformed field object: %v", err)
	}

	kind, _ := obj["fieldType"].(string)
	frag, err := catalog.SchemaFragment(kind)
	if err != nil {
		return nil, types.Structuralf("unknown field kind %q", kind)
	}

	for key := range obj {
		if !frag.Allows(key) {
			return nil, types.Structuralf("field %v: unexpected attribute %q", obj["name"], key)
		}
	}
	for _, attr := range frag.Required {
		if _, ok := obj[attr]; !ok {
			return nil, types.Structuralf("field %v: missing required attribute %q", obj["name"], attr)
		}
	}

	var field types.FieldDefinition
	if err := json.Unmarshal(data, &field); err != nil {
		return nil, types.Structuralf("malformed field object: %v", err)
	}
	return &field, nil
}

// parseTimestamp accepts the RFC 3339 output of formatTimestamp, with the
// empty string mapping back to the zero time.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
