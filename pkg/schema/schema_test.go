package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/typeloom/typeloom/pkg/types"
)

func boolPtr(v bool) *bool        { return &v }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func sampleDefinition() *types.ContentTypeDefinition {
	return &types.ContentTypeDefinition{
		Name:        "Article",
		Description: "Long-form editorial content",
		ProjectID:   "proj-1",
		UserID:      "user-1",
		CreatedAt:   time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
		ModifiedAt:  time.Date(2026, 8, 25, 11, 0, 0, 0, time.UTC),
		Fields: []types.FieldDefinition{
			{
				FieldType: types.FieldKindText,
				Name:      "headline",
				Label:     "Headline",
				Required:  boolPtr(true),
				Disabled:  boolPtr(false),
				MinLength: intPtr(10),
				MaxLength: intPtr(120),
				Format:    types.FormatPlaintext,
			},
			{
				FieldType:  types.FieldKindBoolean,
				Name:       "published",
				Label:      "Published",
				Required:   boolPtr(true),
				Disabled:   boolPtr(false),
				LabelTrue:  "Yes",
				LabelFalse: "No",
			},
			{
				FieldType: types.FieldKindNumber,
				Name:      "rating",
				Label:     "Rating",
				Required:  boolPtr(false),
				Disabled:  boolPtr(false),
				MinValue:  floatPtr(1),
				MaxValue:  floatPtr(5),
				Format:    types.FormatInteger,
			},
			{
				FieldType: types.FieldKindChoice,
				Name:      "category",
				Label:     "Category",
				Required:  boolPtr(false),
				Disabled:  boolPtr(false),
				Choices:   []string{"tech", "life"},
				Format:    types.FormatSingle,
			},
		},
	}
}

func TestCompileRoundTrip(t *testing.T) {
	def := sampleDefinition()

	doc, err := Compile(def)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	data, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if parsed.Name != def.Name || parsed.Description != def.Description {
		t.Errorf("top-level mismatch: %+v", parsed)
	}
	if parsed.ProjectID != def.ProjectID || parsed.UserID != def.UserID {
		t.Errorf("ownership mismatch: %+v", parsed)
	}
	if !parsed.CreatedAt.Equal(def.CreatedAt) || !parsed.ModifiedAt.Equal(def.ModifiedAt) {
		t.Errorf("timestamp mismatch: %v / %v", parsed.CreatedAt, parsed.ModifiedAt)
	}
	if len(parsed.Fields) != len(def.Fields) {
		t.Fatalf("expected %d fields, got %d", len(def.Fields), len(parsed.Fields))
	}
	for i := range def.Fields {
		want, got := &def.Fields[i], &parsed.Fields[i]
		if got.FieldType != want.FieldType || got.Name != want.Name || got.Label != want.Label {
			t.Errorf("field %d identity mismatch: %+v", i, got)
		}
		if *got.Required != *want.Required || *got.Disabled != *want.Disabled {
			t.Errorf("field %d flag mismatch: %+v", i, got)
		}
	}

	headline := parsed.Field("headline")
	if headline == nil || *headline.MinLength != 10 || *headline.MaxLength != 120 {
		t.Errorf("headline bounds not preserved: %+v", headline)
	}
	rating := parsed.Field("rating")
	if rating == nil || *rating.MinValue != 1 || *rating.MaxValue != 5 {
		t.Errorf("rating bounds not preserved: %+v", rating)
	}
	category := parsed.Field("category")
	if category == nil || len(category.Choices) != 2 || category.Choices[0] != "tech" {
		t.Errorf("choices not preserved: %+v", category)
	}
}

func TestCompileDeterministic(t *testing.T) {
	first, err := Compile(sampleDefinition())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Compile(sampleDefinition())
	if err != nil {
		t.Fatal(err)
	}

	a, err := first.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	b, err := second.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("expected identical definitions to marshal identically")
	}
}

func TestCompileOmitsAbsentAttributes(t *testing.T) {
	doc, err := Compile(sampleDefinition())
	if err != nil {
		t.Fatal(err)
	}

	// The boolean field has no description; the key must not appear at all.
	published := doc.Fields[1]
	if _, ok := published["description"]; ok {
		t.Error("absent description must not be emitted")
	}
	if published["labelTrue"] != "Yes" || published["labelFalse"] != "No" {
		t.Errorf("boolean labels not emitted: %v", published)
	}
	if _, ok := published["minLength"]; ok {
		t.Error("BOOLEAN field must not carry minLength")
	}
}

func TestCompileRejectsInvalidDefinition(t *testing.T) {
	def := sampleDefinition()
	def.ProjectID = ""

	_, err := Compile(def)
	if !errors.Is(err, types.ErrNotValidated) {
		t.Fatalf("expected ErrNotValidated, got %v", err)
	}
	var se *types.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StructuralError, got %v", err)
	}
}

func TestCompileZeroTimestamps(t *testing.T) {
	def := sampleDefinition()
	def.CreatedAt = time.Time{}
	def.ModifiedAt = time.Time{}

	doc, err := Compile(def)
	if err != nil {
		t.Fatal(err)
	}
	if doc.CreatedAt != "" || doc.ModifiedAt != "" {
		t.Errorf("zero timestamps must render empty, got %q / %q", doc.CreatedAt, doc.ModifiedAt)
	}

	parsed, err := Parse(mustMarshal(t, doc))
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.CreatedAt.IsZero() || !parsed.ModifiedAt.IsZero() {
		t.Error("empty timestamps must parse back to the zero time")
	}
}

func TestParseRejectsUnknownTopLevelKey(t *testing.T) {
	doc, err := Compile(sampleDefinition())
	if err != nil {
		t.Fatal(err)
	}
	data := injectKey(t, mustMarshal(t, doc), "extra", "value")

	_, err = Parse(data)
	var se *types.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StructuralError, got %v", err)
	}
}

func TestParseRejectsUnknownFieldAttribute(t *testing.T) {
	doc, err := Compile(sampleDefinition())
	if err != nil {
		t.Fatal(err)
	}
	doc.Fields[1]["choices"] = []string{"tech"}

	_, err = Parse(mustMarshal(t, doc))
	var se *types.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StructuralError, got %v", err)
	}
}

func TestParseRejectsMissingRequiredAttribute(t *testing.T) {
	doc, err := Compile(sampleDefinition())
	if err != nil {
		t.Fatal(err)
	}
	delete(doc.Fields[0], "format")

	_, err = Parse(mustMarshal(t, doc))
	var se *types.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StructuralError, got %v", err)
	}
}

func TestParseRejectsUnknownFieldKind(t *testing.T) {
	doc, err := Compile(sampleDefinition())
	if err != nil {
		t.Fatal(err)
	}
	doc.Fields[0]["fieldType"] = "GEOPOINT"

	_, err = Parse(mustMarshal(t, doc))
	var se *types.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StructuralError, got %v", err)
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	var se *types.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StructuralError, got %v", err)
	}
}

func mustMarshal(t *testing.T, doc *Document) []byte {
	t.Helper()
	data, err := doc.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// injectKey adds one top-level key to a marshaled document.
func injectKey(t *testing.T, data []byte, key string, value any) []byte {
	t.Helper()
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatal(err)
	}
	obj[key] = value
	out, err := json.Marshal(obj)
	if err != nil {
		t.Fatal(err)
	}
	return out
}
