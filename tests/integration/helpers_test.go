// Package integration exercises the full stack: store lifecycle, content
// modeling through the schema compiler, and record validation against the
// SQLite backend's own lookup collaborator.
package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/typeloom/typeloom/internal/sqlite"
	"github.com/typeloom/typeloom/pkg/types"
)

// newAttachedBackend attaches a fresh backend to an isolated data
// directory and returns it with its config.
func newAttachedBackend(t *testing.T) (*sqlite.Backend, types.Config) {
	t.Helper()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(config))
	t.Cleanup(func() { backend.Detach() })
	return backend, config
}

func boolPtr(v bool) *bool        { return &v }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// articleDefinition builds a definition spanning text, boolean, number,
// choice, and reference kinds.
func articleDefinition(projectID string) *types.ContentTypeDefinition {
	return &types.ContentTypeDefinition{
		Name:        "Article",
		Description: "Long-form editorial content",
		ProjectID:   projectID,
		UserID:      "user-1",
		Fields: []types.FieldDefinition{
			{
				FieldType: types.FieldKindText,
				Name:      "headline",
				Label:     "Headline",
				Required:  boolPtr(true),
				Disabled:  boolPtr(false),
				MinLength: intPtr(1),
				MaxLength: intPtr(120),
				Format:    types.FormatPlaintext,
			},
			{
				FieldType:  types.FieldKindBoolean,
				Name:       "published",
				Label:      "Published",
				Required:   boolPtr(false),
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
				Choices:   []string{"tech", "life", "sports"},
				Format:    types.FormatSingle,
			},
			{
				FieldType: types.FieldKindMedia,
				Name:      "coverImage",
				Label:     "Cover image",
				Required:  boolPtr(false),
				Disabled:  boolPtr(false),
				MinLength: intPtr(0),
				MaxLength: intPtr(5),
			},
			{
				FieldType: types.FieldKindLink,
				Name:      "relatedArticles",
				Label:     "Related articles",
				Required:  boolPtr(false),
				Disabled:  boolPtr(false),
				MinLength: intPtr(0),
				MaxLength: intPtr(5),
			},
		},
	}
}
