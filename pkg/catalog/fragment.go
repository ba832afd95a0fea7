package catalog

import (
	"fmt"

	"github.com/typeloom/typeloom/pkg/types"
)

// Fragment is the declarative schema shape for one field kind inside a
// compiled schema document. The FieldType discriminator is matched
// exactly; Attributes is the closed set of keys a field object of this
// kind may carry; Required names every attribute that must be present.
// Unknown keys on a field object are a structural error
// (additionalProperties false semantics).
type Fragment struct {
	FieldType            string   `json:"fieldType"`
	Attributes           []string `json:"attributes"`
	Required             []string `json:"required"`
	AdditionalProperties bool     `json:"additionalProperties"`
}

// Allows reports whether the fragment permits the given attribute name.
func (f Fragment) Allows(attr string) bool {
	for _, a := range f.Attributes {
		if a == attr {
			return true
		}
	}
	return false
}

// Requires reports whether the fragment demands the given attribute name.
func (f Fragment) Requires(attr string) bool {
	for _, a := range f.Required {
		if a == attr {
			return true
		}
	}
	return false
}

// SchemaFragment returns the schema fragment for the given field kind.
// Unknown kinds fail with types.ErrUnknownFieldKind.
func SchemaFragment(kind string) (Fragment, error) {
	f, ok := fragments[kind]
	if !ok {
		return Fragment{}, fmt.Errorf("%q: %w", kind, types.ErrUnknownFieldKind)
	}
	return f, nil
}

// fragments is derived once from the constraint sets so that the two views
// of a kind can never drift apart.
var fragments = buildFragments()

func buildFragments() map[string]Fragment {
	out := make(map[string]Fragment, len(constraintSets))
	for kind, cs := range constraintSets {
		f := Fragment{FieldType: kind, AdditionalProperties: false}
		for _, a := range cs.Attrs {
			f.Attributes = append(f.Attributes, a.Name)
			if a.Required {
				f.Required = append(f.Required, a.Name)
			}
		}
		out[kind] = f
	}
	return out
}
