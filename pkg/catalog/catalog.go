// Package catalog is the static registry of the ten field kinds. For each
// kind it holds the definition-time constraint set (which attributes a
// field of that kind must carry and the bounds on their values) and the
// declarative schema fragment used when compiling and reloading schema
// documents. The catalog is fixed data: pure lookups, no I/O.
package catalog

import (
	"fmt"

	"github.com/typeloom/typeloom/pkg/types"
)

// Attribute value kinds understood by the definition validator.
const (
	AttrString     = "string"
	AttrInteger    = "integer"
	AttrNumber     = "number"
	AttrBoolean    = "boolean"
	AttrStringList = "string-list"
)

// AttrConstraint describes one attribute of a field definition: its value
// kind, whether it must be present, and the bounds its value must satisfy.
// Constraints are plain data so that other components can inspect bounds
// and cross-attribute relations without re-deriving them.
type AttrConstraint struct {
	// Name is the attribute name as it appears on a field object.
	Name string

	// Kind is one of the Attr* value kinds.
	Kind string

	// Required reports whether the attribute must be present.
	Required bool

	// MinLen and MaxLen bound the length of a string attribute's value.
	// MaxLen zero means unbounded.
	MinLen int
	MaxLen int

	// Min and Max bound the value of an integer or number attribute.
	Min *float64
	Max *float64

	// Enum lists the permitted values of a string attribute.
	Enum []string

	// MinItems and MaxItems bound the element count of a string-list
	// attribute. UniqueItems additionally forbids duplicate elements.
	MinItems    int
	MaxItems    int
	UniqueItems bool

	// LessThan names a sibling attribute; this attribute's validated
	// value must be strictly less than the sibling's validated value on
	// the same field object.
	LessThan string
}

// ConstraintSet is the full definition-time constraint set for one field
// kind: the common field attributes merged with the kind-specific ones.
type ConstraintSet struct {
	Kind  string
	Attrs []AttrConstraint
}

// Attr returns the constraint for the named attribute.
func (cs ConstraintSet) Attr(name string) (AttrConstraint, bool) {
	for _, a := range cs.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return AttrConstraint{}, false
}

// DefinitionConstraints returns the definition-time constraint set for the
// given field kind. Unknown kinds fail with types.ErrUnknownFieldKind.
func DefinitionConstraints(kind string) (ConstraintSet, error) {
	cs, ok := constraintSets[kind]
	if !ok {
		return ConstraintSet{}, fmt.Errorf("%q: %w", kind, types.ErrUnknownFieldKind)
	}
	return cs, nil
}

// Kinds returns the ten known field kind tags in canonical order.
func Kinds() []string {
	return types.FieldKinds()
}
