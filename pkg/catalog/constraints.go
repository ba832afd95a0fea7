package catalog

import "github.com/typeloom/typeloom/pkg/types"

// bound returns a pointer to v for use as an attribute value bound.
func bound(v float64) *float64 {
	return &v
}

// stringAttr builds a required string attribute with length bounds.
func stringAttr(name string, minLen, maxLen int) AttrConstraint {
	return AttrConstraint{
		Name:     name,
		Kind:     AttrString,
		Required: true,
		MinLen:   minLen,
		MaxLen:   maxLen,
	}
}

// formatAttr builds the required format attribute with the given enum.
func formatAttr(values ...string) AttrConstraint {
	return AttrConstraint{
		Name:     "format",
		Kind:     AttrString,
		Required: true,
		Enum:     values,
	}
}

// intAttr builds a required integer attribute with value bounds. lessThan,
// when non-empty, names the sibling attribute whose value must be strictly
// greater.
func intAttr(name string, min, max float64, lessThan string) AttrConstraint {
	return AttrConstraint{
		Name:     name,
		Kind:     AttrInteger,
		Required: true,
		Min:      bound(min),
		Max:      bound(max),
		LessThan: lessThan,
	}
}

// numberAttr builds a required unbounded number attribute.
func numberAttr(name, lessThan string) AttrConstraint {
	return AttrConstraint{
		Name:     name,
		Kind:     AttrNumber,
		Required: true,
		LessThan: lessThan,
	}
}

// commonAttrs returns the constraints shared by every field kind. The
// fieldType attribute is pinned to the kind's own tag; the required and
// disabled booleans are mandatory on every field definition.
func commonAttrs(kind string) []AttrConstraint {
	return []AttrConstraint{
		{Name: "fieldType", Kind: AttrString, Required: true, Enum: []string{kind}},
		stringAttr("name", types.FieldNameMinLen, types.FieldNameMaxLen),
		stringAttr("label", types.FieldLabelMinLen, types.FieldLabelMaxLen),
		{Name: "description", Kind: AttrString, MaxLen: types.FieldDescriptionMaxLen},
		{Name: "required", Kind: AttrBoolean, Required: true},
		{Name: "disabled", Kind: AttrBoolean, Required: true},
	}
}

// kindConstraints merges the common attributes with kind-specific ones.
func kindConstraints(kind string, extra ...AttrConstraint) ConstraintSet {
	return ConstraintSet{
		Kind:  kind,
		Attrs: append(commonAttrs(kind), extra...),
	}
}

// referenceListAttrs returns the minLength/maxLength pair shared by the
// MEDIA, LINK, and LIST kinds.
func referenceListAttrs() []AttrConstraint {
	return []AttrConstraint{
		intAttr("minLength", 0, 999, "maxLength"),
		intAttr("maxLength", 1, 1000, ""),
	}
}

// constraintSets holds the fixed definition-time constraint data for the
// ten field kinds.
var constraintSets = map[string]ConstraintSet{
	types.FieldKindText: kindConstraints(types.FieldKindText,
		intAttr("minLength", 0, 999, "maxLength"),
		intAttr("maxLength", 1, 1000, ""),
		formatAttr(types.FormatPlaintext, types.FormatURI, types.FormatEmail),
	),
	types.FieldKindLongText: kindConstraints(types.FieldKindLongText,
		intAttr("minLength", 0, 29999, "maxLength"),
		intAttr("maxLength", 1, 50000, ""),
		formatAttr(types.FormatPlaintext, types.FormatMarkdown),
	),
	types.FieldKindBoolean: kindConstraints(types.FieldKindBoolean,
		stringAttr("labelTrue", types.FieldBooleanLabelMinLen, types.FieldBooleanLabelMaxLen),
		stringAttr("labelFalse", types.FieldBooleanLabelMinLen, types.FieldBooleanLabelMaxLen),
	),
	types.FieldKindNumber: kindConstraints(types.FieldKindNumber,
		numberAttr("minValue", "maxValue"),
		numberAttr("maxValue", ""),
		formatAttr(types.FormatNumber, types.FormatInteger),
	),
	types.FieldKindDate: kindConstraints(types.FieldKindDate,
		formatAttr(types.FormatDateTime, types.FormatDate),
	),
	types.FieldKindChoice: kindConstraints(types.FieldKindChoice,
		AttrConstraint{
			Name:        "choices",
			Kind:        AttrStringList,
			Required:    true,
			MinItems:    types.FieldChoicesMinItems,
			MaxItems:    types.FieldChoicesMaxItems,
			UniqueItems: true,
		},
		formatAttr(types.FormatSingle, types.FormatMultiple),
	),
	types.FieldKindColor: kindConstraints(types.FieldKindColor,
		formatAttr(types.FormatRGB, types.FormatRGBA),
	),
	types.FieldKindMedia: kindConstraints(types.FieldKindMedia, referenceListAttrs()...),
	types.FieldKindLink:  kindConstraints(types.FieldKindLink, referenceListAttrs()...),
	types.FieldKindList:  kindConstraints(types.FieldKindList, referenceListAttrs()...),
}
