package valueobjects

import (
	"fmt"

	apperrors "genealogy3d/pkg/errors"
)

// RelationType is the persisted granularity of a relation: exactly parent,
// child, sibling or spouse. (A, B, child) reads "B is A's child".
type RelationType string

const (
	RelationParent  RelationType = "parent"
	RelationChild   RelationType = "child"
	RelationSibling RelationType = "sibling"
	RelationSpouse  RelationType = "spouse"
)

// RelationTypes lists the stored types in a stable order.
var RelationTypes = []RelationType{RelationParent, RelationChild, RelationSibling, RelationSpouse}

// ParseRelationType validates a persisted relation type string.
func ParseRelationType(s string) (RelationType, error) {
	t := RelationType(s)
	if !t.Valid() {
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown relation type %q", s)).
			WithDetail("allowed", RelationTypes)
	}
	return t, nil
}

// Valid reports whether t is one of the four stored types.
func (t RelationType) Valid() bool {
	switch t {
	case RelationParent, RelationChild, RelationSibling, RelationSpouse:
		return true
	}
	return false
}

// Inverse returns the type stored on the reverse row:
// parent and child swap, sibling and spouse are their own inverse.
func (t RelationType) Inverse() RelationType {
	return InverseOf(t)
}

// InverseOf is the pure inverse function over stored types. Unknown values
// are returned unchanged.
func InverseOf(t RelationType) RelationType {
	switch t {
	case RelationParent:
		return RelationChild
	case RelationChild:
		return RelationParent
	default:
		return t
	}
}

func (t RelationType) String() string { return string(t) }
