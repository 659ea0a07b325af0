package valueobjects

import (
	"strings"

	"github.com/google/uuid"

	apperrors "genealogy3d/pkg/errors"
)

// PersonID identifies a person. Ids assigned by a backend are taken as-is;
// locally generated ids are random UUIDs.
type PersonID string

// NewPersonID creates a new random PersonID
func NewPersonID() PersonID {
	return PersonID(uuid.New().String())
}

// ParsePersonID accepts any non-blank string.
func ParsePersonID(s string) (PersonID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperrors.NewValidationError("person ID cannot be empty")
	}
	return PersonID(s), nil
}

func (id PersonID) String() string { return string(id) }

func (id PersonID) IsZero() bool { return id == "" }

// RelationID identifies one directed relation row.
type RelationID string

// NewRelationID creates a new random RelationID
func NewRelationID() RelationID {
	return RelationID(uuid.New().String())
}

func (id RelationID) String() string { return string(id) }

func (id RelationID) IsZero() bool { return id == "" }

// PairKey identifies an unordered {a, b} pair of persons. The smaller id
// always comes first so both directions of a relationship share one key.
type PairKey struct {
	A PersonID
	B PersonID
}

// NewPairKey returns the canonical key for the unordered pair.
func NewPairKey(a, b PersonID) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

func (k PairKey) String() string {
	return string(k.A) + "|" + string(k.B)
}
