package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genealogy3d/domain/core/valueobjects"
	apperrors "genealogy3d/pkg/errors"
)

func TestNewPerson(t *testing.T) {
	p, err := NewPerson("p1", PersonFields{FirstName: "  Jean ", LastName: "Dupont", Generation: 2})
	require.NoError(t, err)
	assert.Equal(t, "Jean", p.FirstName)
	assert.Equal(t, "Jean Dupont", p.DisplayName())
	assert.Equal(t, 2, p.Generation)

	_, err = NewPerson("p2", PersonFields{FirstName: " ", LastName: "Dupont"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = NewPerson("", PersonFields{FirstName: "A", LastName: "B"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestPersonApplyPatch(t *testing.T) {
	p := &Person{ID: "p1", FirstName: "Jean", LastName: "Dupont"}
	first := "Jeanne"
	gen := -1

	next := p.Apply(PersonPatch{FirstName: &first, Generation: &gen})

	assert.Equal(t, "Jeanne", next.FirstName)
	assert.Equal(t, "Dupont", next.LastName)
	assert.Equal(t, -1, next.Generation)
	assert.Equal(t, "Jean", p.FirstName, "original is untouched")
	assert.True(t, PersonPatch{}.IsEmpty())
}

func TestDisplayNameUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", (&Person{ID: "x"}).DisplayName())
}

func TestRelationInverse(t *testing.T) {
	r, err := NewRelation("a", "b", valueobjects.RelationChild)
	require.NoError(t, err)

	inv := r.Inverse()
	assert.Equal(t, valueobjects.PersonID("b"), inv.OwnerID)
	assert.Equal(t, valueobjects.RelationParent, inv.Type)
	assert.True(t, r.IsInverseOf(inv))
	assert.True(t, inv.IsInverseOf(r))
	assert.Equal(t, r.Pair(), inv.Pair())
	assert.NotEqual(t, r.ID, inv.ID)
}

func TestNewRelationRejectsBadInput(t *testing.T) {
	tests := []struct {
		name          string
		owner, target valueobjects.PersonID
		typ           valueobjects.RelationType
	}{
		{"self", "a", "a", valueobjects.RelationSpouse},
		{"empty", "", "b", valueobjects.RelationSpouse},
		{"bad type", "a", "b", "cousin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRelation(tt.owner, tt.target, tt.typ)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}
