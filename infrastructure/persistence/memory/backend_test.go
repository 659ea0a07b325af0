package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genealogy3d/domain/core/entities"
	"genealogy3d/domain/core/valueobjects"
	apperrors "genealogy3d/pkg/errors"
)

func TestCreateAndCascadeDelete(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()

	jean, err := b.CreatePerson(ctx, entities.PersonFields{FirstName: "Jean", LastName: "Dupont"})
	require.NoError(t, err)
	pierre, err := b.CreatePerson(ctx, entities.PersonFields{FirstName: "Pierre", LastName: "Dupont", Generation: 1})
	require.NoError(t, err)

	fwd, inv, err := b.CreateRelationPair(ctx, jean.ID, pierre.ID, valueobjects.RelationChild)
	require.NoError(t, err)
	assert.True(t, fwd.IsInverseOf(inv))

	persons, relations := b.Len()
	assert.Equal(t, 2, persons)
	assert.Equal(t, 2, relations)

	require.NoError(t, b.DeletePerson(ctx, pierre.ID))
	persons, relations = b.Len()
	assert.Equal(t, 1, persons)
	assert.Equal(t, 0, relations)
}

func TestCreateRelationPairUnknownPerson(t *testing.T) {
	b := NewBackend()
	_, _, err := b.CreateRelationPair(context.Background(), "a", "b", valueobjects.RelationSpouse)
	assert.True(t, apperrors.IsReference(err))
}

func TestUpdatePersonAppliesPatch(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	p, err := b.CreatePerson(ctx, entities.PersonFields{FirstName: "Marie", LastName: "Dupont"})
	require.NoError(t, err)

	city := "Lyon"
	updated, err := b.UpdatePerson(ctx, p.ID, entities.PersonPatch{BirthLocation: &city})
	require.NoError(t, err)
	assert.Equal(t, "Lyon", updated.BirthLocation)

	_, err = b.UpdatePerson(ctx, "missing", entities.PersonPatch{BirthLocation: &city})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	_, err := b.CreatePerson(ctx, entities.PersonFields{FirstName: "Emma", LastName: "Dupont"})
	require.NoError(t, err)

	list, err := b.ListPersons(ctx)
	require.NoError(t, err)
	list[0].FirstName = "changed"

	again, err := b.ListPersons(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Emma", again[0].FirstName)
}

func TestFailNextIsConsumedOnce(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	boom := errors.New("connection reset")
	b.FailNext("listPersons", boom)

	_, err := b.ListPersons(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = b.ListPersons(ctx)
	assert.NoError(t, err)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBackend().ListRelations(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
