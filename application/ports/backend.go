package ports

import (
	"context"

	"genealogy3d/domain/core/entities"
	"genealogy3d/domain/core/valueobjects"
	"genealogy3d/domain/events"
)

// DataBackend is the persistence collaborator for persons and relations.
// Every call may fail with a transport error; the graph is only mutated
// after a call succeeds.
type DataBackend interface {
	// ListPersons returns every stored person
	ListPersons(ctx context.Context) ([]*entities.Person, error)

	// ListRelations returns every stored directed relation row
	ListRelations(ctx context.Context) ([]*entities.Relation, error)

	// CreatePerson stores a new person and returns it with its assigned id
	CreatePerson(ctx context.Context, fields entities.PersonFields) (*entities.Person, error)

	// CreateRelationPair stores (source, target, t) and its inverse in one
	// atomic unit and returns both rows
	CreateRelationPair(ctx context.Context, source, target valueobjects.PersonID, t valueobjects.RelationType) (forward, inverse *entities.Relation, err error)

	// UpdatePerson applies a partial update and returns the stored person
	UpdatePerson(ctx context.Context, id valueobjects.PersonID, patch entities.PersonPatch) (*entities.Person, error)

	// DeletePerson removes a person and every relation touching them
	DeletePerson(ctx context.Context, id valueobjects.PersonID) error
}

// EventPublisher receives domain events after a mutation is applied.
type EventPublisher interface {
	Publish(ctx context.Context, evs []events.DomainEvent) error
}
