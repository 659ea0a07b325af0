// Package memory is an in-process data backend. It keeps persons and
// relation rows in insertion order and applies every pair insert and
// cascading delete atomically under one lock.
package memory

import (
	"context"
	"sync"

	"genealogy3d/application/ports"
	"genealogy3d/domain/core/entities"
	"genealogy3d/domain/core/valueobjects"
	apperrors "genealogy3d/pkg/errors"
)

// Backend implements ports.DataBackend in memory.
type Backend struct {
	mu        sync.RWMutex
	persons   []*entities.Person
	relations []*entities.Relation
	failures  map[string]error
}

var _ ports.DataBackend = (*Backend)(nil)

// NewBackend returns an empty backend.
func NewBackend() *Backend {
	return &Backend{failures: make(map[string]error)}
}

// Seed replaces the stored data. Rows are copied.
func (b *Backend) Seed(persons []*entities.Person, relations []*entities.Relation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.persons = clonePersons(persons)
	b.relations = cloneRelations(relations)
}

// FailNext makes the next call of operation (e.g. "createPerson") return
// err. Used to exercise transport failures.
func (b *Backend) FailNext(operation string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[operation] = err
}

func (b *Backend) takeFailure(operation string) error {
	if err, ok := b.failures[operation]; ok {
		delete(b.failures, operation)
		return err
	}
	return nil
}

func (b *Backend) ListPersons(ctx context.Context) ([]*entities.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.takeFailure("listPersons"); err != nil {
		return nil, err
	}
	return clonePersons(b.persons), nil
}

func (b *Backend) ListRelations(ctx context.Context) ([]*entities.Relation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.takeFailure("listRelations"); err != nil {
		return nil, err
	}
	return cloneRelations(b.relations), nil
}

func (b *Backend) CreatePerson(ctx context.Context, fields entities.PersonFields) (*entities.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.takeFailure("createPerson"); err != nil {
		return nil, err
	}
	p, err := entities.NewPerson(valueobjects.NewPersonID(), fields)
	if err != nil {
		return nil, err
	}
	b.persons = append(b.persons, p)
	return p.Clone(), nil
}

func (b *Backend) CreateRelationPair(ctx context.Context, source, target valueobjects.PersonID, t valueobjects.RelationType) (*entities.Relation, *entities.Relation, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.takeFailure("createRelationPair"); err != nil {
		return nil, nil, err
	}
	if b.indexOf(source) < 0 {
		return nil, nil, apperrors.NewReferenceError("person", source.String())
	}
	if b.indexOf(target) < 0 {
		return nil, nil, apperrors.NewReferenceError("person", target.String())
	}
	forward, err := entities.NewRelation(source, target, t)
	if err != nil {
		return nil, nil, err
	}
	inverse := forward.Inverse()
	b.relations = append(b.relations, forward, inverse)

	f, i := *forward, *inverse
	return &f, &i, nil
}

func (b *Backend) UpdatePerson(ctx context.Context, id valueobjects.PersonID, patch entities.PersonPatch) (*entities.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.takeFailure("updatePerson"); err != nil {
		return nil, err
	}
	idx := b.indexOf(id)
	if idx < 0 {
		return nil, apperrors.NewNotFoundError("person", id.String())
	}
	b.persons[idx] = b.persons[idx].Apply(patch)
	return b.persons[idx].Clone(), nil
}

func (b *Backend) DeletePerson(ctx context.Context, id valueobjects.PersonID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.takeFailure("deletePerson"); err != nil {
		return err
	}
	idx := b.indexOf(id)
	if idx < 0 {
		return apperrors.NewNotFoundError("person", id.String())
	}
	b.persons = append(b.persons[:idx], b.persons[idx+1:]...)

	kept := b.relations[:0]
	for _, r := range b.relations {
		if !r.Touches(id) {
			kept = append(kept, r)
		}
	}
	b.relations = kept
	return nil
}

// Len returns the stored person and relation row counts.
func (b *Backend) Len() (persons, relations int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.persons), len(b.relations)
}

func (b *Backend) indexOf(id valueobjects.PersonID) int {
	for i, p := range b.persons {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func clonePersons(in []*entities.Person) []*entities.Person {
	out := make([]*entities.Person, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func cloneRelations(in []*entities.Relation) []*entities.Relation {
	out := make([]*entities.Relation, len(in))
	for i, r := range in {
		c := *r
		out[i] = &c
	}
	return out
}
