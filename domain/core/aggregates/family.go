package aggregates

import (
	"fmt"
	"time"

	"genealogy3d/domain/core/entities"
	"genealogy3d/domain/core/valueobjects"
	"genealogy3d/domain/events"
	apperrors "genealogy3d/pkg/errors"
)

// FamilyGraph is the aggregate root for persons and their relations.
// Relations are stored as directed rows, two per relationship, and the
// aggregate keeps every row paired with its inverse. Persons and relations
// are iterated in insertion order so downstream layout is deterministic.
type FamilyGraph struct {
	persons       map[valueobjects.PersonID]*entities.Person
	personOrder   []valueobjects.PersonID
	relations     map[valueobjects.RelationID]*entities.Relation
	relationOrder []valueobjects.RelationID
	byPerson      map[valueobjects.PersonID][]valueobjects.RelationID
	version       int
	events        []events.DomainEvent
	now           func() time.Time
}

// NewFamilyGraph creates an empty graph
func NewFamilyGraph() *FamilyGraph {
	return &FamilyGraph{
		persons:   make(map[valueobjects.PersonID]*entities.Person),
		relations: make(map[valueobjects.RelationID]*entities.Relation),
		byPerson:  make(map[valueobjects.PersonID][]valueobjects.RelationID),
		events:    []events.DomainEvent{},
		now:       time.Now,
	}
}

// ReconstructFamilyGraph rebuilds a graph from backend rows and checks the
// result. No events are recorded.
func ReconstructFamilyGraph(persons []*entities.Person, relations []*entities.Relation) (*FamilyGraph, error) {
	g := NewFamilyGraph()
	for _, p := range persons {
		if err := g.insertPerson(p); err != nil {
			return nil, err
		}
	}
	for _, r := range relations {
		if err := g.insertRelation(r); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Version increases on every successful mutation.
func (g *FamilyGraph) Version() int {
	return g.version
}

// Len returns the number of persons.
func (g *FamilyGraph) Len() int {
	return len(g.personOrder)
}

// RelationCount returns the number of directed rows.
func (g *FamilyGraph) RelationCount() int {
	return len(g.relationOrder)
}

// AddPerson adds a person to the graph
func (g *FamilyGraph) AddPerson(p *entities.Person) error {
	if err := g.insertPerson(p); err != nil {
		return err
	}
	g.touch(events.NewPersonAdded(p.ID, p.Generation, g.now()))
	return nil
}

// UpdatePerson replaces the stored person with the same id.
func (g *FamilyGraph) UpdatePerson(p *entities.Person) error {
	if p == nil {
		return apperrors.NewValidationError("person cannot be nil")
	}
	if _, ok := g.persons[p.ID]; !ok {
		return apperrors.NewNotFoundError("person", p.ID.String())
	}
	g.persons[p.ID] = p
	g.touch(events.NewPersonUpdated(p.ID, g.now()))
	return nil
}

// AddRelationPair stores (source, target, t) and its inverse
// (target, source, InverseOf(t)) under fresh ids.
func (g *FamilyGraph) AddRelationPair(source, target valueobjects.PersonID, t valueobjects.RelationType) (*entities.Relation, *entities.Relation, error) {
	if err := g.checkEndpoints(source, target); err != nil {
		return nil, nil, err
	}
	forward, err := entities.NewRelation(source, target, t)
	if err != nil {
		return nil, nil, err
	}
	inverse := forward.Inverse()
	if err := g.AddRelationRows(forward, inverse); err != nil {
		return nil, nil, err
	}
	return forward, inverse, nil
}

// AddRelationRows stores an already built forward/inverse pair, as returned
// by a data backend. Both rows are checked before anything is mutated; if
// the inverse still cannot be stored the forward row is rolled back.
func (g *FamilyGraph) AddRelationRows(forward, inverse *entities.Relation) error {
	if forward == nil || inverse == nil {
		return apperrors.NewValidationError("relation rows cannot be nil")
	}
	if err := g.checkEndpoints(forward.OwnerID, forward.TargetID); err != nil {
		return err
	}
	if !forward.Type.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown relation type %q", forward.Type))
	}
	if !forward.IsInverseOf(inverse) {
		return apperrors.NewIntegrityError(fmt.Sprintf(
			"relation %s has no matching inverse row", forward.ID)).
			WithDetail("forward", forward.ID.String()).
			WithDetail("inverse", inverse.ID.String())
	}

	if err := g.insertRelation(forward); err != nil {
		return err
	}
	if err := g.insertRelation(inverse); err != nil {
		g.deleteRelation(forward.ID)
		return apperrors.NewIntegrityError("inverse relation could not be stored; pair rolled back").
			WithCause(err).
			WithDetail("forward", forward.ID.String())
	}

	g.touch(events.NewRelationPairAdded(forward.ID, inverse.ID, forward.OwnerID, forward.TargetID, forward.Type, g.now()))
	return nil
}

// RemovePerson removes a person and every relation row touching them.
func (g *FamilyGraph) RemovePerson(id valueobjects.PersonID) error {
	if _, ok := g.persons[id]; !ok {
		return apperrors.NewNotFoundError("person", id.String())
	}

	var doomed []valueobjects.RelationID
	for _, rid := range g.relationOrder {
		if g.relations[rid].Touches(id) {
			doomed = append(doomed, rid)
		}
	}
	for _, rid := range doomed {
		g.deleteRelation(rid)
	}

	delete(g.persons, id)
	delete(g.byPerson, id)
	g.personOrder = removeID(g.personOrder, id)

	g.touch(events.NewPersonRemoved(id, len(doomed), g.now()))
	return nil
}

// RemoveRelation removes a relation row together with its inverse partner.
func (g *FamilyGraph) RemoveRelation(id valueobjects.RelationID) error {
	r, ok := g.relations[id]
	if !ok {
		return apperrors.NewNotFoundError("relation", id.String())
	}

	var partner valueobjects.RelationID
	for _, rid := range g.byPerson[r.TargetID] {
		if rid != id && r.IsInverseOf(g.relations[rid]) {
			partner = rid
			break
		}
	}

	g.deleteRelation(id)
	if !partner.IsZero() {
		g.deleteRelation(partner)
	}
	g.touch(events.NewRelationRemoved(id, partner, g.now()))
	return nil
}

// Person looks a person up by id.
func (g *FamilyGraph) Person(id valueobjects.PersonID) (*entities.Person, bool) {
	p, ok := g.persons[id]
	return p, ok
}

// HasPerson checks if a person exists without error
func (g *FamilyGraph) HasPerson(id valueobjects.PersonID) bool {
	_, ok := g.persons[id]
	return ok
}

// Persons returns every person in insertion order.
func (g *FamilyGraph) Persons() []*entities.Person {
	out := make([]*entities.Person, 0, len(g.personOrder))
	for _, id := range g.personOrder {
		out = append(out, g.persons[id])
	}
	return out
}

// Relation looks a relation row up by id.
func (g *FamilyGraph) Relation(id valueobjects.RelationID) (*entities.Relation, bool) {
	r, ok := g.relations[id]
	return r, ok
}

// Relations returns every directed row in insertion order.
func (g *FamilyGraph) Relations() []*entities.Relation {
	out := make([]*entities.Relation, 0, len(g.relationOrder))
	for _, id := range g.relationOrder {
		out = append(out, g.relations[id])
	}
	return out
}

// RelationsOf returns the rows owned by id in insertion order.
func (g *FamilyGraph) RelationsOf(id valueobjects.PersonID) []*entities.Relation {
	var out []*entities.Relation
	for _, rid := range g.byPerson[id] {
		if r := g.relations[rid]; r.OwnerID == id {
			out = append(out, r)
		}
	}
	return out
}

// Neighbors returns the targets of the rows owned by id. The same person
// appears more than once when several rows point at them.
func (g *FamilyGraph) Neighbors(id valueobjects.PersonID) []valueobjects.PersonID {
	rels := g.RelationsOf(id)
	out := make([]valueobjects.PersonID, 0, len(rels))
	for _, r := range rels {
		out = append(out, r.TargetID)
	}
	return out
}

// Clusters groups persons into connected components, in insertion order.
func (g *FamilyGraph) Clusters() [][]valueobjects.PersonID {
	visited := make(map[valueobjects.PersonID]bool, len(g.persons))
	var clusters [][]valueobjects.PersonID

	for _, start := range g.personOrder {
		if visited[start] {
			continue
		}
		visited[start] = true
		cluster := []valueobjects.PersonID{start}
		for i := 0; i < len(cluster); i++ {
			for _, next := range g.Neighbors(cluster[i]) {
				if !visited[next] {
					visited[next] = true
					cluster = append(cluster, next)
				}
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// Validate ensures graph invariants: every row's endpoints exist and every
// row has an inverse partner.
func (g *FamilyGraph) Validate() error {
	for _, rid := range g.relationOrder {
		r := g.relations[rid]
		if !g.HasPerson(r.OwnerID) || !g.HasPerson(r.TargetID) {
			return apperrors.NewIntegrityError(fmt.Sprintf(
				"relation %s references a missing person", r.ID)).
				WithDetail("owner", r.OwnerID.String()).
				WithDetail("target", r.TargetID.String())
		}
		if !g.hasInverse(r) {
			return apperrors.NewIntegrityError(fmt.Sprintf(
				"relation %s (%s -> %s, %s) has no inverse", r.ID, r.OwnerID, r.TargetID, r.Type))
		}
	}
	return nil
}

// GetUncommittedEvents returns all uncommitted domain events
func (g *FamilyGraph) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(g.events))
	copy(out, g.events)
	return out
}

// MarkEventsAsCommitted clears all uncommitted events
func (g *FamilyGraph) MarkEventsAsCommitted() {
	g.events = []events.DomainEvent{}
}

// Private helper methods

func (g *FamilyGraph) touch(ev events.DomainEvent) {
	g.version++
	g.events = append(g.events, ev)
}

func (g *FamilyGraph) checkEndpoints(source, target valueobjects.PersonID) error {
	if !g.HasPerson(source) {
		return apperrors.NewReferenceError("person", source.String())
	}
	if !g.HasPerson(target) {
		return apperrors.NewReferenceError("person", target.String())
	}
	return nil
}

func (g *FamilyGraph) insertPerson(p *entities.Person) error {
	if p == nil {
		return apperrors.NewValidationError("person cannot be nil")
	}
	if p.ID.IsZero() {
		return apperrors.NewValidationError("person ID cannot be empty")
	}
	if _, exists := g.persons[p.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("person %q already exists", p.ID))
	}
	g.persons[p.ID] = p
	g.personOrder = append(g.personOrder, p.ID)
	return nil
}

func (g *FamilyGraph) insertRelation(r *entities.Relation) error {
	if r == nil || r.ID.IsZero() {
		return apperrors.NewValidationError("relation ID cannot be empty")
	}
	if _, exists := g.relations[r.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("relation %q already exists", r.ID))
	}
	if err := g.checkEndpoints(r.OwnerID, r.TargetID); err != nil {
		return err
	}
	g.relations[r.ID] = r
	g.relationOrder = append(g.relationOrder, r.ID)
	g.byPerson[r.OwnerID] = append(g.byPerson[r.OwnerID], r.ID)
	if r.TargetID != r.OwnerID {
		g.byPerson[r.TargetID] = append(g.byPerson[r.TargetID], r.ID)
	}
	return nil
}

func (g *FamilyGraph) deleteRelation(id valueobjects.RelationID) {
	r, ok := g.relations[id]
	if !ok {
		return
	}
	delete(g.relations, id)
	g.relationOrder = removeID(g.relationOrder, id)
	g.byPerson[r.OwnerID] = removeID(g.byPerson[r.OwnerID], id)
	g.byPerson[r.TargetID] = removeID(g.byPerson[r.TargetID], id)
}

func (g *FamilyGraph) hasInverse(r *entities.Relation) bool {
	for _, rid := range g.byPerson[r.TargetID] {
		if rid != r.ID && r.IsInverseOf(g.relations[rid]) {
			return true
		}
	}
	return false
}

func removeID[T comparable](s []T, id T) []T {
	for i := range s {
		if s[i] == id {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
