package events

import (
	"time"

	"genealogy3d/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

const (
	TypePersonAdded       = "person.added"
	TypePersonUpdated     = "person.updated"
	TypePersonRemoved     = "person.removed"
	TypeRelationPairAdded = "relation.pair_added"
	TypeRelationRemoved   = "relation.removed"
)

// Person Events

// PersonAdded is raised when a person joins the family graph
type PersonAdded struct {
	BaseEvent
	PersonID   valueobjects.PersonID `json:"person_id"`
	Generation int                   `json:"generation"`
}

func NewPersonAdded(id valueobjects.PersonID, generation int, at time.Time) PersonAdded {
	return PersonAdded{
		BaseEvent:  BaseEvent{AggregateID: id.String(), EventType: TypePersonAdded, Timestamp: at},
		PersonID:   id,
		Generation: generation,
	}
}

// PersonUpdated is raised when a person's fields change
type PersonUpdated struct {
	BaseEvent
	PersonID valueobjects.PersonID `json:"person_id"`
}

func NewPersonUpdated(id valueobjects.PersonID, at time.Time) PersonUpdated {
	return PersonUpdated{
		BaseEvent: BaseEvent{AggregateID: id.String(), EventType: TypePersonUpdated, Timestamp: at},
		PersonID:  id,
	}
}

// PersonRemoved is raised after a person and all their relations are removed
type PersonRemoved struct {
	BaseEvent
	PersonID         valueobjects.PersonID `json:"person_id"`
	RemovedRelations int                   `json:"removed_relations"`
}

func NewPersonRemoved(id valueobjects.PersonID, removedRelations int, at time.Time) PersonRemoved {
	return PersonRemoved{
		BaseEvent:        BaseEvent{AggregateID: id.String(), EventType: TypePersonRemoved, Timestamp: at},
		PersonID:         id,
		RemovedRelations: removedRelations,
	}
}

// Relation Events

// RelationPairAdded is raised when a relation and its inverse are stored
type RelationPairAdded struct {
	BaseEvent
	ForwardID valueobjects.RelationID   `json:"forward_id"`
	InverseID valueobjects.RelationID   `json:"inverse_id"`
	SourceID  valueobjects.PersonID     `json:"source_id"`
	TargetID  valueobjects.PersonID     `json:"target_id"`
	Type      valueobjects.RelationType `json:"type"`
}

func NewRelationPairAdded(forward, inverse valueobjects.RelationID, source, target valueobjects.PersonID, t valueobjects.RelationType, at time.Time) RelationPairAdded {
	return RelationPairAdded{
		BaseEvent: BaseEvent{AggregateID: source.String(), EventType: TypeRelationPairAdded, Timestamp: at},
		ForwardID: forward,
		InverseID: inverse,
		SourceID:  source,
		TargetID:  target,
		Type:      t,
	}
}

// RelationRemoved is raised when a relation row and its inverse are removed
type RelationRemoved struct {
	BaseEvent
	RelationID valueobjects.RelationID `json:"relation_id"`
	InverseID  valueobjects.RelationID `json:"inverse_id,omitempty"`
}

func NewRelationRemoved(id, inverse valueobjects.RelationID, at time.Time) RelationRemoved {
	return RelationRemoved{
		BaseEvent:  BaseEvent{AggregateID: id.String(), EventType: TypeRelationRemoved, Timestamp: at},
		RelationID: id,
		InverseID:  inverse,
	}
}
