package entities

import (
	"genealogy3d/domain/core/valueobjects"
	apperrors "genealogy3d/pkg/errors"
)

// Relation is one directed row (Owner, Target, Type). (A, B, child) reads
// "B is A's child". Every stored relation has an inverse row.
type Relation struct {
	ID       valueobjects.RelationID   `json:"id" yaml:"id"`
	OwnerID  valueobjects.PersonID     `json:"ownerId" yaml:"owner_id"`
	TargetID valueobjects.PersonID     `json:"targetId" yaml:"target_id"`
	Type     valueobjects.RelationType `json:"type" yaml:"type"`
}

// NewRelation creates a directed relation row with a fresh id.
func NewRelation(owner, target valueobjects.PersonID, t valueobjects.RelationType) (*Relation, error) {
	if owner.IsZero() || target.IsZero() {
		return nil, apperrors.NewValidationError("relation endpoints cannot be empty")
	}
	if owner == target {
		return nil, apperrors.NewValidationError("a person cannot be related to themselves")
	}
	if !t.Valid() {
		return nil, apperrors.NewValidationError("unknown relation type " + t.String())
	}
	return &Relation{
		ID:       valueobjects.NewRelationID(),
		OwnerID:  owner,
		TargetID: target,
		Type:     t,
	}, nil
}

// Inverse returns the reverse row with a fresh id.
func (r *Relation) Inverse() *Relation {
	return &Relation{
		ID:       valueobjects.NewRelationID(),
		OwnerID:  r.TargetID,
		TargetID: r.OwnerID,
		Type:     valueobjects.InverseOf(r.Type),
	}
}

// IsInverseOf reports whether o is the reverse row of r.
func (r *Relation) IsInverseOf(o *Relation) bool {
	return r.OwnerID == o.TargetID && r.TargetID == o.OwnerID &&
		o.Type == valueobjects.InverseOf(r.Type)
}

// Pair is the unordered endpoint key shared with the inverse row.
func (r *Relation) Pair() valueobjects.PairKey {
	return valueobjects.NewPairKey(r.OwnerID, r.TargetID)
}

// Touches reports whether id is either endpoint.
func (r *Relation) Touches(id valueobjects.PersonID) bool {
	return r.OwnerID == id || r.TargetID == id
}
