package commands

import (
	"strings"

	"genealogy3d/domain/core/entities"
	"genealogy3d/domain/core/valueobjects"
	apperrors "genealogy3d/pkg/errors"
	"genealogy3d/pkg/utils"
)

// AddMemberCommand represents the add-member form. ReferenceID and Label
// are required unless the graph is still empty.
type AddMemberCommand struct {
	FirstName     string `json:"firstName" validate:"required,max=100"`
	LastName      string `json:"lastName" validate:"required,max=100"`
	ReferenceID   string `json:"referenceId"`
	Label         string `json:"label"`
	BirthName     string `json:"birthName,omitempty" validate:"max=100"`
	BirthDate     string `json:"birthDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DeathDate     string `json:"deathDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BirthLocation string `json:"birthLocation,omitempty" validate:"max=200"`
	DeathLocation string `json:"deathLocation,omitempty" validate:"max=200"`
	PhotoURL      string `json:"photoUrl,omitempty" validate:"omitempty,url"`
}

// Normalize trims the free-text fields in place.
func (c *AddMemberCommand) Normalize() {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.ReferenceID = strings.TrimSpace(c.ReferenceID)
	c.Label = strings.TrimSpace(c.Label)
	c.BirthName = strings.TrimSpace(c.BirthName)
	c.BirthLocation = strings.TrimSpace(c.BirthLocation)
	c.DeathLocation = strings.TrimSpace(c.DeathLocation)
}

// Validate checks the field rules. firstMember relaxes the reference and
// label requirement.
func (c *AddMemberCommand) Validate(firstMember bool) error {
	c.Normalize()
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if firstMember {
		return nil
	}
	if c.ReferenceID == "" {
		return apperrors.NewValidationError("a reference person is required")
	}
	if _, err := valueobjects.ParseRelationLabel(c.Label); err != nil {
		return err
	}
	return nil
}

// Fields returns the creation payload for the given generation.
func (c *AddMemberCommand) Fields(generation int) entities.PersonFields {
	return entities.PersonFields{
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Generation:    generation,
		BirthName:     c.BirthName,
		BirthDate:     c.BirthDate,
		DeathDate:     c.DeathDate,
		BirthLocation: c.BirthLocation,
		DeathLocation: c.DeathLocation,
		PhotoURL:      c.PhotoURL,
	}
}
