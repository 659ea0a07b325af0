package commands

import (
	"strings"

	"genealogy3d/domain/core/entities"
	apperrors "genealogy3d/pkg/errors"
	"genealogy3d/pkg/utils"
)

// UpdatePersonCommand represents a partial update of one person.
type UpdatePersonCommand struct {
	PersonID string               `json:"personId" validate:"required"`
	Patch    entities.PersonPatch `json:"patch"`
}

// Normalize trims the id and every text field of the patch. The caller's
// strings are left untouched.
func (c *UpdatePersonCommand) Normalize() {
	c.PersonID = strings.TrimSpace(c.PersonID)
	for _, f := range []**string{
		&c.Patch.FirstName,
		&c.Patch.LastName,
		&c.Patch.BirthName,
		&c.Patch.BirthDate,
		&c.Patch.DeathDate,
		&c.Patch.BirthLocation,
		&c.Patch.DeathLocation,
		&c.Patch.PhotoURL,
	} {
		if *f != nil {
			v := strings.TrimSpace(**f)
			*f = &v
		}
	}
}

// Validate checks the id, the patch field rules and that the patch changes
// something. Names may be changed but never cleared.
func (c *UpdatePersonCommand) Validate() error {
	c.Normalize()
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if c.Patch.IsEmpty() {
		return apperrors.NewValidationError("patch changes nothing")
	}
	if c.Patch.FirstName != nil && *c.Patch.FirstName == "" {
		return apperrors.NewValidationError("firstname is required")
	}
	if c.Patch.LastName != nil && *c.Patch.LastName == "" {
		return apperrors.NewValidationError("lastname is required")
	}
	return nil
}
