package entities

import (
	"strings"

	"genealogy3d/domain/core/valueobjects"
	apperrors "genealogy3d/pkg/errors"
)

// Person is one member of the family graph. Generation is a layout
// coordinate: 0 for the root, positive for descendants, negative for
// ancestors.
type Person struct {
	ID            valueobjects.PersonID `json:"id" yaml:"id"`
	FirstName     string                `json:"firstName" yaml:"first_name"`
	LastName      string                `json:"lastName" yaml:"last_name"`
	Generation    int                   `json:"generation" yaml:"generation"`
	BirthName     string                `json:"birthName,omitempty" yaml:"birth_name,omitempty"`
	BirthDate     string                `json:"birthDate,omitempty" yaml:"birth_date,omitempty"`
	DeathDate     string                `json:"deathDate,omitempty" yaml:"death_date,omitempty"`
	BirthLocation string                `json:"birthLocation,omitempty" yaml:"birth_location,omitempty"`
	DeathLocation string                `json:"deathLocation,omitempty" yaml:"death_location,omitempty"`
	PhotoURL      string                `json:"photoUrl,omitempty" yaml:"photo_url,omitempty"`
}

// PersonFields is the payload for creating a person. The backend assigns
// the id.
type PersonFields struct {
	FirstName     string `json:"firstName" validate:"required,max=100"`
	LastName      string `json:"lastName" validate:"required,max=100"`
	Generation    int    `json:"generation"`
	BirthName     string `json:"birthName,omitempty" validate:"max=100"`
	BirthDate     string `json:"birthDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DeathDate     string `json:"deathDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BirthLocation string `json:"birthLocation,omitempty" validate:"max=200"`
	DeathLocation string `json:"deathLocation,omitempty" validate:"max=200"`
	PhotoURL      string `json:"photoUrl,omitempty" validate:"omitempty,url"`
}

// PersonPatch is a partial update; nil fields are left unchanged.
type PersonPatch struct {
	FirstName     *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName      *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Generation    *int    `json:"generation,omitempty"`
	BirthName     *string `json:"birthName,omitempty" validate:"omitempty,max=100"`
	BirthDate     *string `json:"birthDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DeathDate     *string `json:"deathDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BirthLocation *string `json:"birthLocation,omitempty" validate:"omitempty,max=200"`
	DeathLocation *string `json:"deathLocation,omitempty" validate:"omitempty,max=200"`
	PhotoURL      *string `json:"photoUrl,omitempty" validate:"omitempty,url"`
}

// IsEmpty reports whether the patch changes nothing.
func (p PersonPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Generation == nil &&
		p.BirthName == nil && p.BirthDate == nil && p.DeathDate == nil &&
		p.BirthLocation == nil && p.DeathLocation == nil && p.PhotoURL == nil
}

// NewPerson builds a person from creation fields under the given id.
func NewPerson(id valueobjects.PersonID, f PersonFields) (*Person, error) {
	if id.IsZero() {
		return nil, apperrors.NewValidationError("person ID cannot be empty")
	}
	p := &Person{
		ID:            id,
		FirstName:     strings.TrimSpace(f.FirstName),
		LastName:      strings.TrimSpace(f.LastName),
		Generation:    f.Generation,
		BirthName:     strings.TrimSpace(f.BirthName),
		BirthDate:     f.BirthDate,
		DeathDate:     f.DeathDate,
		BirthLocation: strings.TrimSpace(f.BirthLocation),
		DeathLocation: strings.TrimSpace(f.DeathLocation),
		PhotoURL:      f.PhotoURL,
	}
	if p.FirstName == "" || p.LastName == "" {
		return nil, apperrors.NewValidationError("first and last name are required")
	}
	return p, nil
}

// Apply returns a copy of the person with the patch applied.
func (p *Person) Apply(patch PersonPatch) *Person {
	next := *p
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&next.FirstName, patch.FirstName)
	set(&next.LastName, patch.LastName)
	set(&next.BirthName, patch.BirthName)
	set(&next.BirthDate, patch.BirthDate)
	set(&next.DeathDate, patch.DeathDate)
	set(&next.BirthLocation, patch.BirthLocation)
	set(&next.DeathLocation, patch.DeathLocation)
	set(&next.PhotoURL, patch.PhotoURL)
	if patch.Generation != nil {
		next.Generation = *patch.Generation
	}
	return &next
}

// FullName is "First Last", trimmed.
func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// DisplayName is the hover label: the full name, or "Unknown" when blank.
func (p *Person) DisplayName() string {
	if name := p.FullName(); name != "" {
		return name
	}
	return "Unknown"
}

// Clone returns a shallow copy.
func (p *Person) Clone() *Person {
	c := *p
	return &c
}
