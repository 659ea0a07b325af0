// Package fixture reads and writes families as YAML documents.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"genealogy3d/domain/core/aggregates"
	"genealogy3d/domain/core/entities"
	"genealogy3d/domain/core/valueobjects"
	apperrors "genealogy3d/pkg/errors"
	"genealogy3d/pkg/utils"
)

// Document is the on-disk shape of a family.
type Document struct {
	Persons []PersonDoc `yaml:"persons" validate:"dive"`
}

// PersonDoc is one person with the relations they own.
type PersonDoc struct {
	ID            string        `yaml:"id" validate:"required"`
	FirstName     string        `yaml:"first_name" validate:"required,max=100"`
	LastName      string        `yaml:"last_name" validate:"required,max=100"`
	Generation    *int          `yaml:"generation,omitempty"`
	BirthName     string        `yaml:"birth_name,omitempty"`
	BirthDate     string        `yaml:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DeathDate     string        `yaml:"death_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BirthLocation string        `yaml:"birth_location,omitempty"`
	DeathLocation string        `yaml:"death_location,omitempty"`
	PhotoURL      string        `yaml:"photo_url,omitempty" validate:"omitempty,url"`
	Relations     []RelationDoc `yaml:"relations,omitempty" validate:"dive"`
}

// RelationDoc reads "target is the owner's <type>".
type RelationDoc struct {
	ID     string `yaml:"id,omitempty"`
	Target string `yaml:"target" validate:"required"`
	Type   string `yaml:"type" validate:"required,oneof=parent child sibling spouse"`
}

// Family is a decoded, validated fixture.
type Family struct {
	Persons   []*entities.Person
	Relations []*entities.Relation
}

// LoadFile reads and validates the fixture at path.
func LoadFile(path string) (*Family, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}
	fam, err := Parse(data)
	if err != nil {
		return nil, apperrors.Wrapf(err, "fixture %s", path)
	}
	return fam, nil
}

// Parse decodes a fixture and checks that it forms a valid family graph:
// unique ids, existing endpoints and an inverse for every relation. A
// missing generation defaults to 0.
func Parse(data []byte) (*Family, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("malformed fixture: %v", err))
	}
	if err := utils.ValidateStruct(doc); err != nil {
		return nil, err
	}

	fam := &Family{}
	for _, pd := range doc.Persons {
		gen := 0
		if pd.Generation != nil {
			gen = *pd.Generation
		}
		p, err := entities.NewPerson(valueobjects.PersonID(pd.ID), entities.PersonFields{
			FirstName:     pd.FirstName,
			LastName:      pd.LastName,
			Generation:    gen,
			BirthName:     pd.BirthName,
			BirthDate:     pd.BirthDate,
			DeathDate:     pd.DeathDate,
			BirthLocation: pd.BirthLocation,
			DeathLocation: pd.DeathLocation,
			PhotoURL:      pd.PhotoURL,
		})
		if err != nil {
			return nil, err
		}
		fam.Persons = append(fam.Persons, p)

		for i, rd := range pd.Relations {
			id := rd.ID
			if id == "" {
				id = fmt.Sprintf("%s:%d", pd.ID, i)
			}
			r, err := entities.NewRelation(p.ID, valueobjects.PersonID(rd.Target), valueobjects.RelationType(rd.Type))
			if err != nil {
				return nil, err
			}
			r.ID = valueobjects.RelationID(id)
			fam.Relations = append(fam.Relations, r)
		}
	}

	if _, err := aggregates.ReconstructFamilyGraph(fam.Persons, fam.Relations); err != nil {
		return nil, err
	}
	return fam, nil
}

// Encode writes persons and their owned relations back to YAML.
func Encode(persons []*entities.Person, relations []*entities.Relation) ([]byte, error) {
	owned := make(map[valueobjects.PersonID][]RelationDoc)
	for _, r := range relations {
		owned[r.OwnerID] = append(owned[r.OwnerID], RelationDoc{
			ID:     r.ID.String(),
			Target: r.TargetID.String(),
			Type:   r.Type.String(),
		})
	}

	doc := Document{Persons: make([]PersonDoc, 0, len(persons))}
	for _, p := range persons {
		gen := p.Generation
		doc.Persons = append(doc.Persons, PersonDoc{
			ID:            p.ID.String(),
			FirstName:     p.FirstName,
			LastName:      p.LastName,
			Generation:    &gen,
			BirthName:     p.BirthName,
			BirthDate:     p.BirthDate,
			DeathDate:     p.DeathDate,
			BirthLocation: p.BirthLocation,
			DeathLocation: p.DeathLocation,
			PhotoURL:      p.PhotoURL,
			Relations:     owned[p.ID],
		})
	}
	return yaml.Marshal(doc)
}
