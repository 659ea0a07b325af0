package services

import (
	"strings"

	"genealogy3d/domain/core/entities"
)

// SearchThreshold is the family size from which the search box is offered.
const SearchThreshold = 10

// ShowSearch reports whether a family of n persons gets a search box.
func ShowSearch(n int) bool {
	return n >= SearchThreshold
}

// Search returns the persons whose "first last" name contains query,
// case-insensitively, in input order. A blank query matches nothing.
func Search(persons []*entities.Person, query string) []*entities.Person {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []*entities.Person
	for _, p := range persons {
		name := strings.ToLower(p.FirstName + " " + p.LastName)
		if strings.Contains(name, q) {
			out = append(out, p)
		}
	}
	return out
}
