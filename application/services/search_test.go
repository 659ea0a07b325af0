package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"genealogy3d/domain/core/entities"
)

func TestSearch(t *testing.T) {
	persons := []*entities.Person{
		{ID: "1", FirstName: "Jean", LastName: "Dupont"},
		{ID: "2", FirstName: "Marie", LastName: "Dupont"},
		{ID: "3", FirstName: "Jeanne", LastName: "Martin"},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"jean", []string{"1", "3"}},
		{"DUPONT", []string{"1", "2"}},
		{"marie dup", []string{"2"}},
		{"  ", nil},
		{"zoe", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got []string
			for _, p := range Search(persons, tt.query) {
				got = append(got, p.ID.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShowSearch(t *testing.T) {
	assert.False(t, ShowSearch(9))
	assert.True(t, ShowSearch(10))
}
