// Package services holds pure domain computations over the family graph.
package services

import (
	"genealogy3d/domain/core/entities"
	"genealogy3d/domain/core/valueobjects"
	"genealogy3d/pkg/geom"
)

// LayoutConfig holds the spacing between rows, columns and depth layers.
type LayoutConfig struct {
	SpacingX float32 `koanf:"spacing_x" validate:"gt=0"`
	SpacingY float32 `koanf:"spacing_y" validate:"gt=0"`
	SpacingZ float32 `koanf:"spacing_z" validate:"gte=0"`
}

// DefaultLayoutConfig returns the standard spacing.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{SpacingX: 8, SpacingY: 6, SpacingZ: 5}
}

// Layout assigns a position to every person. Persons are grouped into rows
// by generation, keeping their input order within a row; each row is
// centered on x = 0 and sits at y = -generation * SpacingY. Depth alternates
// between +SpacingZ and -SpacingZ by overall index to reduce overlap.
// The same input order always yields the same positions.
func Layout(persons []*entities.Person, cfg LayoutConfig) map[valueobjects.PersonID]geom.Vec3 {
	sizes := make(map[int]int)
	for _, p := range persons {
		sizes[p.Generation]++
	}

	seen := make(map[int]int, len(sizes))
	positions := make(map[valueobjects.PersonID]geom.Vec3, len(persons))
	for i, p := range persons {
		gen := p.Generation
		idx := seen[gen]
		seen[gen]++

		center := float32(sizes[gen]-1) / 2
		z := cfg.SpacingZ
		if i%2 == 1 {
			z = -cfg.SpacingZ
		}
		positions[p.ID] = geom.V3(
			(float32(idx)-center)*cfg.SpacingX,
			-float32(gen)*cfg.SpacingY,
			z,
		)
	}
	return positions
}
