package watch

import (
	"context"

	"genealogy3d/infrastructure/persistence/fixture"
	"genealogy3d/infrastructure/persistence/memory"
)

// ReloadTask returns a task that re-reads the fixture at path into backend
// and then calls reload. An invalid fixture leaves the backend untouched.
func ReloadTask(path string, backend *memory.Backend, reload func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		fam, err := fixture.LoadFile(path)
		if err != nil {
			return err
		}
		backend.Seed(fam.Persons, fam.Relations)
		return reload(ctx)
	}
}
