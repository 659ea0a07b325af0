package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"genealogy3d/infrastructure/persistence/memory"
	apperrors "genealogy3d/pkg/errors"
)

const oneMember = "persons:\n  - {id: a, first_name: Ann, last_name: Root}\n"

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "family.yaml")
	require.NoError(t, os.WriteFile(path, []byte(oneMember), 0o644))

	w, err := NewWatcher(path, 100*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	var calls atomic.Int32
	w.OnChange(func(got string) {
		assert.Equal(t, path, got)
		calls.Add(1)
	})

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(oneMember), 0o644))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "family.yaml")
	require.NoError(t, os.WriteFile(path, []byte(oneMember), 0o644))

	w, err := NewWatcher(path, 20*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	var calls atomic.Int32
	w.OnChange(func(string) { calls.Add(1) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.yaml")
	w, err := NewWatcher(path, time.Millisecond, nil)
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestReloadTask(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.yaml")
	require.NoError(t, os.WriteFile(path, []byte(oneMember), 0o644))
	backend := memory.NewBackend()
	reloads := 0
	task := ReloadTask(path, backend, func(context.Context) error {
		reloads++
		return nil
	})

	require.NoError(t, task(context.Background()))
	persons, _ := backend.Len()
	assert.Equal(t, 1, persons)
	assert.Equal(t, 1, reloads)

	require.NoError(t, os.WriteFile(path, []byte("persons:\n  - {id: a}\n"), 0o644))
	err := task(context.Background())
	assert.True(t, apperrors.IsValidation(err))
	persons, _ = backend.Len()
	assert.Equal(t, 1, persons, "invalid fixture keeps the previous data")
	assert.Equal(t, 1, reloads)
}
