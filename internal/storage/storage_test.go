package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-time-clock/internal/config"
	"github.com/Tiliavir/trivial-time-clock/internal/model"
	"github.com/Tiliavir/trivial-time-clock/internal/storage"
)

var brt = time.FixedZone("BRT", -3*3600)

func event(id string, kind model.Kind, ts time.Time) model.Event {
	return model.Event{ID: id, Timestamp: ts, Kind: kind}
}

func ids(events []model.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	sort.Strings(out)
	return out
}

// backends runs fn against a fresh store of every kind.
func backends(t *testing.T, fn func(t *testing.T, s storage.Store)) {
	t.Run("file", func(t *testing.T) {
		fn(t, storage.NewFileStore(t.TempDir()))
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := storage.OpenSQLite(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		fn(t, s)
	})
}

func TestStoreAppendAndList(t *testing.T) {
	backends(t, func(t *testing.T, s storage.Store) {
		ctx := context.Background()
		in := event("a", model.KindClockIn, time.Date(2026, 3, 2, 8, 0, 0, 0, brt))
		out := event("b", model.KindClockOut, time.Date(2026, 3, 2, 17, 0, 0, 0, brt))
		other := event("c", model.KindRemoteStart, time.Date(2026, 4, 1, 9, 0, 0, 0, brt))

		for _, e := range []model.Event{in, out, other} {
			require.NoError(t, s.Append(ctx, e))
		}

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, ids(all))

		for _, e := range all {
			if e.ID == "a" {
				assert.True(t, e.Timestamp.Equal(in.Timestamp))
				assert.Equal(t, 8, e.Timestamp.Hour(), "local wall clock is preserved")
				assert.Equal(t, model.KindClockIn, e.Kind)
			}
		}
	})
}

func TestStoreEmpty(t *testing.T) {
	backends(t, func(t *testing.T, s storage.Store) {
		all, err := s.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestStoreListRange(t *testing.T) {
	backends(t, func(t *testing.T, s storage.Store) {
		ctx := context.Background()
		require.NoError(t, s.Append(ctx, event("mar1", model.KindClockIn, time.Date(2026, 3, 1, 23, 0, 0, 0, brt))))
		require.NoError(t, s.Append(ctx, event("mar2", model.KindClockIn, time.Date(2026, 3, 2, 8, 0, 0, 0, brt))))
		require.NoError(t, s.Append(ctx, event("mar3", model.KindClockOut, time.Date(2026, 3, 3, 0, 30, 0, 0, brt))))

		from := time.Date(2026, 3, 2, 0, 0, 0, 0, brt)
		to := time.Date(2026, 3, 3, 23, 59, 59, 0, brt)
		got, err := s.ListRange(ctx, from, to)
		require.NoError(t, err)
		assert.Equal(t, []string{"mar2", "mar3"}, ids(got))
	})
}

func TestStoreDuplicateID(t *testing.T) {
	backends(t, func(t *testing.T, s storage.Store) {
		ctx := context.Background()
		e := event("dup", model.KindClockIn, time.Date(2026, 3, 2, 8, 0, 0, 0, brt))
		require.NoError(t, s.Append(ctx, e))
		assert.ErrorIs(t, s.Append(ctx, e), storage.ErrDuplicateID)
	})
}

func TestStoreClear(t *testing.T) {
	backends(t, func(t *testing.T, s storage.Store) {
		ctx := context.Background()
		require.NoError(t, s.Append(ctx, event("a", model.KindClockIn, time.Date(2026, 3, 2, 8, 0, 0, 0, brt))))
		require.NoError(t, s.Append(ctx, event("b", model.KindClockIn, time.Date(2025, 12, 2, 8, 0, 0, 0, brt))))

		require.NoError(t, s.Clear(ctx))
		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		// Appending after a clear works as on a fresh store.
		require.NoError(t, s.Append(ctx, event("c", model.KindClockIn, time.Date(2026, 3, 2, 9, 0, 0, 0, brt))))
		all, err = s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, ids(all))
	})
}

func TestLoadDayNotExist(t *testing.T) {
	s := storage.NewFileStore(t.TempDir())
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	df, err := s.LoadDay(day)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-27", df.Date)
	assert.Empty(t, df.Events)
}

func TestFileStoreLayout(t *testing.T) {
	base := t.TempDir()
	s := storage.NewFileStore(base)
	ts := time.Date(2026, 2, 27, 8, 32, 10, 0, time.UTC)
	require.NoError(t, s.Append(context.Background(), event("e1", model.KindClockIn, ts)))

	data, err := os.ReadFile(filepath.Join(base, "2026", "02", "27.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date": "2026-02-27"`)
	assert.Contains(t, string(data), `"kind": "CLOCK_IN"`)
	assert.Contains(t, string(data), `"label": "Clock in"`)
}

func TestFileStoreCorruptDayIsBackedUp(t *testing.T) {
	base := t.TempDir()
	s := storage.NewFileStore(base)
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

	// Write corrupt JSON directly to the path.
	dir := filepath.Join(base, "2026", "02")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	path := filepath.Join(dir, "27.json")
	require.NoError(t, os.WriteFile(path, []byte("{bad json"), 0o600))

	_, err := s.LoadDay(day)
	require.Error(t, err)

	// Backup file should exist.
	_, statErr := os.Stat(path + ".corrupt")
	assert.NoError(t, statErr, "expected backup file to exist after corrupt JSON")
}

func TestFileStoreListIgnoresForeignFiles(t *testing.T) {
	base := t.TempDir()
	s := storage.NewFileStore(base)
	require.NoError(t, s.Append(context.Background(), event("e1", model.KindClockIn, time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC))))
	require.NoError(t, os.WriteFile(filepath.Join(base, "notes.json"), []byte("{bad"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(base, "2026", "02", "27.json.corrupt"), []byte("{bad"), 0o600))

	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, ids(all))
}

func TestFileStoreMissingBase(t *testing.T) {
	s := storage.NewFileStore(filepath.Join(t.TempDir(), "missing"))
	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NoError(t, s.Clear(context.Background()))
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "clock.db")
	s, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), event("p1", model.KindRemoteEnd, time.Date(2026, 3, 2, 18, 0, 0, 0, brt))))
	require.NoError(t, s.Close())

	reopened, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	all, err := reopened.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.KindRemoteEnd, all[0].Kind)
	assert.Equal(t, filepath.Dir(path), reopened.WatchRoot())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := storage.Open(config.StorageConfig{Backend: config.BackendFile, Path: dir})
	require.NoError(t, err)
	assert.IsType(t, &storage.FileStore{}, s)
	assert.Equal(t, dir, s.WatchRoot())

	s, err = storage.Open(config.StorageConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "clock.db")})
	require.NoError(t, err)
	assert.IsType(t, &storage.SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = storage.Open(config.StorageConfig{Backend: "redis"})
	assert.Error(t, err)
}
