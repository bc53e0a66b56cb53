package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-time-clock/internal/model"
	"github.com/Tiliavir/trivial-time-clock/internal/timecalc"
)

// FileStore keeps one JSON file per local calendar day under
// <base>/YYYY/MM/DD.json.
type FileStore struct {
	base string
}

// NewFileStore returns a FileStore rooted at base. Directories are created
// lazily on first write.
func NewFileStore(base string) *FileStore {
	return &FileStore{base: base}
}

// dayFilePath returns the path for the given date's JSON file.
func dayFilePath(base string, t time.Time) string {
	return filepath.Join(base, t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// LoadDay loads the DayFile for the given date. Returns an empty DayFile if not found.
func (s *FileStore) LoadDay(t time.Time) (model.DayFile, error) {
	return loadDayFile(dayFilePath(s.base, t), timecalc.DateKey(t))
}

func loadDayFile(path, date string) (model.DayFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.DayFile{Date: date, Events: []model.Event{}}, nil
	}
	if err != nil {
		return model.DayFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var df model.DayFile
	if err := json.Unmarshal(data, &df); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.DayFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return df, nil
}

// SaveDay atomically writes a DayFile for the given date.
func (s *FileStore) SaveDay(t time.Time, df model.DayFile) error {
	path := dayFilePath(s.base, t)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Append adds e to the file of its local calendar day.
func (s *FileStore) Append(_ context.Context, e model.Event) error {
	df, err := s.LoadDay(e.Timestamp)
	if err != nil {
		return err
	}
	for _, existing := range df.Events {
		if existing.ID == e.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
	}
	df.Events = append(df.Events, e)
	return s.SaveDay(e.Timestamp, df)
}

// ListRange loads all events in [from, to] inclusive, one day file at a time.
func (s *FileStore) ListRange(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	var events []model.Event
	for d := timecalc.StartOfDay(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		df, err := s.LoadDay(d)
		if err != nil {
			return nil, err
		}
		events = append(events, df.Events...)
	}
	return events, nil
}

// List walks the whole data tree and returns every stored event.
func (s *FileStore) List(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := s.walkDayFiles(func(path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		df, err := loadDayFile(path, "")
		if err != nil {
			return err
		}
		events = append(events, df.Events...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Clear removes every day file. Corrupt backups are left in place.
func (s *FileStore) Clear(_ context.Context) error {
	return s.walkDayFiles(func(path string) error {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("storage error removing %s: %w", path, err)
		}
		return nil
	})
}

// WatchRoot returns the data directory.
func (s *FileStore) WatchRoot() string {
	return s.base
}

// Close is a no-op; files are not held open.
func (s *FileStore) Close() error {
	return nil
}

// walkDayFiles calls fn for every YYYY/MM/DD.json file under the base directory.
func (s *FileStore) walkDayFiles(fn func(path string) error) error {
	err := filepath.WalkDir(s.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.base {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !isDayFile(s.base, path) {
			return nil
		}
		return fn(path)
	})
	if err != nil {
		return fmt.Errorf("storage error walking %s: %w", s.base, err)
	}
	return nil
}

// isDayFile reports whether path has the YYYY/MM/DD.json shape relative to base.
func isDayFile(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 3 || !strings.HasSuffix(parts[2], ".json") {
		return false
	}
	_, err = time.Parse("2006/01/02", parts[0]+"/"+parts[1]+"/"+strings.TrimSuffix(parts[2], ".json"))
	return err == nil
}
