// Package storage persists time-clock events between runs.
//
// Stores only hold events. They never compute worked time; callers load a
// slice of events and hand it to the worktime package.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tiliavir/trivial-time-clock/internal/config"
	"github.com/Tiliavir/trivial-time-clock/internal/model"
)

// ErrDuplicateID is returned when an event with the same ID is already stored.
var ErrDuplicateID = errors.New("duplicate event id")

// Store is an append-only event collection with a bulk clear.
type Store interface {
	// Append adds a new event. Events are never updated in place.
	Append(ctx context.Context, e model.Event) error
	// List returns every stored event in no particular order.
	List(ctx context.Context) ([]model.Event, error)
	// ListRange returns the events whose local date lies in [from, to].
	ListRange(ctx context.Context, from, to time.Time) ([]model.Event, error)
	// Clear removes every event.
	Clear(ctx context.Context) error
	// WatchRoot is the directory whose changes signal new data.
	WatchRoot() string
	Close() error
}

// Open returns the store selected by cfg.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return OpenSQLite(cfg.Path)
	case config.BackendFile, "":
		return NewFileStore(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
