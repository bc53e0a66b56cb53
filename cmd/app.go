package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Tiliavir/trivial-time-clock/internal/config"
	"github.com/Tiliavir/trivial-time-clock/internal/model"
	"github.com/Tiliavir/trivial-time-clock/internal/storage"
	"github.com/Tiliavir/trivial-time-clock/internal/timecalc"
)

// now is replaced in tests.
var now = time.Now

// app bundles what every command needs: the loaded config and an open store.
type app struct {
	cfg   config.Config
	store storage.Store
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, storageError(fmt.Errorf("opening %s store: %w", cfg.Storage.Backend, err))
	}
	return &app{cfg: cfg, store: store}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) allEvents(ctx context.Context) ([]model.Event, error) {
	events, err := a.store.List(ctx)
	return events, storageError(err)
}

func (a *app) rangeEvents(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	events, err := a.store.ListRange(ctx, from, to)
	return events, storageError(err)
}

func (a *app) todayEvents(ctx context.Context, t time.Time) ([]model.Event, error) {
	return a.rangeEvents(ctx, timecalc.StartOfDay(t), timecalc.EndOfDay(t))
}
