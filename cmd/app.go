package cmd

import (
	"context"
	"fmt"

	"event-sync/core/config"
	"event-sync/core/counter"
	"event-sync/core/database"
	"event-sync/core/events"
	"event-sync/core/metrics"
	"event-sync/core/observer"
	"event-sync/core/propagation"
	"event-sync/core/remote"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app wires the bus, the synchronizer and the remote store for one process.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	names    []events.Name
	bus      *events.Bus
	remote   *remote.DelayedStore
	sync     *propagation.Synchronizer
	observer *observer.Observer
	db       *gorm.DB
}

// newBackend returns the backend selected by cfg.Remote.Backend. The database
// backend is migrated and reset, since local counts start at zero.
func newBackend(ctx context.Context, cfg *config.Config, logg *zap.Logger) (remote.Backend, *gorm.DB, error) {
	switch cfg.Remote.Backend {
	case remote.BackendMemory:
		return remote.NewMemoryBackend(), nil, nil
	case remote.BackendDatabase:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		backend := remote.NewGormBackend(db)
		if err := backend.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		if err := backend.Reset(ctx); err != nil {
			return nil, nil, err
		}
		logg.Info("Using database backend",
			zap.String("driver", cfg.Database.Driver),
			zap.String("database", cfg.Database.Name))
		return backend, db, nil
	default:
		return nil, nil, fmt.Errorf("unsupported remote backend: %s", cfg.Remote.Backend)
	}
}

func newApp(ctx context.Context, cfg *config.Config, logg *zap.Logger) (*app, error) {
	backend, db, err := newBackend(ctx, cfg, logg)
	if err != nil {
		return nil, err
	}

	names := cfg.Source.EventNames()
	bus := events.NewBus()
	rs := remote.NewDelayedStore(backend, remote.NewRandomPolicy(cfg.Remote))

	sync := propagation.New(counter.NewMemoryStore(), rs,
		propagation.WithConfig(cfg.Sync),
		propagation.WithLogger(logg.Named("sync")),
		propagation.WithMetrics(metrics.NewRecorder(logg)),
		propagation.WithOnExhausted(func(err *propagation.ExhaustedError) {
			logg.Warn("Remote count may be inconsistent until redriven",
				zap.String("event", string(err.Name)),
				zap.Int64("delta", err.Delta))
		}),
	)
	sync.Attach(bus, names...)

	return &app{
		cfg:      cfg,
		logger:   logg,
		names:    names,
		bus:      bus,
		remote:   rs,
		sync:     sync,
		observer: observer.New(bus, sync, rs, names),
		db:       db,
	}, nil
}

// Close stops propagation and releases the database.
func (a *app) Close() {
	_ = a.sync.Close()
	if a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
