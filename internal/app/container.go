// Package app wires the application's collaborators together for the CLI
// and TUI entry points.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/duetick/duetick/internal/background"
	"github.com/duetick/duetick/internal/config"
	"github.com/duetick/duetick/internal/logging"
	"github.com/duetick/duetick/internal/notify"
	"github.com/duetick/duetick/internal/storage"
	"github.com/duetick/duetick/internal/store"
)

// Container holds the built application graph.
type Container struct {
	Cfg       config.Config
	Log       *logging.Logger
	Engine    *notify.Engine
	Adapter   storage.Store
	Tasks     *store.Store
	Refresher *background.Refresher
	Notifier  notify.DesktopNotifier

	sqlite *storage.SQLiteStore
}

// New builds the container from config: persistence adapter per backend,
// reminder engine, task store, and background refresher.
func New(cfg config.Config) (*Container, error) {
	log := logging.New(cfg.LogPath(), logging.ParseLevel(cfg.LogLevel))

	var (
		adapter storage.Store
		sqlite  *storage.SQLiteStore
	)
	switch cfg.DataBackend {
	case config.BackendSQLite:
		s, err := storage.OpenSQLite(cfg.DatabasePath())
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		adapter, sqlite = s, s
	default:
		s, err := storage.NewFileStore(cfg.TasksPath())
		if err != nil {
			return nil, fmt.Errorf("open json backend: %w", err)
		}
		adapter = s
	}

	engine := notify.NewEngine(cfg.SchedulerBuffer)
	tasks := store.New(adapter, engine, log)
	interval := time.Duration(cfg.RefreshIntervalMinutes) * time.Minute
	refresher := background.New(adapter, engine, log, interval)

	var notifier notify.DesktopNotifier = notify.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = notify.ExecDesktopNotifier{}
	}

	return &Container{
		Cfg:       cfg,
		Log:       log,
		Engine:    engine,
		Adapter:   adapter,
		Tasks:     tasks,
		Refresher: refresher,
		Notifier:  notifier,
		sqlite:    sqlite,
	}, nil
}

// Start launches the reminder engine and the background refresher.
func (c *Container) Start(ctx context.Context) {
	c.Engine.Start()
	go c.Refresher.Run(ctx)
}

// Close stops the engine and releases resources.
func (c *Container) Close() {
	c.Engine.Stop()
	if c.sqlite != nil {
		_ = c.sqlite.Close()
	}
	_ = c.Log.Close()
}
