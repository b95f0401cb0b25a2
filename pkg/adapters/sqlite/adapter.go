// Package sqlite provides the SQLite adapter, backed by the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/leapstack-labs/leapbridge/pkg/adapter"
	"github.com/leapstack-labs/leapbridge/pkg/core"
	"github.com/leapstack-labs/leapbridge/pkg/dialect"
)

func init() {
	adapter.Register(core.EngineSQLite, func(logger *slog.Logger) adapter.Adapter {
		return New(logger)
	})
}

// Adapter implements adapter.Adapter for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a SQLite adapter. If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// Connect opens the database file at cfg.Path (":memory:" is accepted).
func (a *Adapter) Connect(ctx context.Context, cfg core.ConnectionConfig) error {
	if cfg.Path == "" {
		return fmt.Errorf("sqlite connection requires a file path")
	}

	a.Logger.Debug("opening sqlite database", slog.String("path", cfg.Path))

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}
	a.ConfigurePool(db)

	ctx, cancel := context.WithTimeout(ctx, adapter.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping sqlite database: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// Dialect returns the SQLite syntax descriptor.
func (a *Adapter) Dialect() dialect.Dialect {
	return dialect.Get(core.EngineSQLite)
}

var _ adapter.Adapter = (*Adapter)(nil)
