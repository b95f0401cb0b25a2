// Package mysql provides the MySQL adapter, backed by go-sql-driver through
// database/sql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"

	"github.com/leapstack-labs/leapbridge/pkg/adapter"
	"github.com/leapstack-labs/leapbridge/pkg/core"
	"github.com/leapstack-labs/leapbridge/pkg/dialect"
)

func init() {
	adapter.Register(core.EngineMySQL, func(logger *slog.Logger) adapter.Adapter {
		return New(logger)
	})
}

// Adapter implements adapter.Adapter for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a MySQL adapter. If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// Connect establishes the pooled connection.
func (a *Adapter) Connect(ctx context.Context, cfg core.ConnectionConfig) error {
	dsn := buildDSN(cfg)

	a.Logger.Debug("connecting to mysql",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database))

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("open mysql connection: %w", err)
	}
	a.ConfigurePool(db)

	ctx, cancel := context.WithTimeout(ctx, adapter.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping mysql: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// Dialect returns the MySQL syntax descriptor.
func (a *Adapter) Dialect() dialect.Dialect {
	return dialect.Get(core.EngineMySQL)
}

// buildDSN constructs the DSN through the driver's own config type.
func buildDSN(cfg core.ConnectionConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	conf := mysql.NewConfig()
	conf.Net = "tcp"
	conf.Addr = fmt.Sprintf("%s:%d", host, port)
	conf.DBName = cfg.Database
	conf.User = cfg.Username
	conf.Passwd = cfg.Password
	conf.ParseTime = true
	conf.Timeout = adapter.ConnectTimeout
	if cfg.SSL {
		conf.TLSConfig = "true"
	}
	return conf.FormatDSN()
}

var _ adapter.Adapter = (*Adapter)(nil)
