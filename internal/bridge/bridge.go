// Package bridge is the exposed service surface: it composes the connection
// store, the query safety validator, schema discovery, dialect lookup, and
// the demo bootstrap behind one facade.
package bridge

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapbridge/internal/demo"
	"github.com/leapstack-labs/leapbridge/internal/store"
	"github.com/leapstack-labs/leapbridge/internal/validate"
	"github.com/leapstack-labs/leapbridge/pkg/adapter"
	"github.com/leapstack-labs/leapbridge/pkg/core"
	"github.com/leapstack-labs/leapbridge/pkg/dialect"
)

// maxLoggedSQL bounds blocked-statement text in log records.
const maxLoggedSQL = 120

// Service is the facade callers program against.
type Service struct {
	store   *store.Store
	history *store.History
	demo    *demo.Service
	logger  *slog.Logger
}

// New wires the facade. history and demoSvc may be nil when the caller does
// not need those features. If logger is nil, a discard logger is used.
func New(st *store.Store, history *store.History, demoSvc *demo.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: st, history: history, demo: demoSvc, logger: logger}
}

// CreateConnection registers a new connection after a reachability test.
func (s *Service) CreateConnection(ctx context.Context, cfg core.ConnectionConfig) (core.ConnectionConfig, error) {
	return s.store.Create(ctx, cfg)
}

// TestConnection probes a candidate configuration without persisting it.
func (s *Service) TestConnection(ctx context.Context, cfg core.ConnectionConfig) error {
	return adapter.Test(ctx, cfg, s.logger)
}

// GetConnection returns the persisted record for an identifier without
// opening a pool.
func (s *Service) GetConnection(id string) (core.ConnectionConfig, error) {
	return s.store.Find(id)
}

// GetDefaultConnection resolves the current default record, nil when no
// usable default exists.
func (s *Service) GetDefaultConnection(ctx context.Context) (*core.ConnectionConfig, error) {
	conn, err := s.store.GetDefault(ctx)
	if err != nil || conn == nil {
		return nil, err
	}
	record := conn.Record.Clone()
	return &record, nil
}

// ListConnections returns every persisted record.
func (s *Service) ListConnections() ([]core.ConnectionConfig, error) {
	return s.store.List()
}

// DeleteConnection removes a record and closes its pool.
func (s *Service) DeleteConnection(id string) error {
	return s.store.Delete(id)
}

// SetDefaultConnection moves the default flag to id.
func (s *Service) SetDefaultConnection(id string) error {
	return s.store.SetDefault(id)
}

// DiscoverSchema introspects the connection's database.
func (s *Service) DiscoverSchema(ctx context.Context, id string) (*core.SchemaSnapshot, error) {
	conn, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return conn.Adapter.DiscoverSchema(ctx)
}

// Dialect returns the SQL dialect descriptor for an engine.
func (s *Service) Dialect(engine core.EngineType) dialect.Dialect {
	return dialect.Get(engine)
}

// ValidateQueryForConnection classifies sql against the read-only rules when
// id names a demo connection. Non-demo connections are never restricted. A
// blocked statement is logged with its verb group and a truncated excerpt.
func (s *Service) ValidateQueryForConnection(sql, id string) *core.ValidationError {
	if !s.store.IsDemo(id) {
		return nil
	}

	verr := validate.Query(sql)
	if verr != nil {
		s.logger.Warn("statement blocked on read-only demo connection",
			slog.String("connection_id", id),
			slog.String("operation", verr.Operation),
			slog.String("group", verr.Group),
			slog.String("sql", validate.Truncate(sql, maxLoggedSQL)))
	}
	return verr
}

// ExecuteQueryWithValidation runs sql on the connection after the read-only
// check. A rejected statement returns *core.ValidationError without touching
// the database; an engine failure returns *core.ExecutionError. Successful
// executions are sampled into the query-performance log.
func (s *Service) ExecuteQueryWithValidation(ctx context.Context, id, sql string) (*core.QueryResult, error) {
	if verr := s.ValidateQueryForConnection(sql, id); verr != nil {
		return nil, verr
	}

	conn, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := conn.Adapter.Query(ctx, sql)
	if err != nil {
		return nil, err
	}

	if s.history != nil {
		sample := core.QuerySample{
			ConnectionID: id,
			SQL:          sql,
			Duration:     result.Duration,
			RowCount:     result.RowCount,
		}
		if err := s.history.Record(sample); err != nil {
			s.logger.Warn("recording query sample", slog.String("error", err.Error()))
		}
	}

	return result, nil
}

// QueryHistory returns the retained query-performance samples.
func (s *Service) QueryHistory() []core.QuerySample {
	if s.history == nil {
		return nil
	}
	return s.history.List()
}

// IsDemoConfigured reports whether demo credentials are present.
func (s *Service) IsDemoConfigured() bool {
	return s.demo != nil && s.demo.Configured()
}

// ValidateDemoDatabase probes the demo target with the standard retry
// policy.
func (s *Service) ValidateDemoDatabase(ctx context.Context) bool {
	if s.demo == nil {
		return false
	}
	return s.demo.Validate(ctx, demo.DefaultMaxRetries)
}

// InitializeDemoConnection bootstraps the demo connection, nil when
// unconfigured or unreachable.
func (s *Service) InitializeDemoConnection(ctx context.Context) *core.ConnectionConfig {
	if s.demo == nil {
		return nil
	}
	return s.demo.Initialize(ctx)
}

// Close releases every live pool.
func (s *Service) Close() {
	s.store.Close()
}
