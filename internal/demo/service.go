package demo

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/leapbridge/internal/store"
	"github.com/leapstack-labs/leapbridge/pkg/adapter"
	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// State tracks where the bootstrap currently stands.
type State string

const (
	StateUnconfigured State = "unconfigured"
	StateValidating   State = "validating"
	StateReady        State = "ready"
	StateFailed       State = "failed"
)

// DefaultMaxRetries bounds the validation attempt loop.
const DefaultMaxRetries = 3

// Metadata is the fixed payload attached to the demo connection record.
// read_only drives the query safety validator; the rest is display material.
var Metadata = map[string]any{
	"version":          "1.0",
	"sample_data_date": "2024-01-15",
	"read_only":        true,
	"example_queries": []string{
		"SELECT * FROM customers LIMIT 10",
		"SELECT country, COUNT(*) FROM customers GROUP BY country",
		"SELECT * FROM orders WHERE total > 100 ORDER BY total DESC LIMIT 20",
	},
}

// Service drives the demo bootstrap against a connection store.
type Service struct {
	cfg    Config
	store  *store.Store
	logger *slog.Logger

	mu    sync.Mutex
	state State

	// engine is the adapter binding the demo target uses.
	engine core.EngineType

	// probe and sleep are swappable for tests.
	probe func(ctx context.Context, cfg core.ConnectionConfig) error
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a bootstrap service. If logger is nil, a discard logger is
// used.
func New(cfg Config, st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		cfg:    cfg,
		store:  st,
		logger: logger,
		state:  StateUnconfigured,
		engine: core.EnginePostgres,
		sleep:  sleepContext,
	}
	s.probe = func(ctx context.Context, cc core.ConnectionConfig) error {
		return adapter.Test(ctx, cc, logger)
	}
	return s
}

// Configured reports whether demo credentials are present in the
// environment.
func (s *Service) Configured() bool { return s.cfg.Configured() }

// State returns the current bootstrap state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Validate probes the demo target up to maxRetries times, sleeping
// 2^(attempt-1) seconds between attempts. It reports whether the target
// answered; a false result leaves the service in StateFailed.
func (s *Service) Validate(ctx context.Context, maxRetries int) bool {
	if !s.cfg.Configured() {
		s.setState(StateUnconfigured)
		return false
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	s.setState(StateValidating)
	target := s.cfg.connectionConfig(s.engine)

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.probe(ctx, target)
		if err == nil {
			s.setState(StateReady)
			return true
		}

		s.logger.Warn("demo database validation attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("max_retries", maxRetries),
			slog.String("host", target.Host),
			slog.String("database", target.Database),
			slog.String("error", err.Error()))

		if attempt < maxRetries {
			delay := time.Duration(1<<(attempt-1)) * time.Second
			if err := s.sleep(ctx, delay); err != nil {
				break
			}
		}
	}

	s.setState(StateFailed)
	return false
}

// Initialize registers the demo connection. It never fails the caller: any
// problem is logged and nil is returned, since the demo database is an
// optional convenience. An existing record for the same target is reused
// rather than duplicated.
func (s *Service) Initialize(ctx context.Context) *core.ConnectionConfig {
	if !s.cfg.Configured() {
		s.logger.Info("demo database not configured, skipping bootstrap")
		s.setState(StateUnconfigured)
		return nil
	}

	if !s.Validate(ctx, DefaultMaxRetries) {
		s.logger.Warn("demo database unreachable, skipping bootstrap")
		return nil
	}

	// An existing record for the same target is reused only after it passes
	// the probe with its own stored credentials; a stale record is replaced.
	if existing := s.findExisting(); existing != nil {
		if err := s.probe(ctx, *existing); err == nil {
			if err := s.store.MarkDemo(existing.ID, Metadata); err != nil {
				s.logger.Warn("refreshing demo marker", slog.String("id", existing.ID), slog.String("error", err.Error()))
				return nil
			}
			s.logger.Info("reusing existing demo connection", slog.String("id", existing.ID))
			refreshed := existing.Clone()
			return &refreshed
		}

		s.logger.Warn("existing demo record failed revalidation, replacing",
			slog.String("id", existing.ID),
			slog.String("host", existing.Host),
			slog.String("database", existing.Database))
		if err := s.store.Delete(existing.ID); err != nil {
			s.logger.Warn("removing stale demo record", slog.String("id", existing.ID), slog.String("error", err.Error()))
			return nil
		}
	}

	created, err := s.store.Create(ctx, s.cfg.connectionConfig(s.engine))
	if err != nil {
		s.logger.Warn("creating demo connection", slog.String("error", err.Error()))
		return nil
	}
	if err := s.store.MarkDemo(created.ID, Metadata); err != nil {
		s.logger.Warn("marking demo connection", slog.String("id", created.ID), slog.String("error", err.Error()))
		return nil
	}

	s.logger.Info("demo connection registered",
		slog.String("id", created.ID),
		slog.String("host", created.Host),
		slog.String("database", created.Database))
	return &created
}

// findExisting matches a persisted record by host, database, and name.
func (s *Service) findExisting() *core.ConnectionConfig {
	records, err := s.store.List()
	if err != nil {
		s.logger.Warn("listing connections for demo reuse", slog.String("error", err.Error()))
		return nil
	}
	for i := range records {
		r := &records[i]
		if r.Host == s.cfg.Host && r.Database == s.cfg.Database && r.Name == ConnectionName {
			return r
		}
	}
	return nil
}

// sleepContext waits for d or for context cancellation, whichever comes
// first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
