// Package store manages persisted connection records, the in-memory index
// of live connection pools, the demo flag set, and the query-performance
// log.
//
// All mutating operations are serialized by a single mutex and write the
// full persisted collection back before returning, preserving the
// at-most-one-default invariant under concurrent callers.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leapbridge/pkg/adapter"
	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// Conn is a live pooled connection: the adapter plus the record it was
// built from. Runtime-only, owned exclusively by the Store's index.
type Conn struct {
	ID      string
	Type    core.EngineType
	Adapter adapter.Adapter
	Record  core.ConnectionConfig
}

// Store is the connection registry.
type Store struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger

	live map[string]*Conn
	demo map[string]struct{}
}

// New creates a Store over the given persistence backend and scans the
// persisted metadata to seed the demo flag set. If logger is nil, a discard
// logger is used.
func New(backend Backend, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Store{
		backend: backend,
		logger:  logger,
		live:    make(map[string]*Conn),
		demo:    make(map[string]struct{}),
	}

	records, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}
	for _, r := range records {
		if r.IsDemo() {
			s.demo[r.ID] = struct{}{}
		}
	}

	return s, nil
}

// Create registers a new connection record. Reachability is tested before
// anything is persisted; an unreachable target fails with
// core.ConnectionTestError and leaves the collection untouched. When the
// record claims the default flag, every other record loses it in the same
// write.
func (s *Store) Create(ctx context.Context, cfg core.ConnectionConfig) (core.ConnectionConfig, error) {
	now := time.Now().UTC()
	cfg.ID = uuid.New().String()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	if err := adapter.Test(ctx, cfg, s.logger); err != nil {
		return core.ConnectionConfig{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.backend.Load()
	if err != nil {
		return core.ConnectionConfig{}, fmt.Errorf("load connections: %w", err)
	}

	if cfg.IsDefault {
		for i := range records {
			records[i].IsDefault = false
		}
	}
	records = append(records, cfg)

	if err := s.backend.Save(records); err != nil {
		return core.ConnectionConfig{}, fmt.Errorf("save connections: %w", err)
	}

	if cfg.IsDemo() {
		s.demo[cfg.ID] = struct{}{}
	}

	s.logger.Info("connection created",
		slog.String("id", cfg.ID),
		slog.String("name", cfg.Name),
		slog.String("type", string(cfg.Type)))
	return cfg.Clone(), nil
}

// Get returns the live pooled connection for an identifier, building and
// caching one from the persisted record on first use.
func (s *Store) Get(ctx context.Context, id string) (*Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(ctx, id)
}

func (s *Store) getLocked(ctx context.Context, id string) (*Conn, error) {
	if conn, ok := s.live[id]; ok {
		return conn, nil
	}

	record, err := s.findRecord(id)
	if err != nil {
		return nil, err
	}

	a, err := adapter.New(record, s.logger)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx, record); err != nil {
		return nil, fmt.Errorf("connect %s: %w", id, err)
	}

	conn := &Conn{ID: id, Type: record.Type, Adapter: a, Record: record}
	s.live[id] = conn
	return conn, nil
}

// Find returns a copy of the persisted record for an identifier without
// opening a pool.
func (s *Store) Find(id string) (core.ConnectionConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.findRecord(id)
	if err != nil {
		return core.ConnectionConfig{}, err
	}
	return record.Clone(), nil
}

// GetDefault resolves the current default connection. It always re-reads
// persisted state rather than trusting a cached pointer, and re-validates
// reachability: a stale or unreachable default yields (nil, nil) rather
// than an error, since callers treat "no usable default" as a normal state.
func (s *Store) GetDefault(ctx context.Context) (*Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.backend.Load()
	if err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}

	var def *core.ConnectionConfig
	for i := range records {
		if records[i].IsDefault {
			def = &records[i]
			break
		}
	}
	if def == nil {
		return nil, nil
	}

	conn, err := s.getLocked(ctx, def.ID)
	if err != nil {
		s.logger.Warn("default connection unavailable",
			slog.String("id", def.ID),
			slog.String("name", def.Name),
			slog.String("type", string(def.Type)))
		return nil, nil
	}

	if err := conn.Adapter.Ping(ctx); err != nil {
		s.logger.Warn("default connection failed revalidation",
			slog.String("id", def.ID),
			slog.String("name", def.Name),
			slog.String("type", string(def.Type)))
		_ = conn.Adapter.Close()
		delete(s.live, def.ID)
		return nil, nil
	}

	return conn, nil
}

// List returns every persisted record verbatim, reachable or not. No
// connectivity checks are performed.
func (s *Store) List() ([]core.ConnectionConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.backend.Load()
	if err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}

	out := make([]core.ConnectionConfig, len(records))
	for i := range records {
		out[i] = records[i].Clone()
	}
	return out, nil
}

// SetDefault atomically moves the default flag to the target record.
func (s *Store) SetDefault(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.backend.Load()
	if err != nil {
		return fmt.Errorf("load connections: %w", err)
	}

	found := false
	now := time.Now().UTC()
	for i := range records {
		isTarget := records[i].ID == id
		if isTarget {
			found = true
		}
		if records[i].IsDefault != isTarget {
			records[i].IsDefault = isTarget
			records[i].UpdatedAt = now
		}
	}
	if !found {
		return &core.NotFoundError{ID: id}
	}

	return s.backend.Save(records)
}

// Delete closes the cached pool if present and removes the persisted
// record.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conn, ok := s.live[id]; ok {
		if err := conn.Adapter.Close(); err != nil {
			s.logger.Warn("closing pool on delete", slog.String("id", id), slog.String("error", err.Error()))
		}
		delete(s.live, id)
	}

	records, err := s.backend.Load()
	if err != nil {
		return fmt.Errorf("load connections: %w", err)
	}

	kept := records[:0]
	found := false
	for _, r := range records {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return &core.NotFoundError{ID: id}
	}

	delete(s.demo, id)
	return s.backend.Save(kept)
}

// MarkDemo adds the identifier to the demo flag set and merges the given
// metadata into the persisted record. The demo marker itself is always
// persisted so the set survives restarts.
func (s *Store) MarkDemo(id string, metadata map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.backend.Load()
	if err != nil {
		return fmt.Errorf("load connections: %w", err)
	}

	found := false
	for i := range records {
		if records[i].ID != id {
			continue
		}
		found = true
		if records[i].Metadata == nil {
			records[i].Metadata = make(map[string]any)
		}
		for k, v := range metadata {
			records[i].Metadata[k] = v
		}
		records[i].Metadata[core.MetaKeyDemo] = true
		records[i].UpdatedAt = time.Now().UTC()
		break
	}
	if !found {
		return &core.NotFoundError{ID: id}
	}

	if err := s.backend.Save(records); err != nil {
		return err
	}

	s.demo[id] = struct{}{}
	s.logger.Info("connection marked as demo", slog.String("id", id))
	return nil
}

// IsDemo reports whether the identifier is in the demo flag set. The
// runtime set, not the persisted field alone, is authoritative for
// validation decisions.
func (s *Store) IsDemo(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.demo[id]
	return ok
}

// DemoIDs returns the identifiers currently in the demo flag set.
func (s *Store) DemoIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.demo))
	for id := range s.demo {
		out = append(out, id)
	}
	return out
}

// findRecord returns the persisted record for id. Callers hold s.mu.
func (s *Store) findRecord(id string) (core.ConnectionConfig, error) {
	records, err := s.backend.Load()
	if err != nil {
		return core.ConnectionConfig{}, fmt.Errorf("load connections: %w", err)
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return core.ConnectionConfig{}, &core.NotFoundError{ID: id}
}

// Close shuts down every live pool. Used at process shutdown.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, conn := range s.live {
		if err := conn.Adapter.Close(); err != nil {
			s.logger.Warn("closing pool", slog.String("id", id), slog.String("error", err.Error()))
		}
		delete(s.live, id)
	}
}
