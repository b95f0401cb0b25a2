package adapter

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[core.EngineType]func(*slog.Logger) Adapter)
)

// Register adds an adapter factory to the registry.
// Called by adapter implementations in their init() functions.
func Register(engine core.EngineType, factory func(*slog.Logger) Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[engine] = factory
}

// IsSupported reports whether an engine type has a driver binding.
func IsSupported(engine core.EngineType) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[engine]
	return ok
}

// Supported returns every engine type with a driver binding (sorted).
func Supported() []core.EngineType {
	registryMu.RLock()
	defer registryMu.RUnlock()
	engines := make([]core.EngineType, 0, len(registry))
	for engine := range registry {
		engines = append(engines, engine)
	}
	sort.Slice(engines, func(i, j int) bool { return engines[i] < engines[j] })
	return engines
}

// New creates an adapter for the record's engine type. The logger is passed
// to the adapter constructor (nil uses a discard logger). Returns
// core.UnsupportedEngineError when no binding is registered.
func New(cfg core.ConnectionConfig, logger *slog.Logger) (Adapter, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, &core.UnsupportedEngineError{Type: cfg.Type, Supported: Supported()}
	}
	return factory(logger), nil
}

// Test probes reachability for a record: build an adapter, connect, run the
// liveness probe, and tear the pool down regardless of outcome. Any failure
// in the sequence is wrapped in core.ConnectionTestError; raw driver errors
// never escape.
func Test(ctx context.Context, cfg core.ConnectionConfig, logger *slog.Logger) error {
	a, err := New(cfg, logger)
	if err != nil {
		return &core.ConnectionTestError{Type: cfg.Type, Err: err}
	}

	if err := a.Connect(ctx, cfg); err != nil {
		return &core.ConnectionTestError{Type: cfg.Type, Err: err}
	}
	defer func() { _ = a.Close() }()

	if err := a.Ping(ctx); err != nil {
		return &core.ConnectionTestError{Type: cfg.Type, Err: err}
	}
	return nil
}
