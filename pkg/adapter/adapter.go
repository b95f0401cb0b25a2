// Package adapter defines the contract every database engine binding must
// implement, shared database/sql plumbing, and the factory registry that
// selects a binding by engine type.
//
// Concrete implementations live in pkg/adapters/ subdirectories and register
// themselves in their init() functions. Callers select an adapter once at
// connection-build time and never branch on engine type afterwards.
package adapter

import (
	"context"

	"github.com/leapstack-labs/leapbridge/pkg/core"
	"github.com/leapstack-labs/leapbridge/pkg/dialect"
)

// Adapter is the uniform contract over one live database connection pool.
type Adapter interface {
	// Connect establishes the engine-specific pool from the record. Pool
	// bounds and timeouts are fixed (see pool limits in base.go).
	Connect(ctx context.Context, cfg core.ConnectionConfig) error

	// Close tears down the pool and releases resources.
	Close() error

	// Ping verifies liveness with the engine's canonical probe.
	Ping(ctx context.Context) error

	// Query executes SQL and materializes the full result set.
	Query(ctx context.Context, sql string) (*core.QueryResult, error)

	// Exec executes SQL that returns no rows.
	Exec(ctx context.Context, sql string) error

	// DiscoverSchema introspects the engine's system catalog into a
	// normalized snapshot. Row-count, index, and view collection are
	// best-effort and degrade into snapshot warnings.
	DiscoverSchema(ctx context.Context) (*core.SchemaSnapshot, error)

	// Dialect returns the syntax descriptor for this adapter's engine.
	Dialect() dialect.Dialect
}
