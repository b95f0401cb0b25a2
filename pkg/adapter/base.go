package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// Fixed pool bounds and timeouts. Callers needing a connection beyond the
// bound block until one frees or the connect timeout elapses.
const (
	MaxOpenConns    = 5
	MaxIdleConns    = 2
	ConnMaxIdleTime = 5 * time.Minute
	ConnectTimeout  = 10 * time.Second
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Ping, Exec, and Query implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.ConnectionConfig
	Logger *slog.Logger
}

// ConfigurePool applies the fixed pool bounds to a freshly opened handle.
// Concrete adapters call this from Connect.
func (b *BaseSQLAdapter) ConfigurePool(db *sql.DB) {
	db.SetMaxOpenConns(MaxOpenConns)
	db.SetMaxIdleConns(MaxIdleConns)
	db.SetConnMaxIdleTime(ConnMaxIdleTime)
}

// Close closes the database connection pool.
func (b *BaseSQLAdapter) Close() error {
	if b.DB == nil {
		return nil
	}
	if b.Logger != nil {
		b.Logger.Debug("closing connection pool",
			slog.String("connection", b.Cfg.ID),
			slog.String("type", string(b.Cfg.Type)))
	}
	err := b.DB.Close()
	b.DB = nil
	return err
}

// Ping verifies liveness: a driver-level ping followed by a constant probe
// query, so a half-open pool cannot pass.
func (b *BaseSQLAdapter) Ping(ctx context.Context) error {
	if b.DB == nil {
		return fmt.Errorf("connection not established")
	}
	ctx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()

	if err := b.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	var one int
	if err := b.DB.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("liveness probe: %w", err)
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return fmt.Errorf("connection not established")
	}
	if _, err := b.DB.ExecContext(ctx, sqlStr); err != nil {
		return &core.ExecutionError{SQL: sqlStr, Err: err}
	}
	return nil
}

// Query executes a SQL statement and materializes every row. Byte slices
// are converted to strings so results serialize cleanly.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*core.QueryResult, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("connection not established")
	}

	start := time.Now()
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, &core.ExecutionError{SQL: sqlStr, Err: err}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &core.ExecutionError{SQL: sqlStr, Err: err}
	}

	result := &core.QueryResult{Columns: columns, Rows: []map[string]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &core.ExecutionError{SQL: sqlStr, Err: err}
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if bs, ok := values[i].([]byte); ok {
				row[col] = string(bs)
			} else {
				row[col] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.ExecutionError{SQL: sqlStr, Err: err}
	}

	result.RowCount = len(result.Rows)
	result.Duration = time.Since(start)
	return result, nil
}
