package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapbridge/pkg/core"
	"github.com/leapstack-labs/leapbridge/pkg/dialect"
)

// rowCountConcurrency bounds the per-table COUNT fan-out.
const rowCountConcurrency = 4

// CollectRowCounts fills in best-effort row counts for every table in the
// snapshot, one COUNT query per table, fanned out concurrently. A failing
// count (permissions, dropped table) leaves that table at zero and records
// a warning; it never cancels sibling counts or fails discovery.
func CollectRowCounts(ctx context.Context, db *sql.DB, d dialect.Dialect, snap *core.SchemaSnapshot) {
	names := make([]string, 0, len(snap.Tables))
	for name := range snap.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rowCountConcurrency)

	for _, name := range names {
		g.Go(func() error {
			query := fmt.Sprintf("SELECT COUNT(*) FROM %s", d.QuoteIdentifier(name))
			var count int64
			err := db.QueryRowContext(ctx, query).Scan(&count)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				snap.Warnings = append(snap.Warnings,
					fmt.Sprintf("row count for table %s unavailable: %v", name, err))
				return nil
			}
			table := snap.Tables[name]
			table.RowCount = count
			snap.Tables[name] = table
			return nil
		})
	}

	// Tasks never return errors; Wait only observes context cancellation.
	_ = g.Wait()
}
