package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapbridge/pkg/adapter"
	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// SQLite has no information_schema: tables and views come from
// sqlite_master, columns from PRAGMA table_info per table. Foreign-key and
// index catalogs are not walked separately; discovery stays at the
// column level.
const (
	tablesQuery = `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	viewsQuery = `
		SELECT name, COALESCE(sql, '') FROM sqlite_master
		WHERE type = 'view'
		ORDER BY name`
)

// DiscoverSchema assembles a normalized snapshot via pragma introspection.
func (a *Adapter) DiscoverSchema(ctx context.Context) (*core.SchemaSnapshot, error) {
	if a.DB == nil {
		return nil, fmt.Errorf("connection not established")
	}

	snap := core.NewSchemaSnapshot()

	names, err := a.listTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover tables: %w", err)
	}

	for _, name := range names {
		table, err := a.tableInfo(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("discover columns for %s: %w", name, err)
		}
		snap.Tables[name] = table
	}

	if err := a.discoverViews(ctx, snap); err != nil {
		snap.Warnings = append(snap.Warnings, fmt.Sprintf("view discovery unavailable: %v", err))
	}

	adapter.CollectRowCounts(ctx, a.DB, a.Dialect(), snap)
	return snap, nil
}

func (a *Adapter) listTables(ctx context.Context) ([]string, error) {
	rows, err := a.DB.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// tableInfo reads PRAGMA table_info for one table. The pragma does not
// accept placeholders, so the name is quote-escaped inline.
func (a *Adapter) tableInfo(ctx context.Context, name string) (core.TableSchema, error) {
	var table core.TableSchema

	pragma := fmt.Sprintf("PRAGMA table_info('%s')", strings.ReplaceAll(name, "'", "''"))
	rows, err := a.DB.QueryContext(ctx, pragma)
	if err != nil {
		return table, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		// cid, name, type, notnull, dflt_value, pk
		var cid, notNull, pk int
		var colName, colType string
		var dfltValue sql.NullString
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dfltValue, &pk); err != nil {
			return table, err
		}

		col := core.Column{
			Name:       colName,
			Type:       colType,
			Nullable:   notNull == 0,
			Position:   cid + 1,
			PrimaryKey: pk > 0,
		}
		if dfltValue.Valid {
			col.Default = &dfltValue.String
		}

		table.Columns = append(table.Columns, col)
		if col.PrimaryKey {
			table.PrimaryKeys = append(table.PrimaryKeys, colName)
		}
	}
	return table, rows.Err()
}

func (a *Adapter) discoverViews(ctx context.Context, snap *core.SchemaSnapshot) error {
	rows, err := a.DB.QueryContext(ctx, viewsQuery)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var v core.View
		if err := rows.Scan(&v.Name, &v.Definition); err != nil {
			return err
		}
		snap.Views = append(snap.Views, v)
	}
	return rows.Err()
}
