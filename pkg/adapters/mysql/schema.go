package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapbridge/pkg/adapter"
	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// Introspection battery scoped to the connected database via DATABASE().
// Indexes and views are best-effort; the rest is mandatory.
const (
	columnsQuery = `
		SELECT c.table_name, c.column_name, c.data_type, c.is_nullable,
		       c.column_default, c.ordinal_position
		FROM information_schema.columns c
		JOIN information_schema.tables t
		  ON t.table_schema = c.table_schema AND t.table_name = c.table_name
		WHERE c.table_schema = DATABASE() AND t.table_type = 'BASE TABLE'
		ORDER BY c.table_name, c.ordinal_position`

	primaryKeysQuery = `
		SELECT table_name, column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE() AND constraint_name = 'PRIMARY'
		ORDER BY table_name, ordinal_position`

	foreignKeysQuery = `
		SELECT table_name, column_name, referenced_table_name, referenced_column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE() AND referenced_table_name IS NOT NULL
		ORDER BY table_name, ordinal_position`

	indexesQuery = `
		SELECT table_name, index_name, column_name, non_unique
		FROM information_schema.statistics
		WHERE table_schema = DATABASE()
		ORDER BY table_name, index_name, seq_in_index`

	viewsQuery = `
		SELECT table_name, view_definition
		FROM information_schema.views
		WHERE table_schema = DATABASE()
		ORDER BY table_name`
)

// DiscoverSchema assembles a normalized snapshot of the connected database.
func (a *Adapter) DiscoverSchema(ctx context.Context) (*core.SchemaSnapshot, error) {
	if a.DB == nil {
		return nil, fmt.Errorf("connection not established")
	}

	snap := core.NewSchemaSnapshot()

	if err := a.discoverColumns(ctx, snap); err != nil {
		return nil, fmt.Errorf("discover tables and columns: %w", err)
	}
	if err := a.discoverPrimaryKeys(ctx, snap); err != nil {
		return nil, fmt.Errorf("discover primary keys: %w", err)
	}
	if err := a.discoverForeignKeys(ctx, snap); err != nil {
		return nil, fmt.Errorf("discover foreign keys: %w", err)
	}

	if err := a.discoverIndexes(ctx, snap); err != nil {
		a.Logger.Warn("index discovery degraded", slog.String("error", err.Error()))
		snap.Warnings = append(snap.Warnings, fmt.Sprintf("index discovery unavailable: %v", err))
	}
	if err := a.discoverViews(ctx, snap); err != nil {
		a.Logger.Warn("view discovery degraded", slog.String("error", err.Error()))
		snap.Warnings = append(snap.Warnings, fmt.Sprintf("view discovery unavailable: %v", err))
	}

	adapter.CollectRowCounts(ctx, a.DB, a.Dialect(), snap)
	return snap, nil
}

func (a *Adapter) discoverColumns(ctx context.Context, snap *core.SchemaSnapshot) error {
	rows, err := a.DB.QueryContext(ctx, columnsQuery)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var tableName string
		var col core.Column
		var nullable string
		var colDefault sql.NullString
		if err := rows.Scan(&tableName, &col.Name, &col.Type, &nullable, &colDefault, &col.Position); err != nil {
			return err
		}
		col.Nullable = nullable == "YES"
		if colDefault.Valid {
			col.Default = &colDefault.String
		}

		table := snap.Tables[tableName]
		table.Columns = append(table.Columns, col)
		snap.Tables[tableName] = table
	}
	return rows.Err()
}

func (a *Adapter) discoverPrimaryKeys(ctx context.Context, snap *core.SchemaSnapshot) error {
	rows, err := a.DB.QueryContext(ctx, primaryKeysQuery)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var tableName, columnName string
		if err := rows.Scan(&tableName, &columnName); err != nil {
			return err
		}
		table, ok := snap.Tables[tableName]
		if !ok {
			continue
		}
		table.PrimaryKeys = append(table.PrimaryKeys, columnName)
		markColumn(&table, columnName, func(c *core.Column) { c.PrimaryKey = true })
		snap.Tables[tableName] = table
	}
	return rows.Err()
}

func (a *Adapter) discoverForeignKeys(ctx context.Context, snap *core.SchemaSnapshot) error {
	rows, err := a.DB.QueryContext(ctx, foreignKeysQuery)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var tableName, columnName, refTable, refColumn string
		if err := rows.Scan(&tableName, &columnName, &refTable, &refColumn); err != nil {
			return err
		}
		fk := core.ForeignKey{Column: columnName, ReferencedTable: refTable, ReferencedColumn: refColumn}
		if table, ok := snap.Tables[tableName]; ok {
			table.ForeignKeys = append(table.ForeignKeys, fk)
			markColumn(&table, columnName, func(c *core.Column) { c.ForeignKey = true })
			snap.Tables[tableName] = table
		}
		snap.Relationships = append(snap.Relationships, core.Relationship{
			Table:            tableName,
			Column:           columnName,
			ReferencedTable:  refTable,
			ReferencedColumn: refColumn,
		})
	}
	return rows.Err()
}

func (a *Adapter) discoverIndexes(ctx context.Context, snap *core.SchemaSnapshot) error {
	rows, err := a.DB.QueryContext(ctx, indexesQuery)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var tableName, indexName, columnName string
		var nonUnique int
		if err := rows.Scan(&tableName, &indexName, &columnName, &nonUnique); err != nil {
			return err
		}
		table, ok := snap.Tables[tableName]
		if !ok {
			continue
		}
		if n := len(table.Indexes); n > 0 && table.Indexes[n-1].Name == indexName {
			table.Indexes[n-1].Columns = append(table.Indexes[n-1].Columns, columnName)
		} else {
			table.Indexes = append(table.Indexes, core.Index{
				Name:    indexName,
				Columns: []string{columnName},
				Unique:  nonUnique == 0,
			})
		}
		snap.Tables[tableName] = table
	}
	return rows.Err()
}

func (a *Adapter) discoverViews(ctx context.Context, snap *core.SchemaSnapshot) error {
	rows, err := a.DB.QueryContext(ctx, viewsQuery)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		var definition sql.NullString
		if err := rows.Scan(&name, &definition); err != nil {
			return err
		}
		snap.Views = append(snap.Views, core.View{Name: name, Definition: definition.String})
	}
	return rows.Err()
}

func markColumn(table *core.TableSchema, name string, fn func(*core.Column)) {
	for i := range table.Columns {
		if table.Columns[i].Name == name {
			fn(&table.Columns[i])
			return
		}
	}
}
