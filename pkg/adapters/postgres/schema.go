package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapbridge/pkg/adapter"
	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// Introspection battery against the public schema. Tables, columns, and key
// constraints are mandatory; indexes and views degrade to empty lists when
// the catalog query fails (privilege level, exotic hosting).
const (
	columnsQuery = `
		SELECT t.table_name, c.column_name, c.data_type, c.is_nullable,
		       c.column_default, c.ordinal_position
		FROM information_schema.tables t
		JOIN information_schema.columns c
		  ON c.table_schema = t.table_schema AND c.table_name = t.table_name
		WHERE t.table_schema = 'public' AND t.table_type = 'BASE TABLE'
		ORDER BY t.table_name, c.ordinal_position`

	primaryKeysQuery = `
		SELECT tc.table_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON kcu.constraint_name = tc.constraint_name
		 AND kcu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = 'public'
		ORDER BY tc.table_name, kcu.ordinal_position`

	foreignKeysQuery = `
		SELECT kcu.table_name, kcu.column_name, ccu.table_name, ccu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON kcu.constraint_name = tc.constraint_name
		 AND kcu.table_schema = tc.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON ccu.constraint_name = tc.constraint_name
		 AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = 'public'
		ORDER BY kcu.table_name, kcu.ordinal_position`

	indexesQuery = `
		SELECT t.relname, i.relname, a.attname, ix.indisunique
		FROM pg_class t
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE n.nspname = 'public'
		ORDER BY t.relname, i.relname, array_position(ix.indkey, a.attnum)`

	viewsQuery = `
		SELECT table_name, COALESCE(view_definition, '')
		FROM information_schema.views
		WHERE table_schema = 'public'
		ORDER BY table_name`
)

// DiscoverSchema assembles a normalized snapshot of the public schema.
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
		var unique bool
		if err := rows.Scan(&tableName, &indexName, &columnName, &unique); err != nil {
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
				Unique:  unique,
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
		var v core.View
		if err := rows.Scan(&v.Name, &v.Definition); err != nil {
			return err
		}
		snap.Views = append(snap.Views, v)
	}
	return rows.Err()
}

// markColumn applies fn to the named column of a table, if present.
func markColumn(table *core.TableSchema, name string, fn func(*core.Column)) {
	for i := range table.Columns {
		if table.Columns[i].Name == name {
			fn(&table.Columns[i])
			return
		}
	}
}
