package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	mock.MatchExpectationsInOrder(false)

	a := New(nil)
	a.DB = db
	return a, mock
}

func TestDiscoverSchema(t *testing.T) {
	a, mock := newMockAdapter(t)

	mock.ExpectQuery(`information_schema\.columns c`).WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "column_name", "data_type", "is_nullable", "column_default", "ordinal_position"}).
			AddRow("products", "id", "int", "NO", nil, 1).
			AddRow("products", "sku", "varchar", "NO", nil, 2))

	mock.ExpectQuery(`constraint_name = 'PRIMARY'`).WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "column_name"}).
			AddRow("products", "id"))

	mock.ExpectQuery(`referenced_table_name IS NOT NULL`).WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "column_name", "referenced_table_name", "referenced_column_name"}))

	mock.ExpectQuery(`information_schema\.statistics`).WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "index_name", "column_name", "non_unique"}).
			AddRow("products", "PRIMARY", "id", 0).
			AddRow("products", "sku_idx", "sku", 1))

	mock.ExpectQuery(`information_schema\.views`).WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "view_definition"}).
			AddRow("in_stock", "select `sku` from `products` where `stock` > 0"))

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM `products`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(128)))

	snap, err := a.DiscoverSchema(context.Background())
	require.NoError(t, err)

	products := snap.Tables["products"]
	require.Len(t, products.Columns, 2)
	assert.True(t, products.Columns[0].PrimaryKey)
	assert.Equal(t, []string{"id"}, products.PrimaryKeys)
	assert.Equal(t, int64(128), products.RowCount)

	require.Len(t, products.Indexes, 2)
	assert.True(t, products.Indexes[0].Unique)
	assert.False(t, products.Indexes[1].Unique)

	require.Len(t, snap.Views, 1)
	assert.Empty(t, snap.Relationships)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscoverSchemaViewFailureDegrades(t *testing.T) {
	a, mock := newMockAdapter(t)

	mock.ExpectQuery(`information_schema\.columns c`).WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "column_name", "data_type", "is_nullable", "column_default", "ordinal_position"}))
	mock.ExpectQuery(`constraint_name = 'PRIMARY'`).
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name"}))
	mock.ExpectQuery(`referenced_table_name IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d"}))
	mock.ExpectQuery(`information_schema\.statistics`).
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d"}))
	mock.ExpectQuery(`information_schema\.views`).
		WillReturnError(errors.New("SHOW VIEW denied"))

	snap, err := a.DiscoverSchema(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snap.Tables)
	assert.Empty(t, snap.Views)
	require.NotEmpty(t, snap.Warnings)
	assert.Contains(t, snap.Warnings[0], "view discovery unavailable")
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(mockConfig())
	assert.Contains(t, dsn, "tcp(db.example.com:3307)")
	assert.Contains(t, dsn, "/warehouse")
	assert.Contains(t, dsn, "parseTime=true")
	assert.NotContains(t, dsn, "tls=")

	cfg := mockConfig()
	cfg.SSL = true
	assert.Contains(t, buildDSN(cfg), "tls=true")
}
