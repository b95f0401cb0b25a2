package postgres

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

	mock.ExpectQuery(`information_schema\.tables t`).WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "column_name", "data_type", "is_nullable", "column_default", "ordinal_position"}).
			AddRow("orders", "id", "integer", "NO", "nextval('orders_id_seq')", 1).
			AddRow("orders", "user_id", "integer", "NO", nil, 2).
			AddRow("users", "id", "integer", "NO", nil, 1).
			AddRow("users", "email", "text", "YES", nil, 2))

	mock.ExpectQuery(`constraint_type = 'PRIMARY KEY'`).WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "column_name"}).
			AddRow("orders", "id").
			AddRow("users", "id"))

	mock.ExpectQuery(`constraint_type = 'FOREIGN KEY'`).WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "column_name", "ref_table", "ref_column"}).
			AddRow("orders", "user_id", "users", "id"))

	mock.ExpectQuery(`pg_index`).WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "index_name", "column_name", "indisunique"}).
			AddRow("users", "users_pkey", "id", true).
			AddRow("users", "users_email_idx", "email", false))

	mock.ExpectQuery(`information_schema\.views`).WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "view_definition"}).
			AddRow("active_users", "SELECT id FROM users WHERE active"))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(10)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	snap, err := a.DiscoverSchema(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Tables, 2)

	orders := snap.Tables["orders"]
	require.Len(t, orders.Columns, 2)
	assert.True(t, orders.Columns[0].PrimaryKey)
	assert.True(t, orders.Columns[1].ForeignKey)
	assert.Equal(t, []string{"id"}, orders.PrimaryKeys)
	require.Len(t, orders.ForeignKeys, 1)
	assert.Equal(t, "users", orders.ForeignKeys[0].ReferencedTable)
	assert.Equal(t, int64(10), orders.RowCount)

	users := snap.Tables["users"]
	require.Len(t, users.Indexes, 2)
	assert.True(t, users.Indexes[0].Unique)
	assert.Equal(t, []string{"email"}, users.Indexes[1].Columns)

	require.Len(t, snap.Relationships, 1)
	assert.Equal(t, "orders", snap.Relationships[0].Table)

	require.Len(t, snap.Views, 1)
	assert.Equal(t, "active_users", snap.Views[0].Name)

	assert.Empty(t, snap.Warnings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscoverSchemaIndexFailureDegrades(t *testing.T) {
	a, mock := newMockAdapter(t)

	mock.ExpectQuery(`information_schema\.tables t`).WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "column_name", "data_type", "is_nullable", "column_default", "ordinal_position"}).
			AddRow("t", "id", "integer", "NO", nil, 1))
	mock.ExpectQuery(`constraint_type = 'PRIMARY KEY'`).
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name"}))
	mock.ExpectQuery(`constraint_type = 'FOREIGN KEY'`).
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d"}))
	mock.ExpectQuery(`pg_index`).WillReturnError(errors.New("permission denied for pg_class"))
	mock.ExpectQuery(`information_schema\.views`).
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "view_definition"}))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "t"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	snap, err := a.DiscoverSchema(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Tables, 1)
	assert.Empty(t, snap.Tables["t"].Indexes)
	require.NotEmpty(t, snap.Warnings)
	assert.Contains(t, snap.Warnings[0], "index discovery unavailable")
}

func TestDiscoverSchemaColumnFailureIsFatal(t *testing.T) {
	a, mock := newMockAdapter(t)

	mock.ExpectQuery(`information_schema\.tables t`).
		WillReturnError(errors.New("connection reset"))

	_, err := a.DiscoverSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discover tables and columns")
}
