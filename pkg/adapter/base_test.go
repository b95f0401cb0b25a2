package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

func TestQueryMaterializesRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT id, name FROM users").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), []byte("alice")).
			AddRow(int64(2), []byte("bob")))

	base := &BaseSQLAdapter{DB: db}
	result, err := base.Query(context.Background(), "SELECT id, name FROM users")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, result.Columns)
	assert.Equal(t, 2, result.RowCount)
	// Byte slices come back as strings.
	assert.Equal(t, "alice", result.Rows[0]["name"])
	assert.Equal(t, int64(2), result.Rows[1]["id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryEmptyResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	base := &BaseSQLAdapter{DB: db}
	result, err := base.Query(context.Background(), "SELECT id FROM empty")
	require.NoError(t, err)

	assert.Equal(t, 0, result.RowCount)
	assert.NotNil(t, result.Rows)
}

func TestQueryDriverErrorIsExecutionError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	driverErr := errors.New(`relation "nope" does not exist`)
	mock.ExpectQuery("SELECT").WillReturnError(driverErr)

	base := &BaseSQLAdapter{DB: db}
	_, err = base.Query(context.Background(), "SELECT * FROM nope")
	require.Error(t, err)

	var ee *core.ExecutionError
	require.ErrorAs(t, err, &ee)
	assert.ErrorIs(t, err, driverErr)
}

func TestQueryWithoutConnection(t *testing.T) {
	base := &BaseSQLAdapter{}
	_, err := base.Query(context.Background(), "SELECT 1")
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	base := &BaseSQLAdapter{DB: db}
	require.NoError(t, base.Close())
	require.NoError(t, base.Close())
}
