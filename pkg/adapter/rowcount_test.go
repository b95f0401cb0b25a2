package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapbridge/pkg/core"
	"github.com/leapstack-labs/leapbridge/pkg/dialect"
)

func TestCollectRowCountsFailureIsolation(t *testing.T) {
	// Out-of-order matching: counts run concurrently.
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "restricted"`).
		WillReturnError(errors.New("permission denied"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	snap := core.NewSchemaSnapshot()
	snap.Tables["orders"] = core.TableSchema{}
	snap.Tables["restricted"] = core.TableSchema{}
	snap.Tables["users"] = core.TableSchema{}

	CollectRowCounts(context.Background(), db, dialect.Get(core.EnginePostgres), snap)

	assert.Equal(t, int64(42), snap.Tables["orders"].RowCount)
	assert.Equal(t, int64(7), snap.Tables["users"].RowCount)
	// The failing table degrades to zero with a warning; siblings survive.
	assert.Equal(t, int64(0), snap.Tables["restricted"].RowCount)
	require.Len(t, snap.Warnings, 1)
	assert.Contains(t, snap.Warnings[0], "restricted")
}

func TestCollectRowCountsEmptySnapshot(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	snap := core.NewSchemaSnapshot()
	CollectRowCounts(context.Background(), db, dialect.Get(core.EngineSQLite), snap)

	assert.Empty(t, snap.Tables)
	assert.Empty(t, snap.Warnings)
}
