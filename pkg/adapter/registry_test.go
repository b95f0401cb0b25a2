package adapter

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapbridge/pkg/core"
	"github.com/leapstack-labs/leapbridge/pkg/dialect"
)

// fakeAdapter is a scriptable adapter for registry and probe tests.
type fakeAdapter struct {
	BaseSQLAdapter
	connectErr error
	pingErr    error
	closed     int
}

func (f *fakeAdapter) Connect(_ context.Context, cfg core.ConnectionConfig) error {
	f.Cfg = cfg
	return f.connectErr
}

func (f *fakeAdapter) Close() error {
	f.closed++
	return nil
}

func (f *fakeAdapter) Ping(context.Context) error { return f.pingErr }

func (f *fakeAdapter) DiscoverSchema(context.Context) (*core.SchemaSnapshot, error) {
	return core.NewSchemaSnapshot(), nil
}

func (f *fakeAdapter) Dialect() dialect.Dialect { return dialect.Get("fake") }

func TestNewUnsupportedEngine(t *testing.T) {
	cfg := core.ConnectionConfig{Type: core.EngineOracle}

	_, err := New(cfg, nil)
	require.Error(t, err)

	var ue *core.UnsupportedEngineError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, core.EngineOracle, ue.Type)
}

func TestRegisterAndNew(t *testing.T) {
	engine := core.EngineType("fake-registry")
	fake := &fakeAdapter{}
	Register(engine, func(*slog.Logger) Adapter { return fake })

	assert.True(t, IsSupported(engine))
	assert.Contains(t, Supported(), engine)

	a, err := New(core.ConnectionConfig{Type: engine}, nil)
	require.NoError(t, err)
	assert.Same(t, fake, a.(*fakeAdapter))
}

func TestTestWrapsFailures(t *testing.T) {
	tests := []struct {
		name    string
		adapter *fakeAdapter
	}{
		{"connect failure", &fakeAdapter{connectErr: errors.New("dial tcp: connection refused")}},
		{"probe failure", &fakeAdapter{pingErr: errors.New("server closed the connection")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := core.EngineType("fake-" + tt.name)
			Register(engine, func(*slog.Logger) Adapter { return tt.adapter })

			err := Test(context.Background(), core.ConnectionConfig{Type: engine}, nil)
			require.Error(t, err)

			var cte *core.ConnectionTestError
			require.ErrorAs(t, err, &cte)
			assert.Equal(t, engine, cte.Type)
		})
	}
}

func TestTestClosesPoolOnSuccessAndFailure(t *testing.T) {
	ok := &fakeAdapter{}
	failing := &fakeAdapter{pingErr: errors.New("boom")}

	Register("fake-close-ok", func(*slog.Logger) Adapter { return ok })
	Register("fake-close-fail", func(*slog.Logger) Adapter { return failing })

	require.NoError(t, Test(context.Background(), core.ConnectionConfig{Type: "fake-close-ok"}, nil))
	assert.Equal(t, 1, ok.closed)

	require.Error(t, Test(context.Background(), core.ConnectionConfig{Type: "fake-close-fail"}, nil))
	assert.Equal(t, 1, failing.closed, "pool must be torn down even when the probe fails")
}

func TestTestUnsupportedEngineIsConnectionTestError(t *testing.T) {
	err := Test(context.Background(), core.ConnectionConfig{Type: core.EngineSnowflake}, nil)
	require.Error(t, err)

	var cte *core.ConnectionTestError
	require.ErrorAs(t, err, &cte)

	var ue *core.UnsupportedEngineError
	assert.ErrorAs(t, err, &ue)
}
