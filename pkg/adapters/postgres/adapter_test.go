package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  core.ConnectionConfig
		want string
	}{
		{
			name: "full credentials",
			cfg: core.ConnectionConfig{
				Host: "db.example.com", Port: 5433, Database: "app",
				Username: "svc", Password: "secret",
			},
			want: "host=db.example.com port=5433 dbname=app sslmode=disable connect_timeout=10 user=svc password=secret",
		},
		{
			name: "defaults and ssl",
			cfg:  core.ConnectionConfig{Database: "app", SSL: true},
			want: "host=localhost port=5432 dbname=app sslmode=require connect_timeout=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.cfg))
		})
	}
}

func TestDialect(t *testing.T) {
	a := New(nil)
	d := a.Dialect()
	assert.Equal(t, string(core.EnginePostgres), d.Name)
	assert.True(t, d.SupportsExplain)
}
