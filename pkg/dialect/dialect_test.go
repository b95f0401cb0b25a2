package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

func TestGetKnownEngines(t *testing.T) {
	for _, engine := range core.KnownEngines() {
		t.Run(string(engine), func(t *testing.T) {
			d := Get(engine)
			assert.Equal(t, string(engine), d.Name)
			assert.NotEmpty(t, d.DisplayName)
			assert.NotEmpty(t, d.QuoteChar)
		})
	}
}

func TestGetUnknownEngineFallsBackToANSI(t *testing.T) {
	d := Get(core.EngineType("duckdb"))
	assert.Equal(t, "ansi", d.Name)
	assert.False(t, d.SupportsExplain)
}

func TestLimitClause(t *testing.T) {
	tests := []struct {
		name   string
		engine core.EngineType
		limit  int
		offset int
		want   string
	}{
		{"postgres limit only", core.EnginePostgres, 100, -1, "LIMIT 100"},
		{"postgres limit offset", core.EnginePostgres, 50, 10, "LIMIT 50 OFFSET 10"},
		{"mysql limit only", core.EngineMySQL, 100, -1, "LIMIT 100"},
		{"mysql limit offset", core.EngineMySQL, 50, 10, "LIMIT 10, 50"},
		{"sqlite limit offset", core.EngineSQLite, 25, 5, "LIMIT 25 OFFSET 5"},
		{"mssql always offsets", core.EngineMSSQL, 10, -1, "OFFSET 0 ROWS FETCH NEXT 10 ROWS ONLY"},
		{"oracle limit only", core.EngineOracle, 10, -1, "FETCH FIRST 10 ROWS ONLY"},
		{"mariadb limit offset", core.EngineMariaDB, 20, 40, "LIMIT 40, 20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Get(tt.engine).LimitClause(tt.limit, tt.offset)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"user"`, Get(core.EnginePostgres).QuoteIdentifier("user"))
	assert.Equal(t, "`order`", Get(core.EngineMySQL).QuoteIdentifier("order"))
	assert.Equal(t, "[events]", Get(core.EngineMSSQL).QuoteIdentifier("events"))

	// Embedded closing quotes are doubled.
	assert.Equal(t, `"a""b"`, Get(core.EnginePostgres).QuoteIdentifier(`a"b`))
	assert.Equal(t, "[a]]b]", Get(core.EngineMSSQL).QuoteIdentifier("a]b"))
}

func TestExplainSupport(t *testing.T) {
	assert.True(t, Get(core.EnginePostgres).SupportsExplain)
	assert.Equal(t, "EXPLAIN ANALYZE", Get(core.EnginePostgres).ExplainKeyword)
	assert.Equal(t, "EXPLAIN QUERY PLAN", Get(core.EngineSQLite).ExplainKeyword)
	assert.False(t, Get(core.EngineMSSQL).SupportsExplain)
	assert.False(t, Get(core.EngineBigQuery).SupportsExplain)
}
