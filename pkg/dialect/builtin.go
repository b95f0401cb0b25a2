package dialect

import (
	"fmt"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// ansi is the fallback descriptor returned for engine types without a
// registered dialect.
var ansi = Dialect{
	Name:            "ansi",
	DisplayName:     "ANSI SQL",
	QuoteChar:       `"`,
	QuoteEnd:        `"`,
	DateFormat:      "YYYY-MM-DD",
	SupportsExplain: false,
	limitClause:     limitOffset,
}

var builtin = map[core.EngineType]Dialect{
	core.EnginePostgres: {
		Name:            string(core.EnginePostgres),
		DisplayName:     "PostgreSQL",
		QuoteChar:       `"`,
		QuoteEnd:        `"`,
		DateFormat:      "YYYY-MM-DD",
		SupportsExplain: true,
		ExplainKeyword:  "EXPLAIN ANALYZE",
		limitClause:     limitOffset,
	},
	core.EngineMySQL: {
		Name:            string(core.EngineMySQL),
		DisplayName:     "MySQL",
		QuoteChar:       "`",
		QuoteEnd:        "`",
		DateFormat:      "YYYY-MM-DD",
		SupportsExplain: true,
		ExplainKeyword:  "EXPLAIN",
		limitClause: func(limit, offset int) string {
			if offset >= 0 {
				return fmt.Sprintf("LIMIT %d, %d", offset, limit)
			}
			return fmt.Sprintf("LIMIT %d", limit)
		},
	},
	core.EngineSQLite: {
		Name:            string(core.EngineSQLite),
		DisplayName:     "SQLite",
		QuoteChar:       `"`,
		QuoteEnd:        `"`,
		DateFormat:      "YYYY-MM-DD",
		SupportsExplain: true,
		ExplainKeyword:  "EXPLAIN QUERY PLAN",
		limitClause:     limitOffset,
	},
	core.EngineMSSQL: {
		Name:            string(core.EngineMSSQL),
		DisplayName:     "SQL Server",
		QuoteChar:       "[",
		QuoteEnd:        "]",
		DateFormat:      "YYYY-MM-DD",
		SupportsExplain: false,
		limitClause: func(limit, offset int) string {
			if offset < 0 {
				offset = 0
			}
			return fmt.Sprintf("OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", offset, limit)
		},
	},
	core.EngineOracle: {
		Name:            string(core.EngineOracle),
		DisplayName:     "Oracle",
		QuoteChar:       `"`,
		QuoteEnd:        `"`,
		DateFormat:      "DD-MON-YYYY",
		SupportsExplain: true,
		ExplainKeyword:  "EXPLAIN PLAN FOR",
		limitClause: func(limit, offset int) string {
			if offset >= 0 {
				return fmt.Sprintf("OFFSET %d ROWS FETCH FIRST %d ROWS ONLY", offset, limit)
			}
			return fmt.Sprintf("FETCH FIRST %d ROWS ONLY", limit)
		},
	},
	core.EngineSnowflake: {
		Name:            string(core.EngineSnowflake),
		DisplayName:     "Snowflake",
		QuoteChar:       `"`,
		QuoteEnd:        `"`,
		DateFormat:      "YYYY-MM-DD",
		SupportsExplain: true,
		ExplainKeyword:  "EXPLAIN",
		limitClause:     limitOffset,
	},
	core.EngineRedshift: {
		Name:            string(core.EngineRedshift),
		DisplayName:     "Amazon Redshift",
		QuoteChar:       `"`,
		QuoteEnd:        `"`,
		DateFormat:      "YYYY-MM-DD",
		SupportsExplain: true,
		ExplainKeyword:  "EXPLAIN",
		limitClause:     limitOffset,
	},
	core.EngineBigQuery: {
		Name:            string(core.EngineBigQuery),
		DisplayName:     "Google BigQuery",
		QuoteChar:       "`",
		QuoteEnd:        "`",
		DateFormat:      "YYYY-MM-DD",
		SupportsExplain: false,
		limitClause:     limitOffset,
	},
	core.EngineMariaDB: {
		Name:            string(core.EngineMariaDB),
		DisplayName:     "MariaDB",
		QuoteChar:       "`",
		QuoteEnd:        "`",
		DateFormat:      "YYYY-MM-DD",
		SupportsExplain: true,
		ExplainKeyword:  "EXPLAIN",
		limitClause: func(limit, offset int) string {
			if offset >= 0 {
				return fmt.Sprintf("LIMIT %d, %d", offset, limit)
			}
			return fmt.Sprintf("LIMIT %d", limit)
		},
	},
	core.EngineMongoDB: {
		Name:            string(core.EngineMongoDB),
		DisplayName:     "MongoDB",
		QuoteChar:       `"`,
		QuoteEnd:        `"`,
		DateFormat:      "ISO 8601",
		SupportsExplain: false,
		limitClause: func(limit, offset int) string {
			// Document store: no SQL pagination clause, expressed as cursor
			// modifiers for callers that template queries.
			if offset >= 0 {
				return fmt.Sprintf(".skip(%d).limit(%d)", offset, limit)
			}
			return fmt.Sprintf(".limit(%d)", limit)
		},
	},
	core.EngineClickHouse: {
		Name:            string(core.EngineClickHouse),
		DisplayName:     "ClickHouse",
		QuoteChar:       "`",
		QuoteEnd:        "`",
		DateFormat:      "YYYY-MM-DD",
		SupportsExplain: true,
		ExplainKeyword:  "EXPLAIN",
		limitClause:     limitOffset,
	},
}
