package core

import "time"

// QueryResult holds a fully materialized result set. Column order matches
// the order reported by the driver; row maps are keyed by column name.
type QueryResult struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
	Duration time.Duration    `json:"duration"`
}

// QuerySample is one entry of the query-performance log: what ran, where,
// how long it took, and any generated optimization suggestions.
type QuerySample struct {
	ID           string        `yaml:"id"`
	ConnectionID string        `yaml:"connection_id"`
	SQL          string        `yaml:"sql"`
	Duration     time.Duration `yaml:"duration"`
	RowCount     int           `yaml:"row_count"`
	ExecutedAt   time.Time     `yaml:"executed_at"`
	Suggestions  []string      `yaml:"suggestions,omitempty"`
}
