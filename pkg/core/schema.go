package core

import "time"

// Column describes one column of a discovered table.
type Column struct {
	Name       string  `yaml:"name" json:"name"`
	Type       string  `yaml:"type" json:"type"`
	Nullable   bool    `yaml:"nullable" json:"nullable"`
	Default    *string `yaml:"default,omitempty" json:"default,omitempty"`
	Position   int     `yaml:"position" json:"position"`
	PrimaryKey bool    `yaml:"primary_key" json:"primary_key"`
	ForeignKey bool    `yaml:"foreign_key" json:"foreign_key"`
}

// ForeignKey describes a column-level reference to another table.
type ForeignKey struct {
	Column           string `yaml:"column" json:"column"`
	ReferencedTable  string `yaml:"referenced_table" json:"referenced_table"`
	ReferencedColumn string `yaml:"referenced_column" json:"referenced_column"`
}

// Index describes one index on a table.
type Index struct {
	Name    string   `yaml:"name" json:"name"`
	Columns []string `yaml:"columns" json:"columns"`
	Unique  bool     `yaml:"unique" json:"unique"`
}

// TableSchema is the normalized description of one table.
type TableSchema struct {
	Columns     []Column     `yaml:"columns" json:"columns"`
	PrimaryKeys []string     `yaml:"primary_keys,omitempty" json:"primary_keys,omitempty"`
	ForeignKeys []ForeignKey `yaml:"foreign_keys,omitempty" json:"foreign_keys,omitempty"`
	Indexes     []Index      `yaml:"indexes,omitempty" json:"indexes,omitempty"`

	// RowCount is best-effort: a failed count leaves it at zero and adds a
	// snapshot warning instead of failing discovery.
	RowCount int64 `yaml:"row_count" json:"row_count"`
}

// Relationship is a flattened foreign-key edge across the whole schema.
type Relationship struct {
	Table            string `yaml:"table" json:"table"`
	Column           string `yaml:"column" json:"column"`
	ReferencedTable  string `yaml:"referenced_table" json:"referenced_table"`
	ReferencedColumn string `yaml:"referenced_column" json:"referenced_column"`
}

// View holds a discovered view name and its definition text.
type View struct {
	Name       string `yaml:"name" json:"name"`
	Definition string `yaml:"definition" json:"definition"`
}

// SchemaSnapshot is the point-in-time schema model produced by discovery.
// It is never persisted; every discovery call recomputes it.
type SchemaSnapshot struct {
	Tables        map[string]TableSchema `yaml:"tables" json:"tables"`
	Relationships []Relationship         `yaml:"relationships,omitempty" json:"relationships,omitempty"`
	Views         []View                 `yaml:"views,omitempty" json:"views,omitempty"`

	// Warnings records per-table failures that degraded instead of aborting
	// discovery (row counts, index and view catalog lookups).
	Warnings []string `yaml:"warnings,omitempty" json:"warnings,omitempty"`

	DiscoveredAt time.Time `yaml:"discovered_at" json:"discovered_at"`
}

// NewSchemaSnapshot returns an empty snapshot stamped with the current time.
func NewSchemaSnapshot() *SchemaSnapshot {
	return &SchemaSnapshot{
		Tables:       make(map[string]TableSchema),
		DiscoveredAt: time.Now().UTC(),
	}
}
