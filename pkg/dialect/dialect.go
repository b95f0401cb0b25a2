// Package dialect provides per-engine SQL syntax descriptors: identifier
// quoting, pagination clauses, date-format conventions, and EXPLAIN support.
//
// Descriptors are pure data plus two small formatting helpers. Lookup never
// fails: unknown or unsupported engines fall back to the ANSI descriptor.
package dialect

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// Dialect is an immutable per-engine syntax descriptor.
type Dialect struct {
	// Name is the engine identifier (e.g., "postgresql").
	Name string

	// DisplayName is the human-readable engine name.
	DisplayName string

	// QuoteChar is the identifier quoting character: `"`, "`", or "[".
	QuoteChar string

	// QuoteEnd is the closing quote character; equals QuoteChar except for
	// bracket quoting where it is "]".
	QuoteEnd string

	// DateFormat is the engine's canonical date-format convention.
	DateFormat string

	// SupportsExplain reports whether the engine accepts an EXPLAIN-style
	// statement prefix.
	SupportsExplain bool

	// ExplainKeyword is the EXPLAIN prefix to use when supported.
	ExplainKeyword string

	// limitClause formats the pagination clause. offset < 0 means no offset.
	limitClause func(limit, offset int) string
}

// QuoteIdentifier wraps name in the dialect's quote characters, escaping
// embedded closing quotes by doubling.
func (d Dialect) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, d.QuoteEnd, d.QuoteEnd+d.QuoteEnd)
	return d.QuoteChar + escaped + d.QuoteEnd
}

// LimitClause returns the pagination clause for the given limit and offset.
// Pass offset < 0 for no offset.
func (d Dialect) LimitClause(limit, offset int) string {
	return d.limitClause(limit, offset)
}

// limitOffset is the ANSI-style LIMIT n [OFFSET m] clause shared by most
// engines.
func limitOffset(limit, offset int) string {
	if offset >= 0 {
		return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
	}
	return fmt.Sprintf("LIMIT %d", limit)
}

// Get returns the dialect descriptor for an engine type, or the ANSI default
// for unknown or unsupported engines.
func Get(engine core.EngineType) Dialect {
	if d, ok := builtin[engine]; ok {
		return d
	}
	return ansi
}
