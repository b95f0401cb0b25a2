// Package validate classifies raw SQL text for read-only connections.
//
// This is a lexical, prefix-based classifier, not a parser: it strips
// comments, normalizes whitespace and case, and checks the leading verb.
// Write operations hidden inside subqueries, multi-statement batches, or
// non-standard syntax are not detected; that is an accepted boundary of the
// safety guarantee, enforced in depth by engine-level read-only sessions
// where available.
package validate

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// Blocked statement verbs by group. Each check is independent; a statement
// matches at most one verb.
var blockedGroups = []struct {
	group string
	verbs []string
}{
	{"write", []string{"INSERT", "UPDATE", "DELETE"}},
	{"schema", []string{"CREATE", "DROP", "ALTER", "TRUNCATE", "RENAME"}},
	{"privileged", []string{"GRANT", "REVOKE", "EXECUTE", "CALL"}},
}

// Query decides whether sql may run against a read-only demo connection.
// Returns nil for permitted statements (SELECT, WITH ... SELECT, EXPLAIN,
// SHOW, and anything else not starting with a blocked verb).
func Query(sql string) *core.ValidationError {
	normalized := normalize(sql)

	for _, g := range blockedGroups {
		for _, verb := range g.verbs {
			if hasVerbPrefix(normalized, verb) {
				return &core.ValidationError{
					Operation: verb,
					Group:     g.group,
					Message: fmt.Sprintf(
						"%s operations are not permitted: the demo database is read-only", verb),
				}
			}
		}
	}
	return nil
}

// normalize strips -- line comments and /* */ block comments, trims
// whitespace, and upper-cases the remainder.
func normalize(sql string) string {
	var b strings.Builder
	i, n := 0, len(sql)

	for i < n {
		if i+1 < n && sql[i] == '-' && sql[i+1] == '-' {
			for i < n && sql[i] != '\n' {
				i++
			}
			b.WriteByte(' ')
			continue
		}
		if i+1 < n && sql[i] == '/' && sql[i+1] == '*' {
			i += 2
			for i+1 < n && !(sql[i] == '*' && sql[i+1] == '/') {
				i++
			}
			i += 2
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(sql[i])
		i++
	}

	return strings.ToUpper(strings.TrimSpace(b.String()))
}

// hasVerbPrefix reports whether s starts with verb followed by a
// non-identifier character or end of input.
func hasVerbPrefix(s, verb string) bool {
	if !strings.HasPrefix(s, verb) {
		return false
	}
	if len(s) == len(verb) {
		return true
	}
	c := s[len(verb)]
	return !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') && c != '_'
}

// Truncate shortens SQL text for logging blocked attempts.
func Truncate(sql string, max int) string {
	sql = strings.TrimSpace(sql)
	if len(sql) <= max {
		return sql
	}
	return sql[:max] + "..."
}
