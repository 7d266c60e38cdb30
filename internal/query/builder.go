// Package query compiles sparse equality filters into parameterized SELECT
// statements.
package query

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultLimit is the row limit applied when the caller does not specify one.
const DefaultLimit = 5

// BuiltQuery pairs a query template containing @name placeholders with the
// values to bind to them. Filter values never appear in the SQL text itself;
// they reach the backend only through Params.
type BuiltQuery struct {
	SQL    string
	Params map[string]any
}

// Build compiles filters into "SELECT * FROM table [WHERE ...] LIMIT n".
//
// An entry whose value is nil or the empty string is not a constraint and is
// dropped entirely; it appears in neither the predicate list nor Params.
// Remaining entries become "name = @name" predicates joined with AND, in
// sorted field-name order so identical inputs always yield byte-identical
// output. With no surviving entries the WHERE clause is omitted.
//
// table and limit are trusted caller configuration and are interpolated;
// limit values <= 0 fall back to DefaultLimit. Build is a total function —
// it has no failure path.
func Build(table string, filters map[string]any, limit int) BuiltQuery {
	if limit <= 0 {
		limit = DefaultLimit
	}

	names := make([]string, 0, len(filters))
	for name, v := range filters {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	params := make(map[string]any, len(names))
	preds := make([]string, 0, len(names))
	for _, name := range names {
		preds = append(preds, fmt.Sprintf("%s = @%s", name, name))
		params[name] = filters[name]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT * FROM %s", table)
	if len(preds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(preds, " AND "))
	}
	fmt.Fprintf(&b, " LIMIT %d", limit)

	return BuiltQuery{SQL: b.String(), Params: params}
}
