// Package query builds SQL where clauses from column/value pairs for the
// crud engine. String values are single quoted with embedded quotes doubled;
// everything else is stringified. The geometry pseudo-column never appears
// in a clause.
package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dukaforge/strata/pkg/types"
)

// ErrDoubleQuoted rejects caller-supplied clauses that quote text with
// double quotes; tabular stores expect single-quoted strings.
var ErrDoubleQuoted = errors.New("string values in where clauses must be single quoted")

// Value renders a single value for use in a where clause.
func Value(v any) string {
	switch t := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(t, "'", "''") + "'"
	case bool:
		if t {
			return "1"
		}
		return "0"
	case nil:
		return "NULL"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Equals renders a single col=value comparison.
func Equals(col string, v any) string {
	if v == nil {
		return IsNull(col)
	}
	return fmt.Sprintf("%s=%s", col, Value(v))
}

// And renders an AND-conjunction of equality comparisons from the filter.
// Columns are emitted in sorted order so the clause is deterministic, and
// the shape pseudo-column is skipped. An empty filter renders "".
func And(filter map[string]any) string {
	cols := make([]string, 0, len(filter))
	for c := range filter {
		if strings.EqualFold(c, types.ShapeColumn) {
			continue
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)

	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		parts = append(parts, Equals(c, filter[c]))
	}
	return strings.Join(parts, " AND ")
}

// In renders a col IN (...) membership test. With no values the test is
// vacuously false; SQLite rejects an empty list.
func In(col string, values ...any) string {
	if len(values) == 0 {
		return "1=0"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Value(v)
	}
	return fmt.Sprintf("%s IN (%s)", col, strings.Join(parts, ","))
}

// IsNull renders a null test.
func IsNull(col string) string { return col + " IS NULL" }

// IsNotNull renders a not-null test.
func IsNotNull(col string) string { return col + " IS NOT NULL" }

// ValidateClause checks a caller-supplied where clause for double-quoted
// text values.
func ValidateClause(where string) error {
	if strings.Contains(where, `"`) {
		return fmt.Errorf("%w: %s", ErrDoubleQuoted, where)
	}
	return nil
}
