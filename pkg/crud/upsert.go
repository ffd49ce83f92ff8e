package crud

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dukaforge/strata/pkg/query"
	"github.com/dukaforge/strata/pkg/types"
)

// writeHint qualifies low-level store write failures; they are usually the
// result of incorrect column names, mismatched data types, string truncation
// or locking issues.
const writeHint = "check column names, value types, text lengths and locks"

// UpsertOptions controls how Upsert resolves insert-vs-update ambiguity.
type UpsertOptions struct {
	// ForceInsert always takes the insert path, even when rows match the
	// filter. Needed when upserting by non-key member values.
	ForceInsert bool

	// FailOnMulti makes a multi-row filter match on the update path an
	// ErrMultiplicity instead of updating every match.
	FailOnMulti bool

	// FailOnExists forbids the update path: a matching row becomes
	// ErrInsertTargetExists.
	FailOnExists bool

	// RequireUpdate makes a zero-row filter match an ErrNotFound instead
	// of an insert.
	RequireUpdate bool
}

// Upsert inserts or updates depending on whether any row matches the filter.
// values holds the column/value pairs to write; when it is empty on the
// insert path, the filter itself is inserted as the row payload.
//
// Returns the new surrogate id with inserted=true when a row was inserted,
// and (0, false) when existing rows were updated.
func (e *Engine) Upsert(filter, values map[string]any, opts UpsertOptions) (int64, bool, error) {
	values = remapShape(values)
	where := query.And(filter)

	n, err := e.store.RowCount(e.table, where)
	if err != nil {
		return 0, false, err
	}
	exists := n > 0

	if !exists && opts.RequireUpdate {
		return 0, false, fmt.Errorf("%w: upsert expected an update but nothing matched %v in %s",
			types.ErrNotFound, filter, e.table)
	}

	if exists && !opts.ForceInsert {
		if len(values) == 0 || opts.FailOnExists {
			return 0, false, fmt.Errorf("%w: upsert meant as insert matched %v in %s",
				types.ErrInsertTargetExists, filter, e.table)
		}
		if opts.FailOnMulti && n > 1 {
			return 0, false, fmt.Errorf("%w: upsert filter %v matched %d rows in %s",
				types.ErrMultiplicity, filter, n, e.table)
		}
		if _, err := e.updateWhere(where, values); err != nil {
			return 0, false, err
		}
		return 0, false, nil
	}

	payload := values
	if len(payload) == 0 {
		// Shortcut insert: the caller supplied only the filter.
		payload = filter
	} else {
		payload = mergeFilterKeys(payload, filter)
	}
	id, err := e.insert(payload)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// Insert adds one row and returns its surrogate id. More efficient than
// Upsert as no existence probe runs.
func (e *Engine) Insert(values map[string]any) (int64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: insert into %s", types.ErrNoColumns, e.table)
	}
	return e.insert(remapShape(values))
}

// InsertMulti adds one row per map and returns the new surrogate ids in
// order. Not atomic by itself; callers wanting all-or-nothing run it inside
// a coordinated transaction.
func (e *Engine) InsertMulti(rows []map[string]any) ([]int64, error) {
	ids := make([]int64, 0, len(rows))
	for _, values := range rows {
		id, err := e.Insert(values)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// UpdateWhere writes the column/value pairs to every row matching an
// arbitrary where clause and returns the number of rows updated.
func (e *Engine) UpdateWhere(where string, values map[string]any) (int, error) {
	if err := query.ValidateClause(where); err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: update of %s", types.ErrNoColumns, e.table)
	}
	return e.updateWhere(where, remapShape(values))
}

func (e *Engine) insert(values map[string]any) (int64, error) {
	cols := sortedColumns(values)
	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = values[c]
	}

	cur, err := e.store.OpenInsert(e.table, cols)
	if err != nil {
		return 0, fmt.Errorf("%w: insert into %s: %v (%s)", types.ErrSchemaMismatch, e.table, err, writeHint)
	}
	defer cur.Close()

	id, err := cur.InsertRow(vals)
	if err != nil {
		return 0, fmt.Errorf("%w: insert into %s: %v (%s)", types.ErrSchemaMismatch, e.table, err, writeHint)
	}
	return id, nil
}

func (e *Engine) updateWhere(where string, values map[string]any) (int, error) {
	cols := sortedColumns(values)

	cur, err := e.store.OpenUpdate(e.table, cols, where)
	if err != nil {
		return 0, fmt.Errorf("%w: update of %s: %v (%s)", types.ErrSchemaMismatch, e.table, err, writeHint)
	}
	defer cur.Close()

	n := 0
	for {
		row, err := cur.Next()
		if err != nil {
			return n, err
		}
		if row == nil {
			return n, nil
		}
		for _, c := range cols {
			if err := row.SetNamed(c, values[c]); err != nil {
				return n, err
			}
		}
		if err := cur.UpdateRow(row); err != nil {
			return n, fmt.Errorf("%w: update of %s: %v (%s)", types.ErrSchemaMismatch, e.table, err, writeHint)
		}
		n++
	}
}

// remapShape renames a bare "shape" key to the reserved pseudo-column so
// geometry writes reach the store's shape accessor.
func remapShape(values map[string]any) map[string]any {
	for k := range values {
		if strings.EqualFold(k, "shape") {
			out := make(map[string]any, len(values))
			for k2, v := range values {
				if strings.EqualFold(k2, "shape") {
					out[types.ShapeColumn] = v
				} else {
					out[k2] = v
				}
			}
			return out
		}
	}
	return values
}

// mergeFilterKeys adds the filter's key columns to an insert payload when
// they are not already present.
func mergeFilterKeys(values, filter map[string]any) map[string]any {
	missing := false
	for k, v := range filter {
		if _, ok := values[k]; !ok && v != nil {
			missing = true
			break
		}
	}
	if !missing {
		return values
	}
	out := make(map[string]any, len(values)+len(filter))
	for k, v := range values {
		out[k] = v
	}
	for k, v := range filter {
		if _, ok := out[k]; !ok && v != nil {
			out[k] = v
		}
	}
	return out
}

func sortedColumns(values map[string]any) []string {
	cols := make([]string, 0, len(values))
	for c := range values {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}
