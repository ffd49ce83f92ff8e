package crud

import (
	"fmt"

	"github.com/dukaforge/strata/pkg/query"
	"github.com/dukaforge/strata/pkg/types"
)

// Delete removes the rows matching the filter and returns how many were
// deleted. The row count runs first: more than one match with failOnMulti
// is ErrMultiplicity, zero matches with errorOnNoRows is ErrNotFound, zero
// matches otherwise returns 0 with no error.
func (e *Engine) Delete(filter map[string]any, failOnMulti, errorOnNoRows bool) (int, error) {
	where := query.And(filter)

	n, err := e.store.RowCount(e.table, where)
	if err != nil {
		return 0, err
	}
	if n > 1 && failOnMulti {
		return 0, fmt.Errorf("%w: delete filter %v matched %d rows in %s",
			types.ErrMultiplicity, filter, n, e.table)
	}
	if n == 0 {
		if errorOnNoRows {
			return 0, fmt.Errorf("%w: delete filter %v in %s", types.ErrNotFound, filter, e.table)
		}
		return 0, nil
	}
	return e.deleteWhere(where)
}

// DeleteWhere removes the rows matching an arbitrary where clause and
// returns how many were deleted. A wildcard or empty clause is rejected
// with ErrUnboundedDelete; use DeleteAllRows to wipe a table deliberately.
func (e *Engine) DeleteWhere(where string) (int, error) {
	if where == "" || where == "*" {
		return 0, fmt.Errorf("%w: delete from %s needs a narrowing clause", types.ErrUnboundedDelete, e.table)
	}
	if err := query.ValidateClause(where); err != nil {
		return 0, err
	}
	return e.deleteWhere(where)
}

// DeleteAllRows removes every row from the table. This is the explicit
// override for the DeleteWhere safety check.
func (e *Engine) DeleteAllRows() (int, error) {
	return e.deleteWhere("")
}

func (e *Engine) deleteWhere(where string) (int, error) {
	idCol, err := e.idColumn()
	if err != nil {
		return 0, err
	}

	cur, err := e.store.OpenUpdate(e.table, []string{idCol}, where)
	if err != nil {
		return 0, err
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
		if err := cur.DeleteRow(); err != nil {
			return n, err
		}
		n++
	}
}
