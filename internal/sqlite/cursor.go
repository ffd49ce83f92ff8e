package sqlite

import (
	"fmt"
	"strings"

	"github.com/dukaforge/strata/pkg/types"
)

// Cursors materialize their result set at open time. Updates and deletes
// address rows by rowid, so a row scanned before a mutation is still
// addressable after it.

// readCursor yields scanned rows in order.
type readCursor struct {
	proto *types.Row // fixes the name-to-index translation at open
	rows  [][]any
	pos   int
}

// updateCursor extends readCursor with by-rowid writes and deletes.
type updateCursor struct {
	readCursor
	store  *Store
	table  string
	cols   []string // requested names, shape pseudo-column included
	phys   []string // physical names, parallel to cols
	rowids []int64
}

// insertCursor appends rows through a fixed column list.
type insertCursor struct {
	store *Store
	table string
	cols  []string
	stmt  string
}

// OpenRead opens a read cursor over the given columns. Nil or "*" selects
// every column.
func (s *Store) OpenRead(table string, cols []string, where string) (types.ReadCursor, error) {
	cols, err := s.resolveColumns(table, cols)
	if err != nil {
		return nil, err
	}
	rows, _, err := s.scan(table, cols, where, false)
	if err != nil {
		return nil, err
	}
	return &readCursor{proto: types.NewRow(cols, nil), rows: rows}, nil
}

// OpenUpdate opens an update cursor over the given columns.
func (s *Store) OpenUpdate(table string, cols []string, where string) (types.UpdateCursor, error) {
	cols, err := s.resolveColumns(table, cols)
	if err != nil {
		return nil, err
	}
	rows, rowids, err := s.scan(table, cols, where, true)
	if err != nil {
		return nil, err
	}
	return &updateCursor{
		readCursor: readCursor{proto: types.NewRow(cols, nil), rows: rows},
		store:      s,
		table:      table,
		cols:       cols,
		phys:       physicalColumns(cols),
		rowids:     rowids,
	}, nil
}

// OpenInsert opens an insert cursor over the given columns.
func (s *Store) OpenInsert(table string, cols []string) (types.InsertCursor, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: insert into %s", types.ErrNoColumns, table)
	}
	if !s.Exists(table) {
		return nil, fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}
	phys := physicalColumns(cols)
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(phys, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(phys)), ", "),
	)
	return &insertCursor{store: s, table: table, cols: cols, stmt: stmt}, nil
}

// resolveColumns expands nil or "*" to the full schema column list.
func (s *Store) resolveColumns(table string, cols []string) ([]string, error) {
	if len(cols) == 0 || (len(cols) == 1 && cols[0] == "*") {
		schema, err := s.Schema(table)
		if err != nil {
			return nil, err
		}
		return schema.Names(), nil
	}
	if !s.Exists(table) {
		return nil, fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}
	return cols, nil
}

// scan runs the select and materializes every matching row, plus rowids
// when withRowID is set.
func (s *Store) scan(table string, cols []string, where string, withRowID bool) ([][]any, []int64, error) {
	phys := physicalColumns(cols)
	selected := strings.Join(phys, ", ")
	if withRowID {
		selected = "rowid, " + selected
	}
	q := fmt.Sprintf("SELECT %s FROM %s", selected, table)
	if where != "" {
		q += " WHERE " + where
	}

	rs, err := s.q().Query(q)
	if err != nil {
		return nil, nil, fmt.Errorf("opening cursor on %s: %w", table, err)
	}
	defer rs.Close()

	var out [][]any
	var rowids []int64
	for rs.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, 0, len(cols)+1)
		var rowid int64
		if withRowID {
			ptrs = append(ptrs, &rowid)
		}
		for i := range vals {
			ptrs = append(ptrs, &vals[i])
		}
		if err := rs.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scanning row of %s: %w", table, err)
		}
		out = append(out, vals)
		if withRowID {
			rowids = append(rowids, rowid)
		}
	}
	if err := rs.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading rows of %s: %w", table, err)
	}
	return out, rowids, nil
}

func (c *readCursor) Columns() []string { return c.proto.Columns() }

func (c *readCursor) Next() (*types.Row, error) {
	if c.pos >= len(c.rows) {
		return nil, nil
	}
	row := c.proto.WithValues(c.rows[c.pos])
	c.pos++
	return row, nil
}

func (c *readCursor) Close() error { return nil }

// UpdateRow writes the row's values back to the current row.
func (c *updateCursor) UpdateRow(row *types.Row) error {
	rowid, err := c.currentRowID()
	if err != nil {
		return err
	}
	sets := make([]string, len(c.phys))
	args := make([]any, 0, len(c.phys)+1)
	for i, p := range c.phys {
		sets[i] = p + " = ?"
		args = append(args, row.Value(i))
	}
	args = append(args, rowid)
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE rowid = ?", c.table, strings.Join(sets, ", "))
	if _, err := c.store.q().Exec(stmt, args...); err != nil {
		return fmt.Errorf("updating row of %s: %w", c.table, err)
	}
	return nil
}

// DeleteRow deletes the current row.
func (c *updateCursor) DeleteRow() error {
	rowid, err := c.currentRowID()
	if err != nil {
		return err
	}
	if _, err := c.store.q().Exec(
		fmt.Sprintf("DELETE FROM %s WHERE rowid = ?", c.table), rowid,
	); err != nil {
		return fmt.Errorf("deleting row of %s: %w", c.table, err)
	}
	return nil
}

// currentRowID returns the rowid of the row most recently yielded by Next.
func (c *updateCursor) currentRowID() (int64, error) {
	if c.pos == 0 || c.pos > len(c.rowids) {
		return 0, fmt.Errorf("%w: no current row on %s", types.ErrTransactionState, c.table)
	}
	return c.rowids[c.pos-1], nil
}

func (c *insertCursor) Columns() []string { return c.cols }

// InsertRow appends one row and returns the store-assigned surrogate id.
func (c *insertCursor) InsertRow(vals []any) (int64, error) {
	if len(vals) != len(c.cols) {
		return 0, fmt.Errorf("insert into %s: %d values for %d columns", c.table, len(vals), len(c.cols))
	}
	res, err := c.store.q().Exec(c.stmt, vals...)
	if err != nil {
		return 0, fmt.Errorf("inserting row into %s: %w", c.table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting row into %s: %w", c.table, err)
	}
	return id, nil
}

func (c *insertCursor) Close() error { return nil }
