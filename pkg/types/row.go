package types

import "fmt"

// Row is one cursor row, addressable both positionally and by column name.
// The name-to-index translation is fixed once, when the owning cursor is
// opened, and shared by every row it yields.
type Row struct {
	cols  []string
	index map[string]int
	vals  []any
}

// NewRow builds a row over the given column order. The index map is built
// once per column set; cursors reuse it across rows via WithValues.
func NewRow(cols []string, vals []any) *Row {
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[c] = i
	}
	return &Row{cols: cols, index: idx, vals: vals}
}

// WithValues returns a row sharing this row's column order and index map.
func (r *Row) WithValues(vals []any) *Row {
	return &Row{cols: r.cols, index: r.index, vals: vals}
}

// Columns returns the column order. Callers must not modify it.
func (r *Row) Columns() []string { return r.cols }

// Values returns the positional values. Callers must not modify it.
func (r *Row) Values() []any { return r.vals }

// Len returns the number of columns.
func (r *Row) Len() int { return len(r.vals) }

// Value returns the value at position i.
func (r *Row) Value(i int) any { return r.vals[i] }

// SetValue sets the value at position i.
func (r *Row) SetValue(i int, v any) { r.vals[i] = v }

// Named returns the value of the named column.
func (r *Row) Named(col string) (any, error) {
	i, ok := r.index[col]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnUnknown, col)
	}
	return r.vals[i], nil
}

// SetNamed sets the value of the named column.
func (r *Row) SetNamed(col string, v any) error {
	i, ok := r.index[col]
	if !ok {
		return fmt.Errorf("%w: %s", ErrColumnUnknown, col)
	}
	r.vals[i] = v
	return nil
}

// Shape returns the geometry value when the cursor loaded the shape
// pseudo-column, else nil.
func (r *Row) Shape() any {
	i, ok := r.index[ShapeColumn]
	if !ok {
		return nil
	}
	return r.vals[i]
}

// SetShape sets the geometry value. It is a no-op when the cursor did not
// load the shape pseudo-column.
func (r *Row) SetShape(v any) {
	if i, ok := r.index[ShapeColumn]; ok {
		r.vals[i] = v
	}
}
