// Package crud implements record-level create/read/update/delete operations
// against one table of a tabular store, plus the transaction coordinator
// that brackets mutations with edit-session begin/commit/rollback.
//
// Operations are stateless per call: each takes a filter built from
// column/value pairs and dispatches cursors against the store. The stateful
// record mapper lives in package orm and is built on this engine.
package crud

import (
	"fmt"

	"github.com/dukaforge/strata/pkg/query"
	"github.com/dukaforge/strata/pkg/types"
)

// Engine performs CRUD operations against a single table.
type Engine struct {
	store  types.TabularStore
	table  string
	tx     *Coordinator
	schema types.Schema // lazily loaded, immutable per run
}

// Option configures an Engine.
type Option func(*Engine)

// WithSession attaches an edit session so mutations run inside coordinated
// transactions. Without it the coordinator is a no-op and changes apply
// immediately.
func WithSession(s types.EditSession) Option {
	return func(e *Engine) { e.tx = NewCoordinator(s) }
}

// New creates an engine bound to one table of the store.
func New(store types.TabularStore, table string, opts ...Option) *Engine {
	e := &Engine{store: store, table: table, tx: NewCoordinator(nil)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table returns the bound table name.
func (e *Engine) Table() string { return e.table }

// Store returns the underlying store.
func (e *Engine) Store() types.TabularStore { return e.store }

// Tran returns the transaction coordinator.
func (e *Engine) Tran() *Coordinator { return e.tx }

// Schema returns the bound table's schema, loading it on first use.
func (e *Engine) Schema() (types.Schema, error) {
	if e.schema != nil {
		return e.schema, nil
	}
	s, err := e.store.Schema(e.table)
	if err != nil {
		return nil, err
	}
	e.schema = s
	return s, nil
}

// RowCount returns the number of rows matching the where clause. An empty
// clause counts the whole table.
func (e *Engine) RowCount(where string) (int, error) {
	if err := query.ValidateClause(where); err != nil {
		return 0, err
	}
	return e.store.RowCount(e.table, where)
}

// Exists reports whether at least one row matches the filter.
func (e *Engine) Exists(filter map[string]any) (bool, error) {
	n, err := e.store.RowCount(e.table, query.And(filter))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ExistsByKey reports whether any of the given values occur in the column.
func (e *Engine) ExistsByKey(col string, values ...any) (bool, error) {
	n, err := e.store.RowCount(e.table, query.In(col, values...))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Lookup reads the values of cols from the single row matching the filter.
// Passing nil cols or a single "*" reads every column. A zero-row match
// returns a slice of nils the same length as the requested columns, so
// callers detect "not found" without an error; a multi-row match returns
// ErrMultiplicity.
func (e *Engine) Lookup(cols []string, filter map[string]any) ([]any, error) {
	cols, err := e.expandColumns(cols)
	if err != nil {
		return nil, err
	}

	cur, err := e.store.OpenRead(e.table, cols, query.And(filter))
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	var vals []any
	for {
		row, err := cur.Next()
		if err != nil {
			return nil, err
		}
		if row == nil {
			break
		}
		if vals != nil {
			return nil, fmt.Errorf("%w: lookup %v in %s", types.ErrMultiplicity, filter, e.table)
		}
		vals = append([]any(nil), row.Values()...)
	}
	if vals == nil {
		vals = make([]any, len(cols))
	}
	return vals, nil
}

// LookupAll reads the values of cols from every row matching the filter.
// A zero-row match returns an empty slice.
func (e *Engine) LookupAll(cols []string, filter map[string]any) ([][]any, error) {
	cols, err := e.expandColumns(cols)
	if err != nil {
		return nil, err
	}

	cur, err := e.store.OpenRead(e.table, cols, query.And(filter))
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	var out [][]any
	for {
		row, err := cur.Next()
		if err != nil {
			return nil, err
		}
		if row == nil {
			return out, nil
		}
		out = append(out, append([]any(nil), row.Values()...))
	}
}

// expandColumns resolves nil or "*" to the full schema column list.
func (e *Engine) expandColumns(cols []string) ([]string, error) {
	if len(cols) == 0 || (len(cols) == 1 && cols[0] == "*") {
		s, err := e.Schema()
		if err != nil {
			return nil, err
		}
		return s.Names(), nil
	}
	return cols, nil
}

// idColumn returns the surrogate key column of the bound table.
func (e *Engine) idColumn() (string, error) {
	s, err := e.Schema()
	if err != nil {
		return "", err
	}
	return s.IDColumn(), nil
}
