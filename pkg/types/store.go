package types

// ReadCursor yields matching rows one at a time. Next returns (nil, nil)
// once the cursor is exhausted. Cursors block the calling goroutine; there
// is no async entry point.
type ReadCursor interface {
	// Columns returns the column order every yielded Row uses.
	Columns() []string

	// Next returns the next row, or (nil, nil) when exhausted.
	Next() (*Row, error)

	Close() error
}

// UpdateCursor is a ReadCursor whose current row (the row most recently
// returned by Next) can be rewritten or deleted in place.
type UpdateCursor interface {
	ReadCursor

	// UpdateRow writes the row's current values back to the store.
	UpdateRow(*Row) error

	// DeleteRow deletes the current row.
	DeleteRow() error
}

// InsertCursor appends rows to a table and reports the store-assigned
// surrogate id of each inserted row.
type InsertCursor interface {
	Columns() []string
	InsertRow(vals []any) (int64, error)
	Close() error
}

// TabularStore is the backing table store contract: schema introspection,
// row counting, and cursor-based access. A where clause of "" matches every
// row. Implementations are synchronous and single-threaded per workspace.
type TabularStore interface {
	// Schema returns the ordered column list of the table, surrogate
	// primary key first. Returns ErrTableNotFound for unknown tables.
	Schema(table string) (Schema, error)

	// RowCount returns the number of rows matching the where clause. It is
	// an explicit count, never an exhaustion-terminated cursor drain.
	RowCount(table, where string) (int, error)

	// OpenRead opens a read cursor over the given columns. Passing nil or
	// a single "*" selects every column.
	OpenRead(table string, cols []string, where string) (ReadCursor, error)

	// OpenUpdate opens an update cursor over the given columns.
	OpenUpdate(table string, cols []string, where string) (UpdateCursor, error)

	// OpenInsert opens an insert cursor over the given columns.
	OpenInsert(table string, cols []string) (InsertCursor, error)

	// Exists reports whether the table exists in the workspace.
	Exists(table string) bool

	// DeleteEntity removes the table from the workspace.
	DeleteEntity(table string) error

	// CreateLike creates an empty table with the template's schema.
	CreateLike(template, newName string) error

	// AddColumn appends a column to an existing table. Used by the audit
	// logger to stamp shadow tables with their action column.
	AddColumn(table string, f Field) error

	// CreateTable creates a table from an explicit schema. Workspace
	// administration for tooling and tests; the engine itself never calls it.
	CreateTable(name string, schema Schema) error
}

// EditSession is the coarse transaction primitive over a workspace. At most
// one operation is open per session; StartOperation while one is open
// commits the open operation first. There is no true nesting.
type EditSession interface {
	BeginEdit() error
	StartOperation() error
	StopOperation() error

	// StopEditing ends the session, saving when save is true and
	// discarding every open operation otherwise.
	StopEditing(save bool) error

	IsEditing() bool
}
