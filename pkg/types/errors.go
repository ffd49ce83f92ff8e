package types

import "errors"

// Engine operation errors. Call sites wrap these with fmt.Errorf("...: %w")
// to attach table names and filters; callers match with errors.Is.
var (
	// ErrIdentity is returned when a composite key names a column that does
	// not exist in the table schema. Column matching is case-sensitive.
	ErrIdentity = errors.New("composite key column not in schema")

	// ErrMultiplicity is returned when a lookup, update or delete matched
	// more rows than the caller's policy allows.
	ErrMultiplicity = errors.New("filter matched more than one row")

	// ErrNotFound is returned when an operation expected a matching row and
	// found none.
	ErrNotFound = errors.New("no row matched")

	// ErrSchemaMismatch wraps low-level store write failures: bad column
	// names, type mismatches, string truncation, lock violations.
	ErrSchemaMismatch = errors.New("store rejected write")

	// ErrInsertTargetExists is returned when an insert-intended upsert
	// matched an existing row.
	ErrInsertTargetExists = errors.New("insert target already exists")

	// ErrTransactionState is returned for edit-session misuse and for
	// audit shadow-table schema divergence.
	ErrTransactionState = errors.New("invalid transaction state")

	// ErrPrecondition is returned when Update is called before a successful
	// Read while the read check is enabled.
	ErrPrecondition = errors.New("update attempted before read")

	// ErrNoKey is returned when a keyed operation has neither a primary key
	// value nor any composite key value.
	ErrNoKey = errors.New("no primary or composite key value set")

	// ErrNoColumns is returned when no columns could be identified for an
	// operation because no field values were set.
	ErrNoColumns = errors.New("no columns identified for operation")

	// ErrUnboundedDelete rejects a delete-by-clause with no narrowing
	// filter unless the caller explicitly asks for a full wipe.
	ErrUnboundedDelete = errors.New("unbounded delete rejected")

	// ErrActionColumnClash is returned when audit logging is attempted on a
	// table that already carries an "action" column of its own.
	ErrActionColumnClash = errors.New("parent table has an action column")

	// ErrColumnUnknown is returned for by-name row access to a column that
	// was not part of the cursor's column set.
	ErrColumnUnknown = errors.New("column not in cursor")

	// ErrTableNotFound is returned by stores for operations against a table
	// that does not exist in the workspace.
	ErrTableNotFound = errors.New("table not found")
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrWorkspaceEmpty = errors.New("workspace must not be empty")
)
