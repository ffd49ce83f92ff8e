package orm

import (
	"fmt"
	"strings"

	"github.com/dukaforge/strata/pkg/types"
)

// Audit logging: updates and deletes snapshot the pre-mutation row into a
// shadow table named <table>_log, whose columns mirror the parent's plus an
// action column. Adds are never persisted. The shadow schema is checked
// lazily, only when a log write is attempted.

const (
	logSuffix    = "_log"
	actionColumn = "action"

	actionUpdate = "update"
	actionDelete = "delete"
)

// logAction snapshots the row this record identifies into the shadow table,
// stamped with the action, inside its own transaction. Shadow tables that
// do not exist yet are materialized from the parent schema. A missing
// pre-mutation row is skipped silently; the mutation itself will surface
// the problem.
func (r *Record) logAction(action string) error {
	if strings.HasSuffix(strings.ToLower(r.table), logSuffix) {
		return nil
	}
	if r.schema.HasFold(actionColumn) {
		return fmt.Errorf("%w: %s (rename the existing %q column to support per-record logs)",
			types.ErrActionColumnClash, r.table, actionColumn)
	}

	shadow := r.table + logSuffix
	if !r.store.Exists(shadow) {
		if err := r.store.CreateLike(r.table, shadow); err != nil {
			return fmt.Errorf("materializing shadow table %s: %w", shadow, err)
		}
		if err := r.store.AddColumn(shadow, types.Field{
			Name: actionColumn, Type: "TEXT", Nullable: true, Editable: true,
		}); err != nil {
			return fmt.Errorf("materializing shadow table %s: %w", shadow, err)
		}
	}

	// Snapshot the pre-mutation row through a scratch record bound to the
	// same identity.
	snap, err := NewRecord(r.store, r.table, r.key.Composite,
		WithAuditLog(false), WithReadCheck(false), withSessionOf(r))
	if err != nil {
		return err
	}
	if r.HasPrimaryValue() {
		snap.fields[snap.key.Primary] = r.fields[r.key.Primary]
	}
	for c, v := range r.key.CompositeValues(r.fields) {
		snap.fields[c] = v
	}
	_, ok, err := snap.Read(KeysOnly())
	if err != nil {
		return fmt.Errorf("snapshotting %s for audit: %w", r.table, err)
	}
	if !ok {
		return nil
	}

	entry, err := NewRecord(r.store, shadow, r.key.Composite,
		WithAuditLog(false), WithReadCheck(false), withSessionOf(r))
	if err != nil {
		return err
	}
	for c, v := range snap.memberValues(snap.memberNames(true, false)) {
		entry.fields[c] = v
	}
	if snap.shape != nil {
		entry.shape = snap.shape
	}
	entry.fields[actionColumn] = action

	if _, err := entry.Add(AllowExisting(), ForceAdd()); err != nil {
		return r.diagnoseShadowMismatch(shadow, err)
	}
	return nil
}

// diagnoseShadowMismatch checks whether a failed shadow write was caused by
// the shadow table's columns diverging from the parent's (minus action),
// and names the missing columns when so.
func (r *Record) diagnoseShadowMismatch(shadow string, writeErr error) error {
	shadowSchema, err := r.store.Schema(shadow)
	if err != nil {
		return writeErr
	}
	missing, _, _ := r.schema.Diff(shadowSchema)
	if len(missing) > 0 {
		return fmt.Errorf("%w: columns %v exist in %s but not in %s (add them): %v",
			types.ErrTransactionState, missing, r.table, shadow, writeErr)
	}
	return writeErr
}

// withSessionOf shares the source record's edit session, when it has one.
func withSessionOf(src *Record) RecordOption {
	return func(r *Record) { r.session = src.session }
}
