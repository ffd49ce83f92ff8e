// Package orm implements the stateful record mapper on top of the crud
// engine: per-instance records that resolve their identity through a
// surrogate or composite key, read themselves through a fallback chain,
// guard updates behind a prior read, and shadow their mutations into an
// audit log table.
package orm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dukaforge/strata/pkg/crud"
	"github.com/dukaforge/strata/pkg/types"
)

// Record is one row of one table, held as a named field/value map plus
// identity and load state. Unset fields are nil and are excluded from
// filters and write payloads.
type Record struct {
	engine *crud.Engine
	store  types.TabularStore
	table  string
	schema types.Schema
	key    Key

	fields   map[string]any
	shape    any
	loaded   bool
	warnings []string

	session   types.EditSession // nil disables transactions
	auditLog  bool
	readCheck bool
}

// RecordOption configures a Record at construction.
type RecordOption func(*Record)

// WithEditSession attaches the edit session that brackets this record's
// mutations in coordinated transactions.
func WithEditSession(s types.EditSession) RecordOption {
	return func(r *Record) { r.session = s }
}

// WithAuditLog enables or disables shadow-table logging of updates and
// deletes. Enabled by default.
func WithAuditLog(enabled bool) RecordOption {
	return func(r *Record) { r.auditLog = enabled }
}

// WithReadCheck enables or disables the update-before-read guard. Enabled
// by default.
func WithReadCheck(enabled bool) RecordOption {
	return func(r *Record) { r.readCheck = enabled }
}

// WithValues sets initial field values, as if by SetAll.
func WithValues(values map[string]any) RecordOption {
	return func(r *Record) {
		for k, v := range values {
			r.set(k, v)
		}
	}
}

// NewRecord builds a record bound to the table, resolving and validating
// its identity against the table schema. An unknown composite key column is
// ErrIdentity.
func NewRecord(store types.TabularStore, table string, composite []string, opts ...RecordOption) (*Record, error) {
	schema, err := store.Schema(table)
	if err != nil {
		return nil, err
	}
	key, err := ResolveKey(schema, composite)
	if err != nil {
		return nil, fmt.Errorf("record on %s: %w", table, err)
	}

	r := &Record{
		store:     store,
		table:     table,
		schema:    schema,
		key:       key,
		fields:    make(map[string]any),
		auditLog:  true,
		readCheck: true,
	}
	for _, opt := range opts {
		opt(r)
	}

	var engineOpts []crud.Option
	if r.session != nil {
		engineOpts = append(engineOpts, crud.WithSession(r.session))
	}
	r.engine = crud.New(store, table, engineOpts...)

	// Composite key components always exist as members, set or not, so a
	// caller can probe identity before the data is fully known.
	for _, c := range composite {
		if _, ok := r.fields[c]; !ok {
			r.fields[c] = nil
		}
	}
	return r, nil
}

// Table returns the bound table name.
func (r *Record) Table() string { return r.table }

// Key returns the record's resolved identity.
func (r *Record) Key() Key { return r.key }

// Engine returns the underlying crud engine.
func (r *Record) Engine() *crud.Engine { return r.engine }

// Loaded reports whether a successful Read has populated the record since
// the last identity change.
func (r *Record) Loaded() bool { return r.loaded }

// Warnings returns non-fatal conditions collected by the read chain.
func (r *Record) Warnings() []string { return r.warnings }

// Get returns the value of the named field, nil when unset.
func (r *Record) Get(col string) any { return r.fields[col] }

// ID returns the primary key value, 0 and false when unset.
func (r *Record) ID() (int64, bool) {
	return asID(r.fields[r.key.Primary])
}

// Set sets a field value. The reserved shape name routes to SetShape, and
// assigning a new value to a key column resets the loaded state.
func (r *Record) Set(col string, v any) { r.set(col, v) }

// SetAll sets multiple field values.
func (r *Record) SetAll(values map[string]any) {
	for k, v := range values {
		r.set(k, v)
	}
}

// Shape returns the geometry value, nil when unset.
func (r *Record) Shape() any { return r.shape }

// SetShape sets the geometry value.
func (r *Record) SetShape(v any) { r.shape = v }

// HasPrimaryValue reports whether the primary key field is set.
func (r *Record) HasPrimaryValue() bool { return r.key.HasPrimaryValue(r.fields) }

// HasCompositeValue reports whether any composite key component is set.
func (r *Record) HasCompositeValue() bool { return r.key.HasCompositeValue(r.fields) }

// Fields returns a copy of the field map, including unset (nil) members.
func (r *Record) Fields() map[string]any {
	out := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// ValidateColumns diffs the record's member names against the table schema.
// Returns the columns only in the table, in both, and only on the record.
func (r *Record) ValidateColumns() (inDB, both, inMembers []string) {
	members := make(types.Schema, 0, len(r.fields))
	for _, c := range r.memberNames(true, true) {
		members = append(members, types.Field{Name: c})
	}
	onlyDB, b, onlyMembers := r.schema.Diff(members)
	return onlyDB, b, onlyMembers
}

func (r *Record) set(col string, v any) {
	if strings.EqualFold(col, "shape") || strings.EqualFold(col, types.ShapeColumn) {
		r.shape = v
		return
	}
	// Repointing a key column changes the record's identity; members still
	// hold the old row's values, so the load state no longer applies.
	if r.key.isKeyColumn(col) && r.fields[col] != v {
		r.loaded = false
	}
	r.fields[col] = v
}

// memberNames returns field names in deterministic order: schema columns
// first in schema order, then any extra members sorted. Keys are included
// per the flags; the primary key counts as a key, not a member.
func (r *Record) memberNames(includeKeys, includePrimary bool) []string {
	seen := make(map[string]bool, len(r.fields))
	var out []string
	add := func(c string) {
		if seen[c] {
			return
		}
		if _, ok := r.fields[c]; !ok {
			return
		}
		if !includePrimary && c == r.key.Primary {
			return
		}
		if !includeKeys && r.key.isKeyColumn(c) {
			return
		}
		seen[c] = true
		out = append(out, c)
	}
	for _, f := range r.schema {
		add(f.Name)
	}
	extras := make([]string, 0)
	for c := range r.fields {
		if !seen[c] {
			extras = append(extras, c)
		}
	}
	sort.Strings(extras)
	for _, c := range extras {
		add(c)
	}
	return out
}

// memberValues returns the non-nil values of the named members.
func (r *Record) memberValues(names []string) map[string]any {
	out := make(map[string]any, len(names))
	for _, c := range names {
		if v := r.fields[c]; v != nil {
			out[c] = v
		}
	}
	return out
}

// writePayload returns the values an Add or Update writes: every set member
// and composite key component, never the primary key, restricted to
// editable columns when the schema knows them. The shape value joins under
// its reserved name.
func (r *Record) writePayload() map[string]any {
	out := make(map[string]any)
	for c, v := range r.memberValues(r.memberNames(true, false)) {
		if f, ok := r.schema.Field(c); ok && !f.Editable {
			continue
		}
		out[c] = v
	}
	if r.shape != nil {
		out[types.ShapeColumn] = r.shape
	}
	return out
}

// clearMembers resets every non-key member (shape included) to unset.
// Called after delete.
func (r *Record) clearMembers() {
	for _, c := range r.memberNames(false, false) {
		r.fields[c] = nil
	}
	r.shape = nil
	r.loaded = false
}

func (r *Record) warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// asID normalizes a store-returned primary key value.
func asID(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case float64:
		return int64(t), true
	default:
		return 0, false
	}
}
