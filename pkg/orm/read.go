package orm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dukaforge/strata/pkg/types"
)

// ReadOption configures one Read call.
type ReadOption func(*readConfig)

type readConfig struct {
	keysOnly bool
}

// KeysOnly stops the read chain after the composite key stage instead of
// falling back to a general member lookup. Used when iterating candidate
// keys where some legitimately do not exist.
func KeysOnly() ReadOption {
	return func(c *readConfig) { c.keysOnly = true }
}

// Read resolves the record against the store and populates its members.
// Four stages, first success wins: primary key equality, composite key
// equality, general member lookup, exhausted. A multiplicity hit on the
// composite key stage is recorded as a warning and falls through; ambiguity
// on the member stage is fatal because no key is left to disambiguate.
//
// On success every member is populated, the record is marked loaded, and
// the resolved primary key is returned with ok=true. When nothing matches,
// ok is false and the record stays unloaded.
func (r *Record) Read(opts ...ReadOption) (int64, bool, error) {
	var cfg readConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	readCols := r.readColumns()
	attempted := false
	var vals []any

	// Stage 1: primary key equality.
	if r.HasPrimaryValue() {
		attempted = true
		got, err := r.engine.Lookup(readCols, map[string]any{r.key.Primary: r.fields[r.key.Primary]})
		if err != nil {
			return 0, false, err
		}
		vals = got
	}

	// Stage 2: composite key equality.
	if allNil(vals) && r.HasCompositeValue() {
		attempted = true
		filter := r.key.CompositeValues(r.fields)
		exists, err := r.engine.Exists(filter)
		if err != nil {
			return 0, false, err
		}
		if exists {
			got, err := r.engine.Lookup(readCols, filter)
			switch {
			case errors.Is(err, types.ErrMultiplicity):
				r.warnf("composite key %v matched more than one row in %s; falling back to member lookup", filter, r.table)
				got = nil
			case err != nil:
				return 0, false, err
			}
			vals = got
		} else {
			r.warnf("composite key %v set but no rows matched in %s; the expected row may not exist", filter, r.table)
		}
	}

	// Stage 4 short-circuit: the caller only trusts keys.
	if allNil(vals) && cfg.keysOnly {
		return 0, false, nil
	}

	// Stage 3: general member lookup.
	if allNil(vals) {
		filter := r.memberValues(r.memberNames(false, false))
		if len(filter) == 0 {
			if attempted {
				return 0, false, nil
			}
			return 0, false, fmt.Errorf("%w: read of %s had no key or member values", types.ErrNoColumns, r.table)
		}
		got, err := r.engine.Lookup(readCols, filter)
		if err != nil {
			if errors.Is(err, types.ErrMultiplicity) {
				return 0, false, fmt.Errorf("member lookup after failed key match was ambiguous (check the primary and composite key values): %w", err)
			}
			return 0, false, err
		}
		vals = got
	}

	if allNil(vals) {
		return 0, false, nil
	}

	for i, col := range readCols {
		if strings.EqualFold(col, types.ShapeColumn) {
			r.shape = vals[i]
			continue
		}
		r.fields[col] = vals[i]
	}
	r.loaded = true
	id, _ := r.ID()
	return id, true, nil
}

// readColumns returns every schema column, the shape column under its
// reserved cursor name.
func (r *Record) readColumns() []string {
	names := r.schema.Names()
	out := make([]string, len(names))
	for i, c := range names {
		if strings.EqualFold(c, "shape") {
			out[i] = types.ShapeColumn
		} else {
			out[i] = c
		}
	}
	return out
}

func allNil(vals []any) bool {
	for _, v := range vals {
		if v != nil {
			return false
		}
	}
	return true
}
