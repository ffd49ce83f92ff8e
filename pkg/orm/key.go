package orm

import (
	"fmt"

	"github.com/dukaforge/strata/pkg/types"
)

// Key is a record's resolved identity: the surrogate primary key column and
// an optional ordered composite key. Composite columns are validated against
// the schema at construction; uniqueness of their values is not guaranteed
// by the store and is checked at runtime by the operations that care.
type Key struct {
	Primary   string
	Composite []string
}

// ResolveKey validates the composite key columns against the schema and
// returns the typed key. Any column absent from the schema is ErrIdentity;
// matching is case-sensitive.
func ResolveKey(schema types.Schema, composite []string) (Key, error) {
	for _, c := range composite {
		if !schema.Has(c) {
			return Key{}, fmt.Errorf("%w: %q (column names are case sensitive)", types.ErrIdentity, c)
		}
	}
	return Key{Primary: schema.IDColumn(), Composite: composite}, nil
}

// HasPrimaryValue reports whether the fields carry a non-nil primary key
// value.
func (k Key) HasPrimaryValue(fields map[string]any) bool {
	return fields[k.Primary] != nil
}

// HasCompositeValue reports whether at least one composite key component is
// non-nil. Partial composite keys are allowed so callers can probe before
// the data is fully known.
func (k Key) HasCompositeValue(fields map[string]any) bool {
	for _, c := range k.Composite {
		if fields[c] != nil {
			return true
		}
	}
	return false
}

// CompositeValues returns the non-nil composite key components.
func (k Key) CompositeValues(fields map[string]any) map[string]any {
	out := make(map[string]any)
	for _, c := range k.Composite {
		if v := fields[c]; v != nil {
			out[c] = v
		}
	}
	return out
}

// isKeyColumn reports whether the column is the primary key or a composite
// key component.
func (k Key) isKeyColumn(col string) bool {
	if col == k.Primary {
		return true
	}
	for _, c := range k.Composite {
		if c == col {
			return true
		}
	}
	return false
}
