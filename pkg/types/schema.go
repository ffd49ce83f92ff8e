package types

import "strings"

// ShapeColumn is the reserved name of the geometry pseudo-column. It is never
// a legal ordinary column name; rows expose it through Shape accessors and
// filter construction skips it.
const ShapeColumn = "shape@"

// Field describes one column of a table schema.
type Field struct {
	Name     string
	Type     string
	Nullable bool
	Editable bool // false for store-managed columns such as the surrogate key
	Length   int  // declared length for text columns, 0 when unspecified
}

// Schema is the ordered column list of a table. Stores return the surrogate
// primary key as the first field.
type Schema []Field

// Has reports whether the schema contains a column with the given name.
// Matching is case-sensitive.
func (s Schema) Has(name string) bool {
	_, ok := s.Field(name)
	return ok
}

// HasFold reports whether the schema contains the column under
// case-insensitive matching.
func (s Schema) HasFold(name string) bool {
	for _, f := range s {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

// Field returns the named column. Matching is case-sensitive.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Name
	}
	return out
}

// EditableNames returns the names of columns that accept writes.
func (s Schema) EditableNames() []string {
	var out []string
	for _, f := range s {
		if f.Editable {
			out = append(out, f.Name)
		}
	}
	return out
}

// IDColumn returns the name of the surrogate primary key column, which is
// always listed first, or "" for an empty schema.
func (s Schema) IDColumn() string {
	if len(s) == 0 {
		return ""
	}
	return s[0].Name
}

// Diff compares this schema's column names against another's. It returns the
// names only in s, the names in both, and the names only in other, using
// case-insensitive matching. Used to diagnose audit shadow-table divergence.
func (s Schema) Diff(other Schema) (onlyHere, both, onlyThere []string) {
	for _, f := range s {
		if other.HasFold(f.Name) {
			both = append(both, f.Name)
		} else {
			onlyHere = append(onlyHere, f.Name)
		}
	}
	for _, f := range other {
		if !s.HasFold(f.Name) {
			onlyThere = append(onlyThere, f.Name)
		}
	}
	return onlyHere, both, onlyThere
}
