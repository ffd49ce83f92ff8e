// Package sqlite implements the tabular workspace store over SQLite.
// One workspace is one database file; tables carry an INTEGER PRIMARY KEY
// AUTOINCREMENT surrogate key, reported first in every schema. The store
// also implements the edit-session primitive: BeginEdit opens a
// transaction, operations are savepoints inside it, and all cursor traffic
// routes through the open transaction while editing.
package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/dukaforge/strata/pkg/types"
)

// Compile-time interface checks.
var (
	_ types.TabularStore = (*Store)(nil)
	_ types.EditSession  = (*Store)(nil)
)

// shapePhysical is the on-disk column backing the shape pseudo-column.
const shapePhysical = "shape"

// Store is a SQLite-backed workspace.
type Store struct {
	workspace string
	db        *sql.DB

	mu   sync.Mutex
	tx   *sql.Tx // open edit session, nil when not editing
	opID string  // open savepoint name, "" when no operation is open
}

// Open opens (creating if needed) the workspace database file.
func Open(workspace string) (*Store, error) {
	if workspace == "" {
		return nil, types.ErrWorkspaceEmpty
	}
	db, err := sql.Open("sqlite", workspace)
	if err != nil {
		return nil, fmt.Errorf("opening workspace %s: %w", workspace, err)
	}
	// The workspace contract is single-threaded, one session per store.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring workspace %s: %w", workspace, err)
	}
	return &Store{workspace: workspace, db: db}, nil
}

// Workspace returns the workspace path the store was opened with.
func (s *Store) Workspace() string { return s.workspace }

// Close discards any open edit session and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
		s.opID = ""
	}
	s.mu.Unlock()
	return s.db.Close()
}

// querier is the common subset of *sql.DB and *sql.Tx the store uses, so
// every operation transparently joins an open edit session.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func (s *Store) q() querier {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Exists reports whether the table exists in the workspace.
func (s *Store) Exists(table string) bool {
	var name string
	err := s.q().QueryRow(
		"SELECT name FROM sqlite_master WHERE type IN ('table','view') AND name = ?", table,
	).Scan(&name)
	return err == nil
}

// Schema returns the ordered column list of the table, surrogate key first.
func (s *Store) Schema(table string) (types.Schema, error) {
	rows, err := s.q().Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("reading schema of %s: %w", table, err)
	}
	defer rows.Close()

	var schema types.Schema
	var key *types.Field
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("reading schema of %s: %w", table, err)
		}
		f := types.Field{
			Name:     name,
			Type:     typ,
			Nullable: notNull == 0,
			Editable: pk == 0,
			Length:   declaredLength(typ),
		}
		if pk != 0 && key == nil {
			key = &f
			continue
		}
		schema = append(schema, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading schema of %s: %w", table, err)
	}
	if key == nil && schema == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}
	if key != nil {
		schema = append(types.Schema{*key}, schema...)
	}
	return schema, nil
}

// declaredLength extracts N from declared types like VARCHAR(50). Two
// argument types like DECIMAL(10,2) yield the first argument.
func declaredLength(typ string) int {
	open := strings.IndexByte(typ, '(')
	end := strings.IndexByte(typ, ')')
	if open < 0 || end < open {
		return 0
	}
	inner := typ[open+1 : end]
	if comma := strings.IndexByte(inner, ','); comma >= 0 {
		inner = inner[:comma]
	}
	n, err := strconv.Atoi(strings.TrimSpace(inner))
	if err != nil {
		return 0
	}
	return n
}

// RowCount returns the number of rows matching the where clause.
func (s *Store) RowCount(table, where string) (int, error) {
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if where != "" {
		q += " WHERE " + where
	}
	var n int
	if err := s.q().QueryRow(q).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting rows of %s: %w", table, err)
	}
	return n, nil
}

// DeleteEntity removes the table from the workspace.
func (s *Store) DeleteEntity(table string) error {
	if !s.Exists(table) {
		return fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}
	if _, err := s.q().Exec("DROP TABLE " + table); err != nil {
		return fmt.Errorf("dropping %s: %w", table, err)
	}
	return nil
}

// CreateTable creates a table from an explicit schema. A field marked
// non-editable in first position becomes the autoincrement surrogate key.
func (s *Store) CreateTable(name string, schema types.Schema) error {
	if len(schema) == 0 {
		return fmt.Errorf("%w: create %s", types.ErrNoColumns, name)
	}
	cols := make([]string, 0, len(schema))
	for i, f := range schema {
		cols = append(cols, columnSQL(f, i == 0))
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(cols, ", "))
	if _, err := s.q().Exec(stmt); err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	return nil
}

// CreateLike creates an empty table with the template's schema.
func (s *Store) CreateLike(template, newName string) error {
	schema, err := s.Schema(template)
	if err != nil {
		return err
	}
	return s.CreateTable(newName, schema)
}

// AddColumn appends a column to an existing table.
func (s *Store) AddColumn(table string, f types.Field) error {
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, columnSQL(f, false))
	if _, err := s.q().Exec(stmt); err != nil {
		return fmt.Errorf("adding column %s to %s: %w", f.Name, table, err)
	}
	return nil
}

// columnSQL renders one column definition.
func columnSQL(f types.Field, first bool) string {
	typ := f.Type
	if typ == "" {
		typ = "TEXT"
	}
	if f.Length > 0 && !strings.Contains(typ, "(") {
		typ = fmt.Sprintf("%s(%d)", typ, f.Length)
	}
	def := f.Name + " " + typ
	if first && !f.Editable {
		return def + " PRIMARY KEY AUTOINCREMENT"
	}
	if !f.Nullable {
		def += " NOT NULL"
	}
	return def
}

// physicalColumns maps requested column names to on-disk names, translating
// the shape pseudo-column. The returned slice is positionally parallel to
// the request.
func physicalColumns(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		if strings.EqualFold(c, types.ShapeColumn) {
			out[i] = shapePhysical
		} else {
			out[i] = c
		}
	}
	return out
}
