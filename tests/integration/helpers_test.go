// Package integration exercises the full stack: sqlite store, crud engine,
// record mapper, edit sessions and audit logging against a real workspace
// file.
package integration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dukaforge/strata/internal/sqlite"
	"github.com/dukaforge/strata/pkg/types"
)

// newWorkspace opens a store over a fresh workspace file and returns the
// store plus the file path, so tests can close and reopen it.
func newWorkspace(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strata.db")
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

// newOrdersWorkspace opens a workspace with an orders table already created.
func newOrdersWorkspace(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	store, path := newWorkspace(t)
	require.NoError(t, store.CreateTable("orders", types.Schema{
		{Name: "id", Type: "INTEGER", Nullable: false, Editable: false},
		{Name: "orderid", Type: "INTEGER", Nullable: true, Editable: true},
		{Name: "supplier", Type: "TEXT", Nullable: true, Editable: true, Length: 50},
		{Name: "total", Type: "REAL", Nullable: true, Editable: true},
	}))
	return store, path
}
