package crud

import (
	"errors"
	"testing"

	"github.com/dukaforge/strata/pkg/types"
)

func TestUpsert_InsertPathReturnsID(t *testing.T) {
	e, _ := newOrdersEngine(t)

	id, inserted, err := e.Upsert(
		map[string]any{"orderid": 1, "supplier": "Acme"},
		map[string]any{"total": 100.0},
		UpsertOptions{},
	)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !inserted || id == 0 {
		t.Errorf("Upsert = (%d, %v), want inserted with id", id, inserted)
	}

	// The filter keys are merged into the inserted row.
	vals, err := e.Lookup([]string{"supplier", "total"}, map[string]any{"orderid": 1})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if vals[0] != "Acme" || vals[1] != 100.0 {
		t.Errorf("row = %v, want filter keys merged with values", vals)
	}
}

func TestUpsert_UpdatePathReturnsNoID(t *testing.T) {
	e, _ := newOrdersEngine(t)
	mustInsert(t, e, map[string]any{"orderid": 1, "supplier": "Acme", "total": 100.0})

	id, inserted, err := e.Upsert(
		map[string]any{"orderid": 1, "supplier": "Acme"},
		map[string]any{"total": 150.0},
		UpsertOptions{},
	)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if inserted || id != 0 {
		t.Errorf("Upsert = (%d, %v), want (0, false) on the update path", id, inserted)
	}

	n, _ := e.RowCount("")
	if n != 1 {
		t.Errorf("rows after update = %d, want 1", n)
	}
	vals, _ := e.Lookup([]string{"total"}, map[string]any{"orderid": 1})
	if vals[0] != 150.0 {
		t.Errorf("total = %v, want 150", vals[0])
	}
}

func TestUpsert_ShortcutInsert(t *testing.T) {
	e, _ := newOrdersEngine(t)

	// Empty values on the insert path: the filter is the payload.
	id, inserted, err := e.Upsert(map[string]any{"orderid": 7, "supplier": "Acme"}, nil, UpsertOptions{})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !inserted || id == 0 {
		t.Errorf("Upsert = (%d, %v), want inserted", id, inserted)
	}

	// Empty values against an existing row is an insert that found its
	// target occupied.
	_, _, err = e.Upsert(map[string]any{"orderid": 7, "supplier": "Acme"}, nil, UpsertOptions{})
	if !errors.Is(err, types.ErrInsertTargetExists) {
		t.Errorf("err = %v, want ErrInsertTargetExists", err)
	}
}

func TestUpsert_FailOnExists(t *testing.T) {
	e, _ := newOrdersEngine(t)
	mustInsert(t, e, map[string]any{"orderid": 1})

	_, _, err := e.Upsert(
		map[string]any{"orderid": 1},
		map[string]any{"total": 100.0},
		UpsertOptions{FailOnExists: true},
	)
	if !errors.Is(err, types.ErrInsertTargetExists) {
		t.Errorf("err = %v, want ErrInsertTargetExists", err)
	}
}

func TestUpsert_RequireUpdate(t *testing.T) {
	e, _ := newOrdersEngine(t)

	_, _, err := e.Upsert(
		map[string]any{"orderid": 99},
		map[string]any{"total": 100.0},
		UpsertOptions{RequireUpdate: true},
	)
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpsert_FailOnMulti(t *testing.T) {
	e, _ := newOrdersEngine(t)
	mustInsert(t, e, map[string]any{"orderid": 1, "supplier": "Acme"})
	mustInsert(t, e, map[string]any{"orderid": 1, "supplier": "Widget Co"})

	_, _, err := e.Upsert(
		map[string]any{"orderid": 1},
		map[string]any{"total": 0.0},
		UpsertOptions{FailOnMulti: true},
	)
	if !errors.Is(err, types.ErrMultiplicity) {
		t.Errorf("err = %v, want ErrMultiplicity", err)
	}

	// Without the flag every match updates.
	_, _, err = e.Upsert(
		map[string]any{"orderid": 1},
		map[string]any{"total": 0.0},
		UpsertOptions{},
	)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	n, _ := e.RowCount("total=0")
	if n != 2 {
		t.Errorf("updated %d rows, want 2", n)
	}
}

func TestUpsert_ForceInsertSkipsProbe(t *testing.T) {
	e, _ := newOrdersEngine(t)
	mustInsert(t, e, map[string]any{"orderid": 1, "supplier": "Acme"})

	id, inserted, err := e.Upsert(
		map[string]any{"orderid": 1, "supplier": "Acme"},
		map[string]any{"total": 100.0},
		UpsertOptions{ForceInsert: true},
	)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !inserted || id == 0 {
		t.Errorf("Upsert = (%d, %v), want a second row inserted", id, inserted)
	}
	n, _ := e.RowCount("orderid=1")
	if n != 2 {
		t.Errorf("rows = %d, want 2", n)
	}
}

func TestUpsert_BadColumnWrapsSchemaMismatch(t *testing.T) {
	e, _ := newOrdersEngine(t)

	_, _, err := e.Upsert(map[string]any{"orderid": 1}, map[string]any{"nosuch": 1}, UpsertOptions{})
	if !errors.Is(err, types.ErrSchemaMismatch) {
		t.Errorf("err = %v, want ErrSchemaMismatch", err)
	}
}

func TestInsert_NoColumns(t *testing.T) {
	e, _ := newOrdersEngine(t)
	if _, err := e.Insert(nil); !errors.Is(err, types.ErrNoColumns) {
		t.Errorf("err = %v, want ErrNoColumns", err)
	}
}

func TestInsertMulti(t *testing.T) {
	e, _ := newOrdersEngine(t)
	ids, err := e.InsertMulti([]map[string]any{
		{"orderid": 1, "supplier": "Acme"},
		{"orderid": 2, "supplier": "Widget Co"},
	})
	if err != nil {
		t.Fatalf("InsertMulti: %v", err)
	}
	if len(ids) != 2 || ids[0] == ids[1] {
		t.Errorf("ids = %v, want two distinct ids", ids)
	}
}

func TestUpdateWhere(t *testing.T) {
	e, _ := newOrdersEngine(t)
	mustInsert(t, e, map[string]any{"orderid": 1, "total": 10.0})
	mustInsert(t, e, map[string]any{"orderid": 2, "total": 20.0})

	n, err := e.UpdateWhere("total < 15", map[string]any{"total": 0.0})
	if err != nil {
		t.Fatalf("UpdateWhere: %v", err)
	}
	if n != 1 {
		t.Errorf("UpdateWhere = %d, want 1", n)
	}

	if _, err := e.UpdateWhere("orderid=1", nil); !errors.Is(err, types.ErrNoColumns) {
		t.Errorf("empty values err = %v, want ErrNoColumns", err)
	}
}
