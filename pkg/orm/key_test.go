package orm

import (
	"errors"
	"testing"

	"github.com/dukaforge/strata/pkg/types"
)

func testSchema() types.Schema {
	return types.Schema{
		{Name: "id", Type: "INTEGER", Nullable: false, Editable: false},
		{Name: "orderid", Type: "INTEGER", Nullable: true, Editable: true},
		{Name: "supplier", Type: "TEXT", Nullable: true, Editable: true},
		{Name: "total", Type: "REAL", Nullable: true, Editable: true},
	}
}

func TestResolveKey(t *testing.T) {
	k, err := ResolveKey(testSchema(), []string{"orderid", "supplier"})
	if err != nil {
		t.Fatalf("ResolveKey: %v", err)
	}
	if k.Primary != "id" {
		t.Errorf("Primary = %q, want id", k.Primary)
	}
	if len(k.Composite) != 2 {
		t.Errorf("Composite = %v, want 2 columns", k.Composite)
	}
}

func TestResolveKey_UnknownColumn(t *testing.T) {
	_, err := ResolveKey(testSchema(), []string{"orderid", "vendor"})
	if !errors.Is(err, types.ErrIdentity) {
		t.Errorf("err = %v, want ErrIdentity", err)
	}
}

func TestResolveKey_CaseSensitive(t *testing.T) {
	_, err := ResolveKey(testSchema(), []string{"OrderID"})
	if !errors.Is(err, types.ErrIdentity) {
		t.Errorf("err = %v, want ErrIdentity for case mismatch", err)
	}
}

func TestKey_ValuePredicates(t *testing.T) {
	k, _ := ResolveKey(testSchema(), []string{"orderid", "supplier"})

	fields := map[string]any{"id": nil, "orderid": nil, "supplier": nil}
	if k.HasPrimaryValue(fields) {
		t.Error("HasPrimaryValue on nils = true")
	}
	if k.HasCompositeValue(fields) {
		t.Error("HasCompositeValue on nils = true")
	}

	fields["orderid"] = int64(7)
	if !k.HasCompositeValue(fields) {
		t.Error("partial composite value not detected")
	}
	vals := k.CompositeValues(fields)
	if len(vals) != 1 || vals["orderid"] != int64(7) {
		t.Errorf("CompositeValues = %v, want only set components", vals)
	}

	fields["id"] = int64(1)
	if !k.HasPrimaryValue(fields) {
		t.Error("HasPrimaryValue not detected")
	}
}

func TestKey_IsKeyColumn(t *testing.T) {
	k, _ := ResolveKey(testSchema(), []string{"orderid"})
	if !k.isKeyColumn("id") || !k.isKeyColumn("orderid") {
		t.Error("key columns not recognized")
	}
	if k.isKeyColumn("total") {
		t.Error("member column recognized as key")
	}
}
