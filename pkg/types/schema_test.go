package types

import "testing"

func ordersSchema() Schema {
	return Schema{
		{Name: "id", Type: "INTEGER", Nullable: false, Editable: false},
		{Name: "orderid", Type: "INTEGER", Nullable: true, Editable: true},
		{Name: "supplier", Type: "TEXT", Nullable: true, Editable: true, Length: 50},
		{Name: "total", Type: "REAL", Nullable: true, Editable: true},
	}
}

func TestSchema_Has(t *testing.T) {
	s := ordersSchema()
	if !s.Has("orderid") {
		t.Error("Has(orderid) = false")
	}
	if s.Has("OrderID") {
		t.Error("Has should be case sensitive")
	}
	if !s.HasFold("OrderID") {
		t.Error("HasFold(OrderID) = false")
	}
	if s.Has("missing") {
		t.Error("Has(missing) = true")
	}
}

func TestSchema_IDColumn(t *testing.T) {
	if got := ordersSchema().IDColumn(); got != "id" {
		t.Errorf("IDColumn = %q, want id", got)
	}
	if got := (Schema{}).IDColumn(); got != "" {
		t.Errorf("empty schema IDColumn = %q, want empty", got)
	}
}

func TestSchema_Names(t *testing.T) {
	got := ordersSchema().Names()
	want := []string{"id", "orderid", "supplier", "total"}
	if len(got) != len(want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSchema_EditableNames(t *testing.T) {
	got := ordersSchema().EditableNames()
	if len(got) != 3 || got[0] != "orderid" {
		t.Errorf("EditableNames = %v, want surrogate key excluded", got)
	}
}

func TestSchema_Diff(t *testing.T) {
	parent := ordersSchema()
	shadow := Schema{
		{Name: "ID"},
		{Name: "orderid"},
		{Name: "supplier"},
		{Name: "action"},
	}
	onlyHere, both, onlyThere := parent.Diff(shadow)
	if len(onlyHere) != 1 || onlyHere[0] != "total" {
		t.Errorf("onlyHere = %v, want [total]", onlyHere)
	}
	if len(both) != 3 {
		t.Errorf("both = %v, want 3 shared columns (case insensitive)", both)
	}
	if len(onlyThere) != 1 || onlyThere[0] != "action" {
		t.Errorf("onlyThere = %v, want [action]", onlyThere)
	}
}
