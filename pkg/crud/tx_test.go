package crud

import (
	"errors"
	"testing"
)

// fakeSession records edit-session calls for coordinator tests.
type fakeSession struct {
	editing bool
	calls   []string
	failOn  string
}

func (f *fakeSession) record(name string) error {
	f.calls = append(f.calls, name)
	if f.failOn == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeSession) BeginEdit() error {
	if err := f.record("BeginEdit"); err != nil {
		return err
	}
	f.editing = true
	return nil
}

func (f *fakeSession) StartOperation() error { return f.record("StartOperation") }
func (f *fakeSession) StopOperation() error  { return f.record("StopOperation") }

func (f *fakeSession) StopEditing(save bool) error {
	name := "StopEditing(false)"
	if save {
		name = "StopEditing(true)"
	}
	if err := f.record(name); err != nil {
		return err
	}
	f.editing = false
	return nil
}

func (f *fakeSession) IsEditing() bool { return f.editing }

func TestCoordinator_NilSessionIsNoop(t *testing.T) {
	c := NewCoordinator(nil)
	if c.Enabled() {
		t.Error("Enabled = true for nil session")
	}
	if err := c.Begin(); err != nil {
		t.Errorf("Begin: %v", err)
	}
	if err := c.Commit(); err != nil {
		t.Errorf("Commit: %v", err)
	}
	if err := c.Rollback(); err != nil {
		t.Errorf("Rollback: %v", err)
	}
}

func TestCoordinator_BeginCommitSequence(t *testing.T) {
	s := &fakeSession{}
	c := NewCoordinator(s)

	if err := c.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := c.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	want := []string{"BeginEdit", "StartOperation", "StopOperation", "StopEditing(true)"}
	if len(s.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", s.calls, want)
	}
	for i := range want {
		if s.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, s.calls[i], want[i])
		}
	}
}

func TestCoordinator_BeginCommitsOpenSession(t *testing.T) {
	s := &fakeSession{}
	c := NewCoordinator(s)

	if err := c.Begin(); err != nil {
		t.Fatalf("first Begin: %v", err)
	}
	if err := c.Begin(); err != nil {
		t.Fatalf("second Begin: %v", err)
	}

	// The second Begin saved the first session before opening its own.
	want := []string{
		"BeginEdit", "StartOperation",
		"StopOperation", "StopEditing(true)",
		"BeginEdit", "StartOperation",
	}
	if len(s.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", s.calls, want)
	}
}

func TestCoordinator_CommitWithoutBeginIsNoop(t *testing.T) {
	s := &fakeSession{}
	c := NewCoordinator(s)
	if err := c.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(s.calls) != 0 {
		t.Errorf("calls = %v, want none", s.calls)
	}
}

func TestCoordinator_TransactRollsBackOnError(t *testing.T) {
	s := &fakeSession{}
	c := NewCoordinator(s)

	boom := errors.New("boom")
	err := c.Transact(func() error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Transact err = %v, want boom", err)
	}
	last := s.calls[len(s.calls)-1]
	if last != "StopEditing(false)" {
		t.Errorf("last call = %q, want discard", last)
	}
}

func TestCoordinator_TransactCommitsOnSuccess(t *testing.T) {
	s := &fakeSession{}
	c := NewCoordinator(s)

	if err := c.Transact(func() error { return nil }); err != nil {
		t.Fatalf("Transact: %v", err)
	}
	last := s.calls[len(s.calls)-1]
	if last != "StopEditing(true)" {
		t.Errorf("last call = %q, want save", last)
	}
}

func TestCoordinator_TransactSwallowsRollbackFailure(t *testing.T) {
	s := &fakeSession{failOn: "StopEditing(false)"}
	c := NewCoordinator(s)

	boom := errors.New("boom")
	err := c.Transact(func() error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("Transact err = %v, want the original error", err)
	}
}
