package crud

// Coordinator brackets mutations with edit-session begin/commit/rollback.
// With a nil session every method is a no-op, so engines without
// transactions share one code path with engines that have them.
type Coordinator struct {
	session sessionAPI
}

// sessionAPI is the slice of types.EditSession the coordinator needs.
type sessionAPI interface {
	BeginEdit() error
	StartOperation() error
	StopOperation() error
	StopEditing(save bool) error
	IsEditing() bool
}

// NewCoordinator wraps an edit session. A nil session disables coordination.
func NewCoordinator(session sessionAPI) *Coordinator {
	return &Coordinator{session: session}
}

// Enabled reports whether a session is attached.
func (c *Coordinator) Enabled() bool { return c != nil && c.session != nil }

// Begin starts an edit plus operation. An already-editing session is
// committed first, so logically related operations must be serialized by
// the caller; there is no nesting.
func (c *Coordinator) Begin() error {
	if !c.Enabled() {
		return nil
	}
	if c.session.IsEditing() {
		if err := c.Commit(); err != nil {
			return err
		}
	}
	if err := c.session.BeginEdit(); err != nil {
		return err
	}
	return c.session.StartOperation()
}

// Commit stops the open operation and saves the edit. A session that is not
// editing is a no-op, not an error.
func (c *Coordinator) Commit() error {
	if !c.Enabled() || !c.session.IsEditing() {
		return nil
	}
	// Best effort: a failed operation stop must not block the save.
	_ = c.session.StopOperation()
	return c.session.StopEditing(true)
}

// Rollback discards the open operation and every edit since Begin. A
// session that is not editing is a no-op.
func (c *Coordinator) Rollback() error {
	if !c.Enabled() || !c.session.IsEditing() {
		return nil
	}
	return c.session.StopEditing(false)
}

// Transact runs fn between Begin and Commit. Any error from fn rolls the
// session back and is returned unchanged; rollback failures are swallowed
// so the original error always surfaces.
func (c *Coordinator) Transact(fn func() error) error {
	if err := c.Begin(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		_ = c.Rollback()
		return err
	}
	return c.Commit()
}
