package sqlite

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dukaforge/strata/pkg/types"
)

// Edit-session primitive. BeginEdit opens a transaction; operations are
// uuid-named savepoints inside it. Starting an operation while one is open
// releases (commits) the open one first, so there is no nesting. Every
// cursor opened while editing automatically joins the transaction.

// BeginEdit starts an edit session over the workspace.
func (s *Store) BeginEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx != nil {
		return fmt.Errorf("%w: edit session already open on %s", types.ErrTransactionState, s.workspace)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning edit on %s: %w", s.workspace, err)
	}
	s.tx = tx
	return nil
}

// StartOperation opens an edit operation, committing any open one first.
func (s *Store) StartOperation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return fmt.Errorf("%w: operation started outside an edit session", types.ErrTransactionState)
	}
	if s.opID != "" {
		if _, err := s.tx.Exec("RELEASE SAVEPOINT " + s.opID); err != nil {
			return fmt.Errorf("closing open operation %s: %w", s.opID, err)
		}
		s.opID = ""
	}
	name := "op_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := s.tx.Exec("SAVEPOINT " + name); err != nil {
		return fmt.Errorf("starting operation: %w", err)
	}
	s.opID = name
	return nil
}

// StopOperation commits the open operation into the session. No open
// operation is a no-op.
func (s *Store) StopOperation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil || s.opID == "" {
		return nil
	}
	if _, err := s.tx.Exec("RELEASE SAVEPOINT " + s.opID); err != nil {
		return fmt.Errorf("stopping operation %s: %w", s.opID, err)
	}
	s.opID = ""
	return nil
}

// StopEditing ends the session, saving when save is true and discarding
// every edit otherwise. Not editing is a no-op.
func (s *Store) StopEditing(save bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	s.opID = ""
	if save {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("saving edits on %s: %w", s.workspace, err)
		}
		return nil
	}
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("discarding edits on %s: %w", s.workspace, err)
	}
	return nil
}

// IsEditing reports whether an edit session is open.
func (s *Store) IsEditing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx != nil
}
