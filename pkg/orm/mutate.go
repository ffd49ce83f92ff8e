package orm

import (
	"errors"
	"fmt"

	"github.com/dukaforge/strata/pkg/crud"
	"github.com/dukaforge/strata/pkg/types"
)

// AddOption configures one Add call.
type AddOption func(*addConfig)

type addConfig struct {
	forceAdd      bool
	allowExisting bool
}

// ForceAdd inserts without probing for an existing match. Needed when
// adding by non-key member values that may collide.
func ForceAdd() AddOption {
	return func(c *addConfig) { c.forceAdd = true }
}

// AllowExisting suppresses the existing-row check, for tables where the
// search values may legitimately repeat (the audit logger relies on this).
func AllowExisting() AddOption {
	return func(c *addConfig) { c.allowExisting = true }
}

// Add inserts the record and returns the new surrogate id, which is also
// stored on the record. The search identity is the composite key when set,
// else the set members; no values at all is ErrNoColumns. An existing match
// is ErrInsertTargetExists unless AllowExisting or ForceAdd is given.
// Adds are never audit logged.
func (r *Record) Add(opts ...AddOption) (int64, error) {
	var cfg addConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	search := r.key.CompositeValues(r.fields)
	if len(search) == 0 {
		search = r.memberValues(r.memberNames(false, false))
	}
	if len(search) == 0 && r.shape == nil {
		return 0, fmt.Errorf("%w: add to %s with no values set", types.ErrNoColumns, r.table)
	}

	payload := r.writePayload()

	var id int64
	err := r.engine.Tran().Transact(func() error {
		newID, inserted, err := r.engine.Upsert(search, payload, crud.UpsertOptions{
			ForceInsert:  cfg.forceAdd,
			FailOnExists: !cfg.allowExisting,
		})
		if err != nil {
			return err
		}
		if inserted {
			id = newID
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if id != 0 {
		r.fields[r.key.Primary] = id
	}
	return id, nil
}

// Update writes the record's set members to the row identified by the
// primary key, or the composite key when no primary value is set. Requires
// a prior successful Read while the read check is enabled, so unset members
// cannot silently null row values. A filter matching more than one row is
// ErrMultiplicity. The pre-update row is snapshotted to the audit shadow
// table first when logging is enabled.
func (r *Record) Update() error {
	if !r.loaded && r.readCheck {
		return fmt.Errorf("%w: update of %s (read the record first, or disable the read check)",
			types.ErrPrecondition, r.table)
	}
	if !r.HasPrimaryValue() && !r.HasCompositeValue() {
		return fmt.Errorf("%w: update of %s", types.ErrNoKey, r.table)
	}

	var search map[string]any
	if r.HasPrimaryValue() {
		search = map[string]any{r.key.Primary: r.fields[r.key.Primary]}
	} else {
		search = r.key.CompositeValues(r.fields)
	}

	if r.auditLog {
		if err := r.logAction(actionUpdate); err != nil {
			return err
		}
	}

	return r.engine.Tran().Transact(func() error {
		_, _, err := r.engine.Upsert(search, r.writePayload(), crud.UpsertOptions{FailOnMulti: true})
		return err
	})
}

// DeleteOption configures one Delete call.
type DeleteOption func(*deleteConfig)

type deleteConfig struct {
	allowKeyless bool
}

// AllowKeyless lets Delete fall back to a filter built from the set members
// when neither key is set, instead of returning ErrNoKey.
func AllowKeyless() DeleteOption {
	return func(c *deleteConfig) { c.allowKeyless = true }
}

// Delete removes the row identified by the primary key, composite key, or
// (with AllowKeyless) the set members. More than one match is
// ErrMultiplicity. Returns false without error when nothing matched. All
// non-key members are cleared afterwards, whatever the outcome.
func (r *Record) Delete(opts ...DeleteOption) (bool, error) {
	var cfg deleteConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	defer r.clearMembers()

	var filter map[string]any
	switch {
	case r.HasPrimaryValue():
		filter = map[string]any{r.key.Primary: r.fields[r.key.Primary]}
	case r.HasCompositeValue():
		filter = r.key.CompositeValues(r.fields)
	case cfg.allowKeyless:
		filter = r.memberValues(r.memberNames(false, false))
	default:
		return false, fmt.Errorf("%w: delete from %s", types.ErrNoKey, r.table)
	}

	if r.auditLog {
		if err := r.logAction(actionDelete); err != nil {
			return false, err
		}
	}

	err := r.engine.Tran().Transact(func() error {
		_, err := r.engine.Delete(filter, true, true)
		return err
	})
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
