package repo

import (
	"fmt"
	"time"

	"github.com/skagerrak-boats/slipway/internal/audit"
	"github.com/skagerrak-boats/slipway/pkg/types"
)

// StaffMembers manages the staff namespace. Staff are never hard
// deleted in normal operation; Deactivate keeps the record so old
// timesheet entries stay resolvable.
type StaffMembers struct {
	store  types.Store
	ledger *audit.Ledger
}

// NewStaffMembers creates a staff repository.
func NewStaffMembers(store types.Store, ledger *audit.Ledger) *StaffMembers {
	return &StaffMembers{store: store, ledger: ledger}
}

// Create persists a new staff member, active by default.
func (r *StaffMembers) Create(s *types.Staff, actor audit.Actor) error {
	if s.Name == "" {
		return fmt.Errorf("%w: staff name must not be empty", types.ErrInvalidRecord)
	}
	s.IsActive = true
	s.Entity = types.NewEntity(time.Now())
	if err := r.store.Save(types.NamespaceStaff, s); err != nil {
		return err
	}
	if err := r.ledger.LogCreate(actor, entityStaff, s.ID, s.Name); err != nil {
		return fmt.Errorf("auditing staff create: %w", err)
	}
	return nil
}

// Update saves modified staff details.
func (r *StaffMembers) Update(s *types.Staff, actor audit.Actor) error {
	_, ok, err := r.store.Get(types.NamespaceStaff, s.ID)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	s.Bump(time.Now())
	if err := r.store.Save(types.NamespaceStaff, s); err != nil {
		return err
	}
	if err := r.ledger.LogUpdate(actor, entityStaff, s.ID, nil, nil); err != nil {
		return fmt.Errorf("auditing staff update: %w", err)
	}
	return nil
}

// Get retrieves a staff member by id.
func (r *StaffMembers) Get(id string) (*types.Staff, bool, error) {
	rec, ok, err := r.store.Get(types.NamespaceStaff, id)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec.(*types.Staff), true, nil
}

// List returns all staff ordered by name.
func (r *StaffMembers) List() ([]*types.Staff, error) {
	recs, err := r.store.Query(types.NamespaceStaff, types.Query{
		OrderBy: &types.OrderBy{Field: "name"},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.Staff](recs)
}

// ListActive returns active staff ordered by name.
func (r *StaffMembers) ListActive() ([]*types.Staff, error) {
	recs, err := r.store.Query(types.NamespaceStaff, types.Query{
		Where:   types.Where{"is_active": true},
		OrderBy: &types.OrderBy{Field: "name"},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.Staff](recs)
}

// Deactivate flags a staff member inactive. Idempotent.
func (r *StaffMembers) Deactivate(id string, actor audit.Actor) error {
	s, ok, err := r.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	if !s.IsActive {
		return nil
	}
	s.IsActive = false
	s.Bump(time.Now())
	if err := r.store.Save(types.NamespaceStaff, s); err != nil {
		return err
	}
	if err := r.ledger.LogArchive(actor, entityStaff, id, s.Name); err != nil {
		return fmt.Errorf("auditing staff deactivation: %w", err)
	}
	return nil
}

// Reactivate flags a previously deactivated staff member active again.
// Idempotent.
func (r *StaffMembers) Reactivate(id string, actor audit.Actor) error {
	s, ok, err := r.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	if s.IsActive {
		return nil
	}
	s.IsActive = true
	s.Bump(time.Now())
	if err := r.store.Save(types.NamespaceStaff, s); err != nil {
		return err
	}
	if err := r.ledger.LogUpdate(actor, entityStaff, id, nil, nil); err != nil {
		return fmt.Errorf("auditing staff reactivation: %w", err)
	}
	return nil
}

// HardDelete removes a staff record permanently. Timesheet entries that
// reference it keep their staff id but can no longer resolve it.
func (r *StaffMembers) HardDelete(id string, actor audit.Actor) error {
	if err := r.store.Delete(types.NamespaceStaff, id); err != nil {
		return err
	}
	if err := r.ledger.LogDelete(actor, entityStaff, id); err != nil {
		return fmt.Errorf("auditing staff delete: %w", err)
	}
	return nil
}
