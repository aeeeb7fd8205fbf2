package repo

import (
	"fmt"
	"time"

	"github.com/skagerrak-boats/slipway/internal/audit"
	"github.com/skagerrak-boats/slipway/pkg/types"
)

// Timesheets manages the timesheets namespace. Entries always pass
// through Normalize on write so a non-billable entry never carries a
// billing rate.
type Timesheets struct {
	store  types.Store
	ledger *audit.Ledger
}

// NewTimesheets creates a timesheet repository.
func NewTimesheets(store types.Store, ledger *audit.Ledger) *Timesheets {
	return &Timesheets{store: store, ledger: ledger}
}

// Create persists a new timesheet entry.
func (r *Timesheets) Create(e *types.TimesheetEntry, actor audit.Actor) error {
	if e.StaffID == "" || e.ProjectID == "" {
		return fmt.Errorf("%w: timesheet entry needs staff and project ids", types.ErrInvalidRecord)
	}
	if e.Hours <= 0 {
		return fmt.Errorf("%w: timesheet hours must be positive", types.ErrInvalidRecord)
	}
	e.Normalize()
	e.Entity = types.NewEntity(time.Now())
	if err := r.store.Save(types.NamespaceTimesheets, e); err != nil {
		return err
	}
	if err := r.ledger.LogCreate(actor, entityTimesheet, e.ID,
		fmt.Sprintf("%.2fh on project %s", e.Hours, e.ProjectID)); err != nil {
		return fmt.Errorf("auditing timesheet create: %w", err)
	}
	return nil
}

// Update saves a modified timesheet entry. The same hour validation as
// Create applies.
func (r *Timesheets) Update(e *types.TimesheetEntry, actor audit.Actor) error {
	if e.Hours <= 0 {
		return fmt.Errorf("%w: timesheet hours must be positive", types.ErrInvalidRecord)
	}
	_, ok, err := r.store.Get(types.NamespaceTimesheets, e.ID)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	e.Normalize()
	e.Bump(time.Now())
	if err := r.store.Save(types.NamespaceTimesheets, e); err != nil {
		return err
	}
	if err := r.ledger.LogUpdate(actor, entityTimesheet, e.ID, nil, nil); err != nil {
		return fmt.Errorf("auditing timesheet update: %w", err)
	}
	return nil
}

// Get retrieves a timesheet entry by id.
func (r *Timesheets) Get(id string) (*types.TimesheetEntry, bool, error) {
	rec, ok, err := r.store.Get(types.NamespaceTimesheets, id)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec.(*types.TimesheetEntry), true, nil
}

// ListByStaff returns a staff member's entries, most recent date first.
func (r *Timesheets) ListByStaff(staffID string) ([]*types.TimesheetEntry, error) {
	recs, err := r.store.Query(types.NamespaceTimesheets, types.Query{
		Where:   types.Where{"staff_id": staffID},
		OrderBy: &types.OrderBy{Field: "date", Desc: true},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.TimesheetEntry](recs)
}

// ListByProject returns a project's entries, most recent date first.
func (r *Timesheets) ListByProject(projectID string) ([]*types.TimesheetEntry, error) {
	recs, err := r.store.Query(types.NamespaceTimesheets, types.Query{
		Where:   types.Where{"project_id": projectID},
		OrderBy: &types.OrderBy{Field: "date", Desc: true},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.TimesheetEntry](recs)
}

// Delete removes a timesheet entry permanently. There is no soft
// delete for timesheets.
func (r *Timesheets) Delete(id string, actor audit.Actor) error {
	if err := r.store.Delete(types.NamespaceTimesheets, id); err != nil {
		return err
	}
	if err := r.ledger.LogDelete(actor, entityTimesheet, id); err != nil {
		return fmt.Errorf("auditing timesheet delete: %w", err)
	}
	return nil
}
