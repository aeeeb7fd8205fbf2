package types

import "time"

// TimesheetEntry is one unit of recorded work. BillingRate must be
// absent when Billable is false; the timesheet repository enforces this
// by calling Normalize on every write.
type TimesheetEntry struct {
	Entity
	StaffID     string    `json:"staff_id"`
	ProjectID   string    `json:"project_id"`
	Date        time.Time `json:"date"`
	Hours       float64   `json:"hours"`
	Billable    bool      `json:"billable"`
	BillingRate *float64  `json:"billing_rate,omitempty"`
	Notes       string    `json:"notes"`
}

// Field implements Record. BillingRate dereferences to its value, or nil
// when absent, so nil filters match entries without a rate.
func (t *TimesheetEntry) Field(name string) (any, bool) {
	switch name {
	case "staff_id":
		return t.StaffID, true
	case "project_id":
		return t.ProjectID, true
	case "date":
		return t.Date, true
	case "hours":
		return t.Hours, true
	case "billable":
		return t.Billable, true
	case "billing_rate":
		if t.BillingRate == nil {
			return nil, true
		}
		return *t.BillingRate, true
	case "notes":
		return t.Notes, true
	}
	return t.baseField(name)
}

// Normalize clears BillingRate when the entry is not billable.
// Idempotent.
func (t *TimesheetEntry) Normalize() {
	if !t.Billable {
		t.BillingRate = nil
	}
}
