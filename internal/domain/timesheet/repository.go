package timesheet

import (
	"context"
	"time"
)

type TimesheetRepository interface {
	Create(ctx context.Context, t *Timesheet) error
	GetByID(ctx context.Context, id string) (*Timesheet, error)
	ExistsForJob(ctx context.Context, employeeID, jobID string) (bool, error)
	List(ctx context.Context, q ListTimesheetsQuery) ([]Timesheet, error)
	// ListByPeriod returns employee-approved, unlocked timesheets with work
	// date in [from, to), candidates for attachment to a payroll run.
	ListByPeriod(ctx context.Context, from, to time.Time) ([]Timesheet, error)
	ListByRun(ctx context.Context, runID string) ([]Timesheet, error)
	// Update persists hours, units, comment, approval flags and run
	// attachment. It fails with ErrTimesheetLocked when the row sits in a
	// locked run.
	Update(ctx context.Context, t *Timesheet) error
	SetEmployeeApproved(ctx context.Context, id string, approved bool) error
	// AttachToRun sets admin approval and the run attachment in one step,
	// verifying the target run is still draft.
	AttachToRun(ctx context.Context, id, runID string) error
	Delete(ctx context.Context, id string) error
}
