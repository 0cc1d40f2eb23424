package timesheet

import "errors"

var (
	ErrTimesheetNotFound    = errors.New("timesheet not found")
	ErrTimesheetExists      = errors.New("timesheet already exists for this employee and job")
	ErrTimesheetLocked      = errors.New("timesheet belongs to a locked payroll run and cannot be modified")
	ErrNotTimesheetOwner    = errors.New("timesheet belongs to another employee")
	ErrTimesheetNotApproved = errors.New("timesheet has not been approved by the employee")
)
