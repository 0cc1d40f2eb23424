package timesheet

import "context"

type TimesheetService interface {
	// Generate creates missing timesheets for every employee/job assignment
	// in [from, to). Already-generated pairs are skipped and counted;
	// unresolvable rates and persistence failures are reported per pair.
	Generate(ctx context.Context, req *GenerateTimesheetsRequest) (*GenerationReport, error)
	// CreateTimesheet is an ad hoc admin entry. The rate snapshot is resolved
	// and frozen at creation time.
	CreateTimesheet(ctx context.Context, req *CreateTimesheetRequest) (*TimesheetResponse, error)
	GetTimesheet(ctx context.Context, id string) (*TimesheetResponse, error)
	ListTimesheets(ctx context.Context, q ListTimesheetsQuery) ([]TimesheetResponse, error)
	UpdateTimesheet(ctx context.Context, id string, req *UpdateTimesheetRequest) (*TimesheetResponse, error)
	// ApproveTimesheet marks the caller's own timesheet as employee-approved.
	ApproveTimesheet(ctx context.Context, id string) (*TimesheetResponse, error)
	UnapproveTimesheet(ctx context.Context, id string) (*TimesheetResponse, error)
	DeleteTimesheet(ctx context.Context, id string) error
}
