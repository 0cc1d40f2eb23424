package payrollrun

import (
	"context"

	"github.com/tidyops/payroll-backend-go/internal/domain/timesheet"
)

type RunService interface {
	GetCycle(ctx context.Context) (*CycleResponse, error)
	UpdateCycle(ctx context.Context, req *UpdateCycleRequest) (*CycleResponse, error)
	// CurrentPeriod returns the last completed pay period per the configured
	// cycle, evaluated at the current time.
	CurrentPeriod(ctx context.Context) (*PeriodResponse, error)
	CreateRun(ctx context.Context, req *CreateRunRequest) (*RunResponse, error)
	GetRun(ctx context.Context, id string) (*RunDetailResponse, error)
	ListRuns(ctx context.Context) ([]RunResponse, error)
	// ListCandidates returns the employee-approved timesheets inside a
	// draft run's period that are not yet attached to any locked run.
	ListCandidates(ctx context.Context, runID string) ([]timesheet.TimesheetResponse, error)
	// ApproveTimesheets admin-approves a batch of timesheets into a draft
	// run, reporting a per-item outcome, then refreshes the run's totals.
	ApproveTimesheets(ctx context.Context, runID string, req *ApproveRequest) (*ApproveResponse, error)
	// RecalculateRun refreshes a draft run's totals from its current
	// timesheets.
	RecalculateRun(ctx context.Context, id string) (*RunResponse, error)
	// LockRun finalizes a draft run. Locking is terminal.
	LockRun(ctx context.Context, id string) (*RunResponse, error)
	// DeleteRun removes a draft run, detaching its timesheets first.
	DeleteRun(ctx context.Context, id string) error
}
