package payrollrun

import (
	"context"
	"errors"
	"time"

	"github.com/tidyops/payroll-backend-go/internal/domain/payrollrun"
	"github.com/tidyops/payroll-backend-go/internal/domain/timesheet"
	"github.com/tidyops/payroll-backend-go/internal/pkg/jwt"
)

type runService struct {
	runRepo       payrollrun.RunRepository
	cycleRepo     payrollrun.CycleRepository
	timesheetRepo timesheet.TimesheetRepository
}

func NewRunService(
	runRepo payrollrun.RunRepository,
	cycleRepo payrollrun.CycleRepository,
	timesheetRepo timesheet.TimesheetRepository,
) payrollrun.RunService {
	return &runService{
		runRepo:       runRepo,
		cycleRepo:     cycleRepo,
		timesheetRepo: timesheetRepo,
	}
}

// ========== CYCLE ==========

func (s *runService) GetCycle(ctx context.Context) (*payrollrun.CycleResponse, error) {
	cycle, err := s.cycleRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	resp := payrollrun.ToCycleResponse(*cycle)
	return &resp, nil
}

func (s *runService) UpdateCycle(ctx context.Context, req *payrollrun.UpdateCycleRequest) (*payrollrun.CycleResponse, error) {
	cycle := req.ToEntity()
	cycle.UpdatedAt = time.Now()
	if err := s.cycleRepo.Upsert(ctx, &cycle); err != nil {
		return nil, err
	}
	resp := payrollrun.ToCycleResponse(cycle)
	return &resp, nil
}

func (s *runService) CurrentPeriod(ctx context.Context) (*payrollrun.PeriodResponse, error) {
	period, err := s.lastCompletedPeriod(ctx)
	if err != nil {
		return nil, err
	}
	resp := payrollrun.ToPeriodResponse(*period)
	return &resp, nil
}

func (s *runService) lastCompletedPeriod(ctx context.Context) (*payrollrun.Period, error) {
	cycle, err := s.cycleRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	period := payrollrun.LastCompletedPeriod(*cycle, time.Now())
	if period == nil {
		return nil, payrollrun.ErrNoCompletedPeriod
	}
	return period, nil
}

// ========== RUN LIFECYCLE ==========

// CreateRun opens a draft run for the requested period, defaulting to the
// cycle's last completed period. At most one run may exist per period.
func (s *runService) CreateRun(ctx context.Context, req *payrollrun.CreateRunRequest) (*payrollrun.RunResponse, error) {
	var start, end time.Time
	if req.PeriodStart != nil {
		var err error
		start, err = time.Parse("2006-01-02", *req.PeriodStart)
		if err != nil {
			return nil, err
		}
		end, err = time.Parse("2006-01-02", *req.PeriodEnd)
		if err != nil {
			return nil, err
		}
	} else {
		period, err := s.lastCompletedPeriod(ctx)
		if err != nil {
			return nil, err
		}
		start, end = period.Start, period.End
	}

	if _, err := s.runRepo.GetByPeriod(ctx, start, end); err == nil {
		return nil, payrollrun.ErrRunExistsForPeriod
	} else if !errors.Is(err, payrollrun.ErrRunNotFound) {
		return nil, err
	}

	run := payrollrun.PayrollRun{
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      payrollrun.RunStatusDraft,
	}
	if err := s.runRepo.Create(ctx, &run); err != nil {
		return nil, err
	}

	resp := payrollrun.ToRunResponse(run)
	return &resp, nil
}

// GetRun returns the run with its per-employee breakdown. Employees see only
// their own totals line; admins see every employee's.
func (s *runService) GetRun(ctx context.Context, id string) (*payrollrun.RunDetailResponse, error) {
	employeeID, role, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	run, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	totals, err := s.runRepo.EmployeeTotals(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != jwt.RoleAdmin {
		own := totals[:0]
		for _, et := range totals {
			if et.EmployeeID == employeeID {
				own = append(own, et)
			}
		}
		totals = own
	}
	return &payrollrun.RunDetailResponse{
		RunResponse:    payrollrun.ToRunResponse(*run),
		EmployeeTotals: payrollrun.ToEmployeeTotalResponses(totals),
	}, nil
}

// ListRuns returns the full history for admins; employees see the runs they
// are paid in.
func (s *runService) ListRuns(ctx context.Context) ([]payrollrun.RunResponse, error) {
	employeeID, role, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var runs []payrollrun.PayrollRun
	if role == jwt.RoleAdmin {
		runs, err = s.runRepo.List(ctx)
	} else {
		runs, err = s.runRepo.ListByEmployee(ctx, employeeID)
	}
	if err != nil {
		return nil, err
	}
	return payrollrun.ToRunResponses(runs), nil
}

// ListCandidates returns the employee-approved timesheets inside a draft
// run's period that are still free to attach.
func (s *runService) ListCandidates(ctx context.Context, runID string) ([]timesheet.TimesheetResponse, error) {
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.Status == payrollrun.RunStatusLocked {
		return nil, payrollrun.ErrRunLocked
	}
	candidates, err := s.timesheetRepo.ListByPeriod(ctx, run.PeriodStart, run.PeriodEnd)
	if err != nil {
		return nil, err
	}
	return timesheet.ToTimesheetResponses(candidates), nil
}

// ApproveTimesheets attaches a batch of timesheets to a draft run. Each item
// succeeds or fails on its own; a rejected item carries a reason and never
// rolls back the others. The run's totals are refreshed afterwards.
func (s *runService) ApproveTimesheets(ctx context.Context, runID string, req *payrollrun.ApproveRequest) (*payrollrun.ApproveResponse, error) {
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.Status == payrollrun.RunStatusLocked {
		return nil, payrollrun.ErrRunLocked
	}

	results := make([]payrollrun.ApproveItemResult, 0, len(req.TimesheetIDs))
	for _, id := range req.TimesheetIDs {
		results = append(results, s.approveOne(ctx, runID, id, req.IncludeUnapproved))
	}

	run, err = s.runRepo.UpdateTotals(ctx, runID)
	if err != nil {
		return nil, err
	}

	return &payrollrun.ApproveResponse{
		Run:     payrollrun.ToRunResponse(*run),
		Results: results,
	}, nil
}

func (s *runService) approveOne(ctx context.Context, runID, timesheetID string, includeUnapproved bool) payrollrun.ApproveItemResult {
	reject := func(reason string) payrollrun.ApproveItemResult {
		return payrollrun.ApproveItemResult{TimesheetID: timesheetID, Reason: &reason}
	}

	ts, err := s.timesheetRepo.GetByID(ctx, timesheetID)
	if err != nil {
		return reject(err.Error())
	}
	if ts.RateSnapshot == nil {
		return reject("no rate snapshot; resolve a rate and regenerate before approving")
	}
	if !ts.EmployeeApproved && !includeUnapproved {
		return reject(timesheet.ErrTimesheetNotApproved.Error())
	}
	// A timesheet belongs to at most one run; silently stealing it would
	// leave the other run's stored totals stale.
	if ts.ApprovedInRunID != nil && *ts.ApprovedInRunID != runID {
		return reject("already attached to another payroll run")
	}

	if err := s.timesheetRepo.AttachToRun(ctx, timesheetID, runID); err != nil {
		return reject(err.Error())
	}
	return payrollrun.ApproveItemResult{TimesheetID: timesheetID, Attached: true}
}

func (s *runService) RecalculateRun(ctx context.Context, id string) (*payrollrun.RunResponse, error) {
	run, err := s.runRepo.UpdateTotals(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := payrollrun.ToRunResponse(*run)
	return &resp, nil
}

// LockRun finalizes a draft run. The repository performs the status
// transition and the final totals recomputation in one transaction, so a
// concurrent lock or edit can never half-apply.
func (s *runService) LockRun(ctx context.Context, id string) (*payrollrun.RunResponse, error) {
	run, err := s.runRepo.Lock(ctx, id, time.Now())
	if err != nil {
		return nil, err
	}
	resp := payrollrun.ToRunResponse(*run)
	return &resp, nil
}

// DeleteRun removes a draft run. The repository releases the run's
// timesheets and deletes the row in one transaction, so a concurrent lock
// can never strand a locked run with detached members.
func (s *runService) DeleteRun(ctx context.Context, id string) error {
	return s.runRepo.Delete(ctx, id)
}
