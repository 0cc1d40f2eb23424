package timesheet

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tidyops/payroll-backend-go/internal/domain/job"
	"github.com/tidyops/payroll-backend-go/internal/domain/rate"
	"github.com/tidyops/payroll-backend-go/internal/domain/timesheet"
	"github.com/tidyops/payroll-backend-go/internal/pkg/jwt"
)

type timesheetService struct {
	timesheetRepo timesheet.TimesheetRepository
	jobRepo       job.JobRepository
	rateRepo      rate.RateRepository
}

func NewTimesheetService(
	timesheetRepo timesheet.TimesheetRepository,
	jobRepo job.JobRepository,
	rateRepo rate.RateRepository,
) timesheet.TimesheetService {
	return &timesheetService{
		timesheetRepo: timesheetRepo,
		jobRepo:       jobRepo,
		rateRepo:      rateRepo,
	}
}

// ========== GENERATION ==========

// Generate scans jobs in [from, to) and creates a draft timesheet for every
// employee/job assignment that lacks one. Generation is idempotent: existing
// pairs are skipped and counted. A pair without a resolvable rate is reported
// and skipped. One pair's write failure never aborts the rest of the pass.
func (s *timesheetService) Generate(ctx context.Context, req *timesheet.GenerateTimesheetsRequest) (*timesheet.GenerationReport, error) {
	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &timesheet.GenerationReport{
		Created:      []timesheet.TimesheetResponse{},
		MissingRates: []timesheet.MissingRateEntry{},
		Failed:       []timesheet.FailedEntry{},
	}

	for _, j := range jobs {
		for _, employeeID := range j.AssignedEmployees() {
			s.generateForPair(ctx, employeeID, j, report)
		}
	}

	return report, nil
}

func (s *timesheetService) generateForPair(ctx context.Context, employeeID string, j job.Job, report *timesheet.GenerationReport) {
	exists, err := s.timesheetRepo.ExistsForJob(ctx, employeeID, j.ID)
	if err != nil {
		report.Failed = append(report.Failed, timesheet.FailedEntry{
			EmployeeID: employeeID, JobID: j.ID, Reason: err.Error(),
		})
		return
	}
	if exists {
		report.SkippedExisting++
		return
	}

	snapshot, err := s.resolveSnapshot(ctx, employeeID, j.Date, rate.Scope{
		LocationID: j.LocationID,
		ClientID:   j.ClientID,
	})
	if err != nil {
		report.Failed = append(report.Failed, timesheet.FailedEntry{
			EmployeeID: employeeID, JobID: j.ID, Reason: err.Error(),
		})
		return
	}
	if snapshot == nil {
		report.MissingRates = append(report.MissingRates, timesheet.MissingRateEntry{
			EmployeeID: employeeID, JobID: j.ID,
		})
		return
	}

	jobID := j.ID
	ts := timesheet.Timesheet{
		EmployeeID:   employeeID,
		JobID:        &jobID,
		WorkDate:     j.Date,
		Units:        1,
		Hours:        decimal.Zero,
		RateSnapshot: snapshot,
	}
	if snapshot.Type == rate.RateTypeHourly && j.DurationMinutes != nil {
		ts.Hours = decimal.NewFromInt(int64(*j.DurationMinutes)).
			Div(decimal.NewFromInt(60)).Round(2)
	}

	if err := s.timesheetRepo.Create(ctx, &ts); err != nil {
		// A concurrent pass already created this pair.
		if errors.Is(err, timesheet.ErrTimesheetExists) {
			report.SkippedExisting++
			return
		}
		report.Failed = append(report.Failed, timesheet.FailedEntry{
			EmployeeID: employeeID, JobID: j.ID, Reason: err.Error(),
		})
		return
	}
	report.Created = append(report.Created, timesheet.ToTimesheetResponse(ts))
}

// resolveSnapshot freezes the effective rate for an employee on a date. A nil
// snapshot with a nil error means no rate was in force.
func (s *timesheetService) resolveSnapshot(ctx context.Context, employeeID string, asOf time.Time, scope rate.Scope) (*rate.Snapshot, error) {
	candidates, err := s.rateRepo.ListEffective(ctx, employeeID, asOf)
	if err != nil {
		return nil, err
	}
	picked := rate.PickEffective(candidates, scope)
	if picked == nil {
		return nil, nil
	}
	snapshot := rate.SnapshotOf(*picked)
	return &snapshot, nil
}

// ========== CRUD ==========

func (s *timesheetService) CreateTimesheet(ctx context.Context, req *timesheet.CreateTimesheetRequest) (*timesheet.TimesheetResponse, error) {
	workDate, err := time.Parse("2006-01-02", req.WorkDate)
	if err != nil {
		return nil, err
	}

	scope := rate.Scope{}
	if req.JobID != nil {
		j, err := s.jobRepo.GetByID(ctx, *req.JobID)
		if err != nil {
			return nil, err
		}
		scope.LocationID = j.LocationID
		scope.ClientID = j.ClientID
	}

	// An unresolved rate is allowed for manual entries; the timesheet stays
	// snapshotless and cannot be approved into a run until recreated.
	snapshot, err := s.resolveSnapshot(ctx, req.EmployeeID, workDate, scope)
	if err != nil {
		return nil, err
	}

	ts := timesheet.Timesheet{
		EmployeeID:   req.EmployeeID,
		JobID:        req.JobID,
		WorkDate:     workDate,
		Units:        1,
		Hours:        decimal.Zero,
		RateSnapshot: snapshot,
	}
	if req.Hours != nil {
		ts.Hours, _ = decimal.NewFromString(*req.Hours)
	}
	if req.Units != nil {
		ts.Units = *req.Units
	}
	if req.StartAt != nil {
		start, _ := time.Parse(time.RFC3339, *req.StartAt)
		ts.StartAt = &start
	}
	if req.EndAt != nil {
		end, _ := time.Parse(time.RFC3339, *req.EndAt)
		ts.EndAt = &end
	}

	if err := s.timesheetRepo.Create(ctx, &ts); err != nil {
		return nil, err
	}

	resp := timesheet.ToTimesheetResponse(ts)
	return &resp, nil
}

func (s *timesheetService) GetTimesheet(ctx context.Context, id string) (*timesheet.TimesheetResponse, error) {
	ts, err := s.getOwnedTimesheet(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := timesheet.ToTimesheetResponse(*ts)
	return &resp, nil
}

func (s *timesheetService) ListTimesheets(ctx context.Context, q timesheet.ListTimesheetsQuery) ([]timesheet.TimesheetResponse, error) {
	employeeID, role, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	// Employees only ever see their own timesheets.
	if role != jwt.RoleAdmin {
		q.EmployeeID = &employeeID
	}

	timesheets, err := s.timesheetRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return timesheet.ToTimesheetResponses(timesheets), nil
}

// UpdateTimesheet applies a partial edit. Any change to payable fields resets
// both approvals and detaches the timesheet from its draft run, since the
// edit constitutes a new, unapproved claim. Timesheets in a locked run are
// immutable.
func (s *timesheetService) UpdateTimesheet(ctx context.Context, id string, req *timesheet.UpdateTimesheetRequest) (*timesheet.TimesheetResponse, error) {
	ts, err := s.getOwnedTimesheet(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.JobID != nil {
		if _, err := s.jobRepo.GetByID(ctx, *req.JobID); err != nil {
			return nil, err
		}
		ts.JobID = req.JobID
	}
	if req.StartAt != nil {
		start, _ := time.Parse(time.RFC3339, *req.StartAt)
		ts.StartAt = &start
	}
	if req.EndAt != nil {
		end, _ := time.Parse(time.RFC3339, *req.EndAt)
		ts.EndAt = &end
	}
	if req.Hours != nil {
		ts.Hours, _ = decimal.NewFromString(*req.Hours)
	}
	if req.Units != nil {
		ts.Units = *req.Units
	}
	if req.EmployeeComment != nil {
		ts.EmployeeComment = req.EmployeeComment
	}

	if req.TouchesPayableFields() {
		ts.EmployeeApproved = false
		ts.AdminApproved = false
		ts.ApprovedInRunID = nil
	}

	if err := s.timesheetRepo.Update(ctx, ts); err != nil {
		return nil, err
	}

	resp := timesheet.ToTimesheetResponse(*ts)
	return &resp, nil
}

func (s *timesheetService) DeleteTimesheet(ctx context.Context, id string) error {
	return s.timesheetRepo.Delete(ctx, id)
}

// ========== EMPLOYEE APPROVAL ==========

func (s *timesheetService) ApproveTimesheet(ctx context.Context, id string) (*timesheet.TimesheetResponse, error) {
	return s.setEmployeeApproval(ctx, id, true)
}

func (s *timesheetService) UnapproveTimesheet(ctx context.Context, id string) (*timesheet.TimesheetResponse, error) {
	return s.setEmployeeApproval(ctx, id, false)
}

func (s *timesheetService) setEmployeeApproval(ctx context.Context, id string, approved bool) (*timesheet.TimesheetResponse, error) {
	ts, err := s.getOwnedTimesheet(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.timesheetRepo.SetEmployeeApproved(ctx, id, approved); err != nil {
		return nil, err
	}
	ts.EmployeeApproved = approved

	resp := timesheet.ToTimesheetResponse(*ts)
	return &resp, nil
}

// getOwnedTimesheet loads a timesheet and enforces that a non-admin caller
// owns it.
func (s *timesheetService) getOwnedTimesheet(ctx context.Context, id string) (*timesheet.Timesheet, error) {
	employeeID, role, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ts, err := s.timesheetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != jwt.RoleAdmin && ts.EmployeeID != employeeID {
		return nil, timesheet.ErrNotTimesheetOwner
	}
	return ts, nil
}
