package timesheet

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidyops/payroll-backend-go/internal/domain/job"
	"github.com/tidyops/payroll-backend-go/internal/domain/rate"
	"github.com/tidyops/payroll-backend-go/internal/domain/timesheet"
)

// ========== FAKES ==========

type fakeTimesheetRepo struct {
	items      map[string]*timesheet.Timesheet
	lockedRuns map[string]bool
}

func newFakeTimesheetRepo() *fakeTimesheetRepo {
	return &fakeTimesheetRepo{
		items:      make(map[string]*timesheet.Timesheet),
		lockedRuns: make(map[string]bool),
	}
}

func (f *fakeTimesheetRepo) isLocked(t *timesheet.Timesheet) bool {
	return t.ApprovedInRunID != nil && f.lockedRuns[*t.ApprovedInRunID]
}

func (f *fakeTimesheetRepo) Create(_ context.Context, t *timesheet.Timesheet) error {
	if t.JobID != nil {
		for _, existing := range f.items {
			if existing.EmployeeID == t.EmployeeID && existing.JobID != nil && *existing.JobID == *t.JobID {
				return timesheet.ErrTimesheetExists
			}
		}
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	f.items[t.ID] = &cp
	return nil
}

func (f *fakeTimesheetRepo) GetByID(_ context.Context, id string) (*timesheet.Timesheet, error) {
	t, ok := f.items[id]
	if !ok {
		return nil, timesheet.ErrTimesheetNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTimesheetRepo) ExistsForJob(_ context.Context, employeeID, jobID string) (bool, error) {
	for _, t := range f.items {
		if t.EmployeeID == employeeID && t.JobID != nil && *t.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTimesheetRepo) List(_ context.Context, q timesheet.ListTimesheetsQuery) ([]timesheet.Timesheet, error) {
	var out []timesheet.Timesheet
	for _, t := range f.items {
		if q.EmployeeID != nil && t.EmployeeID != *q.EmployeeID {
			continue
		}
		if q.From != nil && t.WorkDate.Before(*q.From) {
			continue
		}
		if q.To != nil && !t.WorkDate.Before(*q.To) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTimesheetRepo) ListByPeriod(_ context.Context, from, to time.Time) ([]timesheet.Timesheet, error) {
	var out []timesheet.Timesheet
	for _, t := range f.items {
		if !t.EmployeeApproved || f.isLocked(t) {
			continue
		}
		if t.WorkDate.Before(from) || !t.WorkDate.Before(to) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTimesheetRepo) ListByRun(_ context.Context, runID string) ([]timesheet.Timesheet, error) {
	var out []timesheet.Timesheet
	for _, t := range f.items {
		if t.ApprovedInRunID != nil && *t.ApprovedInRunID == runID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTimesheetRepo) Update(_ context.Context, t *timesheet.Timesheet) error {
	existing, ok := f.items[t.ID]
	if !ok {
		return timesheet.ErrTimesheetNotFound
	}
	if f.isLocked(existing) {
		return timesheet.ErrTimesheetLocked
	}
	t.UpdatedAt = time.Now()
	cp := *t
	f.items[t.ID] = &cp
	return nil
}

func (f *fakeTimesheetRepo) SetEmployeeApproved(_ context.Context, id string, approved bool) error {
	t, ok := f.items[id]
	if !ok {
		return timesheet.ErrTimesheetNotFound
	}
	if f.isLocked(t) {
		return timesheet.ErrTimesheetLocked
	}
	t.EmployeeApproved = approved
	return nil
}

func (f *fakeTimesheetRepo) AttachToRun(_ context.Context, id, runID string) error {
	t, ok := f.items[id]
	if !ok {
		return timesheet.ErrTimesheetNotFound
	}
	if f.isLocked(t) {
		return timesheet.ErrTimesheetLocked
	}
	t.AdminApproved = true
	t.ApprovedInRunID = &runID
	return nil
}

func (f *fakeTimesheetRepo) Delete(_ context.Context, id string) error {
	t, ok := f.items[id]
	if !ok {
		return timesheet.ErrTimesheetNotFound
	}
	if f.isLocked(t) {
		return timesheet.ErrTimesheetLocked
	}
	delete(f.items, id)
	return nil
}

type fakeJobRepo struct {
	jobs []job.Job
}

func (f *fakeJobRepo) GetByID(_ context.Context, id string) (*job.Job, error) {
	for _, j := range f.jobs {
		if j.ID == id {
			cp := j
			return &cp, nil
		}
	}
	return nil, job.ErrJobNotFound
}

func (f *fakeJobRepo) ListByDateRange(_ context.Context, from, to time.Time) ([]job.Job, error) {
	var out []job.Job
	for _, j := range f.jobs {
		if !j.Date.Before(from) && j.Date.Before(to) {
			out = append(out, j)
		}
	}
	return out, nil
}

type fakeRateRepo struct {
	rates []rate.EmployeeRate
}

func (f *fakeRateRepo) Create(_ context.Context, r *rate.EmployeeRate) error {
	f.rates = append(f.rates, *r)
	return nil
}

func (f *fakeRateRepo) ListByEmployee(_ context.Context, employeeID string) ([]rate.EmployeeRate, error) {
	var out []rate.EmployeeRate
	for _, r := range f.rates {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRateRepo) ListEffective(_ context.Context, employeeID string, asOf time.Time) ([]rate.EmployeeRate, error) {
	var out []rate.EmployeeRate
	for _, r := range f.rates {
		if r.EmployeeID == employeeID && !r.EffectiveDate.After(asOf) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ========== HELPERS ==========

func authContext(t *testing.T, employeeID, role string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"role":        role,
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }

func hourlyRate(employeeID, amount string) rate.EmployeeRate {
	amt, _ := decimal.NewFromString(amount)
	return rate.EmployeeRate{
		ID:            uuid.NewString(),
		EmployeeID:    employeeID,
		RateType:      rate.RateTypeHourly,
		Amount:        amt,
		EffectiveDate: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// ========== GENERATION TESTS ==========

func TestGenerate_CreatesDraftsWithFrozenSnapshots(t *testing.T) {
	employeeID := uuid.NewString()
	tsRepo := newFakeTimesheetRepo()
	jobRepo := &fakeJobRepo{jobs: []job.Job{{
		ID:              uuid.NewString(),
		Date:            time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		DurationMinutes: intPtr(90),
		AssigneeIDs:     []string{employeeID},
	}}}
	rateRepo := &fakeRateRepo{rates: []rate.EmployeeRate{hourlyRate(employeeID, "20.00")}}
	svc := NewTimesheetService(tsRepo, jobRepo, rateRepo)

	report, err := svc.Generate(context.Background(), &timesheet.GenerateTimesheetsRequest{
		From: "2026-03-09", To: "2026-03-16",
	})
	require.NoError(t, err)
	require.Len(t, report.Created, 1)
	assert.Equal(t, 0, report.SkippedExisting)
	assert.Empty(t, report.MissingRates)
	assert.Empty(t, report.Failed)

	require.Len(t, tsRepo.items, 1)
	for _, ts := range tsRepo.items {
		require.NotNil(t, ts.RateSnapshot)
		assert.Equal(t, rate.RateTypeHourly, ts.RateSnapshot.Type)
		assert.Equal(t, "20.00", ts.RateSnapshot.Amount.StringFixed(2))
		assert.Equal(t, "1.50", ts.Hours.StringFixed(2))
		assert.Equal(t, 1, ts.Units)
		assert.False(t, ts.EmployeeApproved)
		assert.False(t, ts.AdminApproved)
	}
}

func TestGenerate_IsIdempotent(t *testing.T) {
	employeeID := uuid.NewString()
	tsRepo := newFakeTimesheetRepo()
	jobRepo := &fakeJobRepo{jobs: []job.Job{{
		ID:          uuid.NewString(),
		Date:        time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		AssigneeIDs: []string{employeeID},
	}}}
	rateRepo := &fakeRateRepo{rates: []rate.EmployeeRate{hourlyRate(employeeID, "20.00")}}
	svc := NewTimesheetService(tsRepo, jobRepo, rateRepo)

	req := &timesheet.GenerateTimesheetsRequest{From: "2026-03-09", To: "2026-03-16"}

	first, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, first.Created, 1)

	second, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Equal(t, 1, second.SkippedExisting)
	assert.Len(t, tsRepo.items, 1)
}

func TestGenerate_ReportsMissingRates(t *testing.T) {
	employeeID := uuid.NewString()
	jobID := uuid.NewString()
	tsRepo := newFakeTimesheetRepo()
	jobRepo := &fakeJobRepo{jobs: []job.Job{{
		ID:          jobID,
		Date:        time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		AssigneeIDs: []string{employeeID},
	}}}
	svc := NewTimesheetService(tsRepo, jobRepo, &fakeRateRepo{})

	report, err := svc.Generate(context.Background(), &timesheet.GenerateTimesheetsRequest{
		From: "2026-03-09", To: "2026-03-16",
	})
	require.NoError(t, err)
	assert.Empty(t, report.Created)
	require.Len(t, report.MissingRates, 1)
	assert.Equal(t, employeeID, report.MissingRates[0].EmployeeID)
	assert.Equal(t, jobID, report.MissingRates[0].JobID)
	assert.Empty(t, tsRepo.items)
}

func TestGenerate_MergesLegacyAssignments(t *testing.T) {
	empA := uuid.NewString()
	empB := uuid.NewString()
	jobID := uuid.NewString()
	tsRepo := newFakeTimesheetRepo()
	jobRepo := &fakeJobRepo{jobs: []job.Job{{
		ID:          jobID,
		Date:        time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		AssigneeIDs: []string{empA},
		Assignments: []job.Assignment{
			// empA appears in both representations and must not be doubled.
			{ID: uuid.NewString(), JobID: jobID, EmployeeID: empA},
			{ID: uuid.NewString(), JobID: jobID, EmployeeID: empB},
		},
	}}}
	rateRepo := &fakeRateRepo{rates: []rate.EmployeeRate{
		hourlyRate(empA, "20.00"),
		hourlyRate(empB, "22.00"),
	}}
	svc := NewTimesheetService(tsRepo, jobRepo, rateRepo)

	report, err := svc.Generate(context.Background(), &timesheet.GenerateTimesheetsRequest{
		From: "2026-03-09", To: "2026-03-16",
	})
	require.NoError(t, err)
	require.Len(t, report.Created, 2)
	assert.Len(t, tsRepo.items, 2)
}

func TestGenerate_PerVisitUsesUnits(t *testing.T) {
	employeeID := uuid.NewString()
	amt, _ := decimal.NewFromString("80.00")
	tsRepo := newFakeTimesheetRepo()
	jobRepo := &fakeJobRepo{jobs: []job.Job{{
		ID:              uuid.NewString(),
		Date:            time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		DurationMinutes: intPtr(120),
		AssigneeIDs:     []string{employeeID},
	}}}
	rateRepo := &fakeRateRepo{rates: []rate.EmployeeRate{{
		ID:            uuid.NewString(),
		EmployeeID:    employeeID,
		RateType:      rate.RateTypePerVisit,
		Amount:        amt,
		EffectiveDate: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}}}
	svc := NewTimesheetService(tsRepo, jobRepo, rateRepo)

	_, err := svc.Generate(context.Background(), &timesheet.GenerateTimesheetsRequest{
		From: "2026-03-09", To: "2026-03-16",
	})
	require.NoError(t, err)

	require.Len(t, tsRepo.items, 1)
	for _, ts := range tsRepo.items {
		// Duration is irrelevant for a per-visit rate.
		assert.True(t, ts.Hours.IsZero())
		assert.Equal(t, 1, ts.Units)
		assert.Equal(t, "80.00", ts.Earnings().StringFixed(2))
	}
}

// ========== APPROVAL AND EDIT TESTS ==========

func seedTimesheet(repo *fakeTimesheetRepo, employeeID string, approved bool) *timesheet.Timesheet {
	jobID := uuid.NewString()
	hours, _ := decimal.NewFromString("3.00")
	amt, _ := decimal.NewFromString("18.50")
	ts := &timesheet.Timesheet{
		ID:               uuid.NewString(),
		EmployeeID:       employeeID,
		JobID:            &jobID,
		WorkDate:         time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		Hours:            hours,
		Units:            1,
		RateSnapshot:     &rate.Snapshot{Type: rate.RateTypeHourly, Amount: amt},
		EmployeeApproved: approved,
	}
	repo.items[ts.ID] = ts
	return ts
}

func TestApproveTimesheet_OwnerOnly(t *testing.T) {
	owner := uuid.NewString()
	stranger := uuid.NewString()
	tsRepo := newFakeTimesheetRepo()
	ts := seedTimesheet(tsRepo, owner, false)
	svc := NewTimesheetService(tsRepo, &fakeJobRepo{}, &fakeRateRepo{})

	_, err := svc.ApproveTimesheet(authContext(t, stranger, "employee"), ts.ID)
	assert.ErrorIs(t, err, timesheet.ErrNotTimesheetOwner)

	resp, err := svc.ApproveTimesheet(authContext(t, owner, "employee"), ts.ID)
	require.NoError(t, err)
	assert.True(t, resp.EmployeeApproved)
}

func TestUpdateTimesheet_EditResetsApprovals(t *testing.T) {
	owner := uuid.NewString()
	tsRepo := newFakeTimesheetRepo()
	ts := seedTimesheet(tsRepo, owner, true)
	runID := uuid.NewString()
	ts.AdminApproved = true
	ts.ApprovedInRunID = &runID
	svc := NewTimesheetService(tsRepo, &fakeJobRepo{}, &fakeRateRepo{})

	resp, err := svc.UpdateTimesheet(authContext(t, owner, "employee"), ts.ID, &timesheet.UpdateTimesheetRequest{
		Hours: strPtr("4.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "4.00", resp.Hours)
	assert.False(t, resp.EmployeeApproved)
	assert.False(t, resp.AdminApproved)
	assert.Nil(t, resp.ApprovedInRunID)
}

func TestUpdateTimesheet_CommentOnlyKeepsApprovals(t *testing.T) {
	owner := uuid.NewString()
	tsRepo := newFakeTimesheetRepo()
	ts := seedTimesheet(tsRepo, owner, true)
	svc := NewTimesheetService(tsRepo, &fakeJobRepo{}, &fakeRateRepo{})

	resp, err := svc.UpdateTimesheet(authContext(t, owner, "employee"), ts.ID, &timesheet.UpdateTimesheetRequest{
		EmployeeComment: strPtr("forgot my keys, arrived late"),
	})
	require.NoError(t, err)
	assert.True(t, resp.EmployeeApproved)
	require.NotNil(t, resp.EmployeeComment)
}

func TestUpdateTimesheet_LockedRunIsImmutable(t *testing.T) {
	owner := uuid.NewString()
	tsRepo := newFakeTimesheetRepo()
	ts := seedTimesheet(tsRepo, owner, true)
	runID := uuid.NewString()
	ts.AdminApproved = true
	ts.ApprovedInRunID = &runID
	tsRepo.lockedRuns[runID] = true
	svc := NewTimesheetService(tsRepo, &fakeJobRepo{}, &fakeRateRepo{})

	_, err := svc.UpdateTimesheet(authContext(t, owner, "employee"), ts.ID, &timesheet.UpdateTimesheetRequest{
		Hours: strPtr("9.00"),
	})
	assert.ErrorIs(t, err, timesheet.ErrTimesheetLocked)

	_, err = svc.ApproveTimesheet(authContext(t, owner, "employee"), ts.ID)
	assert.ErrorIs(t, err, timesheet.ErrTimesheetLocked)
}

func TestListTimesheets_EmployeeSeesOnlyOwn(t *testing.T) {
	owner := uuid.NewString()
	other := uuid.NewString()
	tsRepo := newFakeTimesheetRepo()
	seedTimesheet(tsRepo, owner, false)
	seedTimesheet(tsRepo, other, false)
	svc := NewTimesheetService(tsRepo, &fakeJobRepo{}, &fakeRateRepo{})

	own, err := svc.ListTimesheets(authContext(t, owner, "employee"), timesheet.ListTimesheetsQuery{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, owner, own[0].EmployeeID)

	all, err := svc.ListTimesheets(authContext(t, owner, "admin"), timesheet.ListTimesheetsQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateTimesheet_WithoutRateStaysSnapshotless(t *testing.T) {
	employeeID := uuid.NewString()
	tsRepo := newFakeTimesheetRepo()
	svc := NewTimesheetService(tsRepo, &fakeJobRepo{}, &fakeRateRepo{})

	resp, err := svc.CreateTimesheet(context.Background(), &timesheet.CreateTimesheetRequest{
		EmployeeID: employeeID,
		WorkDate:   "2026-03-10",
		Hours:      strPtr("2.00"),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.RateSnapshot)
	assert.Equal(t, "0.00", resp.Earnings)
}
