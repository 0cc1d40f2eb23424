package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tidyops/payroll-backend-go/internal/domain/payrollrun"
	"github.com/tidyops/payroll-backend-go/internal/domain/rate"
	"github.com/tidyops/payroll-backend-go/internal/domain/timesheet"
	"github.com/tidyops/payroll-backend-go/internal/pkg/database"
)

// notLockedGuard rejects writes to timesheets sitting in a locked run.
// Lockedness is derived from the owning run's status, never stored on the
// timesheet row itself.
const notLockedGuard = `NOT EXISTS (
	SELECT 1 FROM payroll_runs pr
	WHERE pr.id = timesheets.approved_in_run_id AND pr.status = 'locked'
)`

const timesheetColumns = `id, employee_id, job_id, work_date, start_at, end_at,
	hours, units, rate_snapshot, employee_approved, admin_approved,
	approved_in_run_id, employee_comment, created_at, updated_at`

type timesheetRepository struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepository{db: db}
}

func (r *timesheetRepository) Create(ctx context.Context, t *timesheet.Timesheet) error {
	q := GetQuerier(ctx, r.db)

	snapshot, err := marshalSnapshot(t.RateSnapshot)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO timesheets (
			employee_id, job_id, work_date, start_at, end_at, hours, units,
			rate_snapshot, employee_approved, admin_approved, employee_comment
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		t.EmployeeID, t.JobID, t.WorkDate, t.StartAt, t.EndAt, t.Hours, t.Units,
		snapshot, t.EmployeeApproved, t.AdminApproved, t.EmployeeComment,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "uk_timesheet_employee_job") {
			return timesheet.ErrTimesheetExists
		}
		return fmt.Errorf("failed to create timesheet: %w", err)
	}

	return nil
}

func (r *timesheetRepository) GetByID(ctx context.Context, id string) (*timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE id = $1`

	t, err := scanTimesheet(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, timesheet.ErrTimesheetNotFound
		}
		return nil, fmt.Errorf("failed to get timesheet: %w", err)
	}

	return t, nil
}

func (r *timesheetRepository) ExistsForJob(ctx context.Context, employeeID, jobID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM timesheets WHERE employee_id = $1 AND job_id = $2)`,
		employeeID, jobID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check timesheet existence: %w", err)
	}

	return exists, nil
}

func (r *timesheetRepository) List(ctx context.Context, filter timesheet.ListTimesheetsQuery) ([]timesheet.Timesheet, error) {
	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE 1=1`
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil {
		query += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND work_date >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND work_date < $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}

	query += " ORDER BY work_date DESC, created_at DESC"

	return r.list(ctx, query, args...)
}

func (r *timesheetRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]timesheet.Timesheet, error) {
	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheets
		WHERE work_date >= $1 AND work_date < $2
		  AND employee_approved = true
		  AND ` + notLockedGuard + `
		ORDER BY work_date, created_at
	`
	return r.list(ctx, query, from, to)
}

func (r *timesheetRepository) ListByRun(ctx context.Context, runID string) ([]timesheet.Timesheet, error) {
	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheets
		WHERE approved_in_run_id = $1
		ORDER BY employee_id, work_date
	`
	return r.list(ctx, query, runID)
}

func (r *timesheetRepository) Update(ctx context.Context, t *timesheet.Timesheet) error {
	q := GetQuerier(ctx, r.db)

	snapshot, err := marshalSnapshot(t.RateSnapshot)
	if err != nil {
		return err
	}

	query := `
		UPDATE timesheets
		SET job_id = $2, start_at = $3, end_at = $4, hours = $5, units = $6,
			rate_snapshot = $7, employee_approved = $8, admin_approved = $9,
			approved_in_run_id = $10, employee_comment = $11, updated_at = NOW()
		WHERE id = $1 AND ` + notLockedGuard + `
		RETURNING updated_at
	`

	err = q.QueryRow(ctx, query,
		t.ID, t.JobID, t.StartAt, t.EndAt, t.Hours, t.Units, snapshot,
		t.EmployeeApproved, t.AdminApproved, t.ApprovedInRunID, t.EmployeeComment,
	).Scan(&t.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return r.notFoundOrLocked(ctx, t.ID)
		}
		if strings.Contains(err.Error(), "uk_timesheet_employee_job") {
			return timesheet.ErrTimesheetExists
		}
		return fmt.Errorf("failed to update timesheet: %w", err)
	}

	return nil
}

func (r *timesheetRepository) SetEmployeeApproved(ctx context.Context, id string, approved bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheets
		SET employee_approved = $2, updated_at = NOW()
		WHERE id = $1 AND ` + notLockedGuard + `
	`

	tag, err := q.Exec(ctx, query, id, approved)
	if err != nil {
		return fmt.Errorf("failed to set employee approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notFoundOrLocked(ctx, id)
	}

	return nil
}

// AttachToRun re-checks in SQL that the target run is still draft, so a lock
// committing after the caller's status check cannot gain a member.
func (r *timesheetRepository) AttachToRun(ctx context.Context, id, runID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheets
		SET admin_approved = true, approved_in_run_id = $2, updated_at = NOW()
		WHERE id = $1 AND ` + notLockedGuard + `
		  AND EXISTS (SELECT 1 FROM payroll_runs WHERE id = $2 AND status = 'draft')
	`

	tag, err := q.Exec(ctx, query, id, runID)
	if err != nil {
		return fmt.Errorf("failed to attach timesheet to run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.attachFailure(ctx, id, runID)
	}

	return nil
}

// attachFailure explains a zero-row attach: missing or locked timesheet, or
// a target run that is no longer draft.
func (r *timesheetRepository) attachFailure(ctx context.Context, id, runID string) error {
	q := GetQuerier(ctx, r.db)

	var tsExists, runDraft bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM timesheets WHERE id = $1),
			   EXISTS(SELECT 1 FROM payroll_runs WHERE id = $2 AND status = 'draft')
	`, id, runID).Scan(&tsExists, &runDraft)
	if err != nil {
		return fmt.Errorf("failed to check timesheet existence: %w", err)
	}
	if !tsExists {
		return timesheet.ErrTimesheetNotFound
	}
	if !runDraft {
		return payrollrun.ErrRunLocked
	}
	return timesheet.ErrTimesheetLocked
}

func (r *timesheetRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM timesheets WHERE id = $1 AND ` + notLockedGuard

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete timesheet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notFoundOrLocked(ctx, id)
	}

	return nil
}

// notFoundOrLocked distinguishes a missing row from one the lock guard
// filtered out.
func (r *timesheetRepository) notFoundOrLocked(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM timesheets WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check timesheet existence: %w", err)
	}
	if exists {
		return timesheet.ErrTimesheetLocked
	}
	return timesheet.ErrTimesheetNotFound
}

func (r *timesheetRepository) list(ctx context.Context, query string, args ...interface{}) ([]timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	defer rows.Close()

	var timesheets []timesheet.Timesheet
	for rows.Next() {
		t, err := scanTimesheet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		timesheets = append(timesheets, *t)
	}

	return timesheets, rows.Err()
}

func scanTimesheet(row pgx.Row) (*timesheet.Timesheet, error) {
	var t timesheet.Timesheet
	var snapshot []byte
	err := row.Scan(
		&t.ID, &t.EmployeeID, &t.JobID, &t.WorkDate, &t.StartAt, &t.EndAt,
		&t.Hours, &t.Units, &snapshot, &t.EmployeeApproved, &t.AdminApproved,
		&t.ApprovedInRunID, &t.EmployeeComment, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		var s rate.Snapshot
		if err := json.Unmarshal(snapshot, &s); err != nil {
			return nil, fmt.Errorf("failed to decode rate snapshot: %w", err)
		}
		t.RateSnapshot = &s
	}
	return &t, nil
}

func marshalSnapshot(s *rate.Snapshot) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rate snapshot: %w", err)
	}
	return b, nil
}
