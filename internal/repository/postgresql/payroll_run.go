package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tidyops/payroll-backend-go/internal/domain/payrollrun"
	"github.com/tidyops/payroll-backend-go/internal/pkg/database"
)

// runTotals recomputes a run's aggregates from its attached timesheets using
// the frozen rate snapshots, never the live rate table.
const runTotals = `
	SELECT COUNT(*),
		   COALESCE(SUM(hours), 0),
		   COALESCE(SUM(
			   CASE WHEN rate_snapshot->>'type' = 'hourly'
					THEN round((rate_snapshot->>'amount')::numeric * hours, 2)
					ELSE round((rate_snapshot->>'amount')::numeric * GREATEST(units, 1), 2)
			   END), 0)
	FROM timesheets
	WHERE approved_in_run_id = $1
`

const runColumns = `id, period_start, period_end, status, total_hours, total_amount,
	timesheet_count, locked_at, created_at, updated_at`

type runRepository struct {
	db *database.DB
}

func NewRunRepository(db *database.DB) payrollrun.RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) Create(ctx context.Context, run *payrollrun.PayrollRun) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (period_start, period_end, status)
		VALUES ($1, $2, $3)
		RETURNING id, total_hours, total_amount, timesheet_count, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, run.PeriodStart, run.PeriodEnd, run.Status).Scan(
		&run.ID, &run.TotalHours, &run.TotalAmount, &run.TimesheetCount,
		&run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_run_period") {
			return payrollrun.ErrRunExistsForPeriod
		}
		return fmt.Errorf("failed to create payroll run: %w", err)
	}

	return nil
}

func (r *runRepository) GetByID(ctx context.Context, id string) (*payrollrun.PayrollRun, error) {
	return r.getOne(ctx, `SELECT `+runColumns+` FROM payroll_runs WHERE id = $1`, id)
}

func (r *runRepository) GetByPeriod(ctx context.Context, start, end time.Time) (*payrollrun.PayrollRun, error) {
	return r.getOne(ctx, `SELECT `+runColumns+` FROM payroll_runs WHERE period_start = $1 AND period_end = $2`, start, end)
}

func (r *runRepository) getOne(ctx context.Context, query string, args ...interface{}) (*payrollrun.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	run, err := scanRun(q.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, payrollrun.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get payroll run: %w", err)
	}

	return run, nil
}

func (r *runRepository) List(ctx context.Context) ([]payrollrun.PayrollRun, error) {
	return r.list(ctx, `SELECT `+runColumns+` FROM payroll_runs ORDER BY period_start DESC`)
}

func (r *runRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payrollrun.PayrollRun, error) {
	query := `
		SELECT ` + runColumns + ` FROM payroll_runs
		WHERE id IN (
			SELECT approved_in_run_id FROM timesheets
			WHERE employee_id = $1 AND approved_in_run_id IS NOT NULL
		)
		ORDER BY period_start DESC
	`
	return r.list(ctx, query, employeeID)
}

func (r *runRepository) list(ctx context.Context, query string, args ...interface{}) ([]payrollrun.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payrollrun.PayrollRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

func (r *runRepository) UpdateTotals(ctx context.Context, id string) (*payrollrun.PayrollRun, error) {
	count, hours, amount, err := r.computeTotals(ctx, id)
	if err != nil {
		return nil, err
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_runs
		SET total_hours = $2, total_amount = $3, timesheet_count = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
		RETURNING ` + runColumns

	run, err := scanRun(q.QueryRow(ctx, query, id, hours, amount, count))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, r.notFoundOrLocked(ctx, id)
		}
		return nil, fmt.Errorf("failed to update payroll run totals: %w", err)
	}

	return run, nil
}

func (r *runRepository) EmployeeTotals(ctx context.Context, id string) ([]payrollrun.EmployeeTotal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, COUNT(*),
			   COALESCE(SUM(hours), 0),
			   COALESCE(SUM(
				   CASE WHEN rate_snapshot->>'type' = 'hourly'
						THEN round((rate_snapshot->>'amount')::numeric * hours, 2)
						ELSE round((rate_snapshot->>'amount')::numeric * GREATEST(units, 1), 2)
				   END), 0)
		FROM timesheets
		WHERE approved_in_run_id = $1
		GROUP BY employee_id
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate employee totals: %w", err)
	}
	defer rows.Close()

	var totals []payrollrun.EmployeeTotal
	for rows.Next() {
		var et payrollrun.EmployeeTotal
		if err := rows.Scan(&et.EmployeeID, &et.TimesheetCount, &et.Hours, &et.Total); err != nil {
			return nil, fmt.Errorf("failed to scan employee total: %w", err)
		}
		totals = append(totals, et)
	}

	return totals, rows.Err()
}

// Lock flips the run from draft to locked and recomputes its final totals in
// one transaction. The status check in the UPDATE makes a second lock attempt
// a no-op, so concurrent locks cannot both succeed.
func (r *runRepository) Lock(ctx context.Context, id string, lockedAt time.Time) (*payrollrun.PayrollRun, error) {
	var run *payrollrun.PayrollRun

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		tag, err := tx.Exec(ctx, `
			UPDATE payroll_runs
			SET status = 'locked', locked_at = $2, updated_at = NOW()
			WHERE id = $1 AND status = 'draft'
		`, id, lockedAt)
		if err != nil {
			return fmt.Errorf("failed to lock payroll run: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return r.notFoundOrLocked(txCtx, id)
		}

		count, hours, amount, err := r.computeTotals(txCtx, id)
		if err != nil {
			return err
		}

		run, err = scanRunErr(tx.QueryRow(ctx, `
			UPDATE payroll_runs
			SET total_hours = $2, total_amount = $3, timesheet_count = $4
			WHERE id = $1
			RETURNING `+runColumns, id, hours, amount, count))
		return err
	})
	if err != nil {
		return nil, err
	}

	return run, nil
}

// Delete releases the run's timesheets and removes the draft row in one
// transaction. If a concurrent lock wins the status race, the detach rolls
// back with the failed delete.
func (r *runRepository) Delete(ctx context.Context, id string) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		_, err := tx.Exec(ctx, `
			UPDATE timesheets
			SET admin_approved = false, approved_in_run_id = NULL, updated_at = NOW()
			WHERE approved_in_run_id = $1
		`, id)
		if err != nil {
			return fmt.Errorf("failed to detach timesheets from run: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM payroll_runs WHERE id = $1 AND status = 'draft'`, id)
		if err != nil {
			return fmt.Errorf("failed to delete payroll run: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return r.notFoundOrLocked(txCtx, id)
		}

		return nil
	})
}

func (r *runRepository) computeTotals(ctx context.Context, id string) (int, decimal.Decimal, decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	var hours, amount decimal.Decimal
	if err := q.QueryRow(ctx, runTotals, id).Scan(&count, &hours, &amount); err != nil {
		return 0, decimal.Zero, decimal.Zero, fmt.Errorf("failed to compute run totals: %w", err)
	}

	return count, hours, amount, nil
}

func (r *runRepository) notFoundOrLocked(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payroll_runs WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check payroll run existence: %w", err)
	}
	if exists {
		return payrollrun.ErrRunLocked
	}
	return payrollrun.ErrRunNotFound
}

func scanRun(row pgx.Row) (*payrollrun.PayrollRun, error) {
	var run payrollrun.PayrollRun
	err := row.Scan(
		&run.ID, &run.PeriodStart, &run.PeriodEnd, &run.Status,
		&run.TotalHours, &run.TotalAmount, &run.TimesheetCount,
		&run.LockedAt, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func scanRunErr(row pgx.Row) (*payrollrun.PayrollRun, error) {
	run, err := scanRun(row)
	if err != nil {
		return nil, fmt.Errorf("failed to scan payroll run: %w", err)
	}
	return run, nil
}
