package payrollrun

import (
	"context"
	"time"
)

type RunRepository interface {
	Create(ctx context.Context, r *PayrollRun) error
	GetByID(ctx context.Context, id string) (*PayrollRun, error)
	GetByPeriod(ctx context.Context, start, end time.Time) (*PayrollRun, error)
	List(ctx context.Context) ([]PayrollRun, error)
	// ListByEmployee returns the runs holding at least one of the
	// employee's timesheets.
	ListByEmployee(ctx context.Context, employeeID string) ([]PayrollRun, error)
	// UpdateTotals refreshes total_amount and timesheet_count from the
	// attached timesheets. It fails with ErrRunLocked on a locked run.
	UpdateTotals(ctx context.Context, id string) (*PayrollRun, error)
	// EmployeeTotals aggregates the run's timesheets per employee.
	EmployeeTotals(ctx context.Context, id string) ([]EmployeeTotal, error)
	// Lock transitions the run from draft to locked, recomputing totals in
	// the same transaction. A second lock attempt fails with ErrRunLocked.
	Lock(ctx context.Context, id string, lockedAt time.Time) (*PayrollRun, error)
	Delete(ctx context.Context, id string) error
}

type CycleRepository interface {
	Get(ctx context.Context) (*Cycle, error)
	Upsert(ctx context.Context, c *Cycle) error
}
