package rate

import (
	"context"
	"time"
)

type RateRepository interface {
	Create(ctx context.Context, r *EmployeeRate) error
	ListByEmployee(ctx context.Context, employeeID string) ([]EmployeeRate, error)
	// ListEffective returns the employee's rates with effective date on or
	// before asOf, in no particular order.
	ListEffective(ctx context.Context, employeeID string, asOf time.Time) ([]EmployeeRate, error)
}
