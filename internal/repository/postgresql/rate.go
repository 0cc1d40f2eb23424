package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidyops/payroll-backend-go/internal/domain/rate"
	"github.com/tidyops/payroll-backend-go/internal/pkg/database"
)

type rateRepository struct {
	db *database.DB
}

func NewRateRepository(db *database.DB) rate.RateRepository {
	return &rateRepository{db: db}
}

func (r *rateRepository) Create(ctx context.Context, er *rate.EmployeeRate) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_rates (employee_id, rate_type, amount, effective_date, location_id, client_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		er.EmployeeID, er.RateType, er.Amount, er.EffectiveDate, er.LocationID, er.ClientID,
	).Scan(&er.ID, &er.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "uk_employee_rate") {
			return rate.ErrRateExists
		}
		return fmt.Errorf("failed to create employee rate: %w", err)
	}

	return nil
}

func (r *rateRepository) ListByEmployee(ctx context.Context, employeeID string) ([]rate.EmployeeRate, error) {
	return r.list(ctx, `
		SELECT id, employee_id, rate_type, amount, effective_date, location_id, client_id, created_at
		FROM employee_rates
		WHERE employee_id = $1
		ORDER BY effective_date DESC, created_at DESC
	`, employeeID)
}

func (r *rateRepository) ListEffective(ctx context.Context, employeeID string, asOf time.Time) ([]rate.EmployeeRate, error) {
	return r.list(ctx, `
		SELECT id, employee_id, rate_type, amount, effective_date, location_id, client_id, created_at
		FROM employee_rates
		WHERE employee_id = $1 AND effective_date <= $2
	`, employeeID, asOf)
}

func (r *rateRepository) list(ctx context.Context, query string, args ...interface{}) ([]rate.EmployeeRate, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee rates: %w", err)
	}
	defer rows.Close()

	var rates []rate.EmployeeRate
	for rows.Next() {
		var er rate.EmployeeRate
		if err := rows.Scan(
			&er.ID, &er.EmployeeID, &er.RateType, &er.Amount,
			&er.EffectiveDate, &er.LocationID, &er.ClientID, &er.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee rate: %w", err)
		}
		rates = append(rates, er)
	}

	return rates, rows.Err()
}
