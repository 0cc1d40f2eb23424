package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tidyops/payroll-backend-go/internal/domain/payrollrun"
	"github.com/tidyops/payroll-backend-go/internal/pkg/database"
)

// cycleRepository stores the single payroll cycle configuration row.
type cycleRepository struct {
	db *database.DB
}

func NewCycleRepository(db *database.DB) payrollrun.CycleRepository {
	return &cycleRepository{db: db}
}

func (r *cycleRepository) Get(ctx context.Context) (*payrollrun.Cycle, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT frequency, anchor_weekday, anchor_day, anchor_date, updated_at
		FROM payroll_cycle_settings
		WHERE id = 1
	`

	var c payrollrun.Cycle
	err := q.QueryRow(ctx, query).Scan(
		&c.Frequency, &c.AnchorWeekday, &c.AnchorDay, &c.AnchorDate, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, payrollrun.ErrCycleNotConfigured
		}
		return nil, fmt.Errorf("failed to get payroll cycle settings: %w", err)
	}

	return &c, nil
}

func (r *cycleRepository) Upsert(ctx context.Context, c *payrollrun.Cycle) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_cycle_settings (id, frequency, anchor_weekday, anchor_day, anchor_date)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			frequency = EXCLUDED.frequency,
			anchor_weekday = EXCLUDED.anchor_weekday,
			anchor_day = EXCLUDED.anchor_day,
			anchor_date = EXCLUDED.anchor_date,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, c.Frequency, c.AnchorWeekday, c.AnchorDay, c.AnchorDate).Scan(&c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert payroll cycle settings: %w", err)
	}

	return nil
}
