package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tidyops/payroll-backend-go/internal/domain/job"
	"github.com/tidyops/payroll-backend-go/internal/pkg/database"
)

type jobRepository struct {
	db *database.DB
}

func NewJobRepository(db *database.DB) job.JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*job.Job, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, date, duration_minutes, location_id, client_id, assignee_ids, created_at
		FROM jobs
		WHERE id = $1
	`

	var j job.Job
	err := q.QueryRow(ctx, query, id).Scan(
		&j.ID, &j.Date, &j.DurationMinutes, &j.LocationID, &j.ClientID, &j.AssigneeIDs, &j.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, job.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if err := r.loadAssignments(ctx, []*job.Job{&j}); err != nil {
		return nil, err
	}

	return &j, nil
}

func (r *jobRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]job.Job, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, date, duration_minutes, location_id, client_id, assignee_ids, created_at
		FROM jobs
		WHERE date >= $1 AND date < $2
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []job.Job
	for rows.Next() {
		var j job.Job
		if err := rows.Scan(
			&j.ID, &j.Date, &j.DurationMinutes, &j.LocationID, &j.ClientID, &j.AssigneeIDs, &j.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*job.Job, len(jobs))
	for i := range jobs {
		refs[i] = &jobs[i]
	}
	if err := r.loadAssignments(ctx, refs); err != nil {
		return nil, err
	}

	return jobs, nil
}

// loadAssignments attaches legacy job_assignments rows to the given jobs.
func (r *jobRepository) loadAssignments(ctx context.Context, jobs []*job.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	ids := make([]string, len(jobs))
	byID := make(map[string]*job.Job, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
		byID[j.ID] = j
	}

	query := `
		SELECT id, job_id, employee_id
		FROM job_assignments
		WHERE job_id = ANY($1)
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to list job assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a job.Assignment
		if err := rows.Scan(&a.ID, &a.JobID, &a.EmployeeID); err != nil {
			return fmt.Errorf("failed to scan job assignment: %w", err)
		}
		if j, ok := byID[a.JobID]; ok {
			j.Assignments = append(j.Assignments, a)
		}
	}

	return rows.Err()
}
