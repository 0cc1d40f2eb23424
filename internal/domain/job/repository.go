package job

import (
	"context"
	"errors"
	"time"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	GetByID(ctx context.Context, id string) (*Job, error)
	// ListByDateRange returns jobs with date in [from, to), ordered by id,
	// with assignments loaded.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Job, error)
}
