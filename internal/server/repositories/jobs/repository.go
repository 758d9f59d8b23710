package jobs

import (
	"context"

	"github.com/mkravets/paperjobs/internal/server/models"
)

// Repository is the job record store.
type Repository interface {
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	List(ctx context.Context, limit, offset int) ([]*models.Job, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Job, error)
	Delete(ctx context.Context, id string) error
}
