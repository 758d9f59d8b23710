package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkravets/paperjobs/internal/common"
	"github.com/mkravets/paperjobs/internal/dbx"
	"github.com/mkravets/paperjobs/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, job *models.Job) (*models.Job, error) {

	query :=
		`INSERT INTO jobs (title, description, file_name, file_content, file_size, mime_type, storage_key, status, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		job.Title, job.Description, job.FileName, job.FileContent, job.FileSize,
		job.MimeType, job.StorageKey, job.Status, job.UserID).
		Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return job, nil
}

// List returns jobs ordered most recent first. File content is not loaded
// here; listing pages only need metadata.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*models.Job, error) {
	query :=
		`SELECT id, title, COALESCE(description, ''), file_name, file_size, mime_type, storage_key,
		        status, COALESCE(result, ''), user_id, created_at, updated_at
		 FROM jobs
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2
		 `

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Job
	for rows.Next() {
		job := &models.Job{}
		if err := rows.Scan(&job.ID, &job.Title, &job.Description, &job.FileName,
			&job.FileSize, &job.MimeType, &job.StorageKey, &job.Status, &job.Result,
			&job.UserID, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	query :=
		`SELECT id, title, COALESCE(description, ''), file_name, file_content, file_size, mime_type,
		        storage_key, status, COALESCE(result, ''), user_id, created_at, updated_at
		 FROM jobs
		 WHERE id = $1
		 `

	job := &models.Job{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &job.Title, &job.Description, &job.FileName, &job.FileContent,
		&job.FileSize, &job.MimeType, &job.StorageKey, &job.Status, &job.Result,
		&job.UserID, &job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return job, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
