package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mkravets/paperjobs/internal/common"
	"github.com/mkravets/paperjobs/internal/dbx"
	"github.com/mkravets/paperjobs/internal/logging"
	sc "github.com/mkravets/paperjobs/internal/server/config"
	"github.com/mkravets/paperjobs/internal/server/models"
	"github.com/mkravets/paperjobs/internal/server/repositories/repomanager"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	// maxUploadSize is the 10 MB document limit.
	maxUploadSize = 10 * 1024 * 1024

	// jobsPerPage is the listing page size.
	jobsPerPage = 5

	// presignValidity bounds presigned download URLs.
	presignValidity = 15 * time.Minute
)

// CreateJobInput is one uploaded document plus its metadata.
type CreateJobInput struct {
	Title       string
	Description string
	FileName    string
	MimeType    string
	Content     []byte
	UserID      string
}

// JobService owns the extraction-job lifecycle. Uploaded documents are kept
// inline in the database, or offloaded to S3-compatible object storage when
// a bucket is configured.
type JobService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

// NewJobService constructs a JobService using repositories and server config.
func NewJobService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *JobService {
	return &JobService{
		db:          db,
		repomanager: m,
		config:      cfg,
		logger:      logger.With("module", "job_service"),
	}
}

// randomStorageKey buckets uploads by date so the object store stays browsable.
func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *JobService) s3Enabled() bool {
	return s.config.S3Bucket != ""
}

func (s *JobService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return client, nil
}

// Create validates the upload and persists the job with status PENDING.
// Validation order: presence, MIME type, size. With S3 configured, the row
// and the object are created together: an upload failure rolls the row back.
func (s *JobService) Create(ctx context.Context, input CreateJobInput) (*models.Job, error) {
	if len(input.Content) == 0 {
		return nil, common.ErrFileMissing
	}
	if input.MimeType != "application/pdf" {
		return nil, common.ErrFileType
	}
	if len(input.Content) > maxUploadSize {
		return nil, common.ErrFileTooLarge
	}

	job := &models.Job{
		Title:       input.Title,
		Description: input.Description,
		FileName:    input.FileName,
		FileSize:    int64(len(input.Content)),
		MimeType:    input.MimeType,
		Status:      models.JobStatusPending,
		UserID:      input.UserID,
	}

	if !s.s3Enabled() {
		job.FileContent = input.Content
		created, err := s.repomanager.Jobs(s.db).Create(ctx, job)
		if err != nil {
			return nil, fmt.Errorf("error creating job: %w", err)
		}
		return created, nil
	}

	job.StorageKey = randomStorageKey()

	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 client error: %w", err)
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Jobs(tx).Create(ctx, job)
		if err != nil {
			return fmt.Errorf("error creating job: %w", err)
		}
		job = created

		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.config.S3Bucket),
			Key:         aws.String(job.StorageKey),
			Body:        bytes.NewReader(input.Content),
			ContentType: aws.String(input.MimeType),
		})
		if err != nil {
			return fmt.Errorf("error uploading document: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return job, nil
}

// List returns one page of jobs (most recent first) and the total page count.
func (s *JobService) List(ctx context.Context, page int) ([]*models.Job, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * jobsPerPage

	repo := s.repomanager.Jobs(s.db)

	jobs, err := repo.List(ctx, jobsPerPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing jobs: %w", err)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting jobs: %w", err)
	}

	totalPages := int((total + jobsPerPage - 1) / jobsPerPage)
	return jobs, totalPages, nil
}

// Get returns one job by ID, including inline file content when present.
func (s *JobService) Get(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.repomanager.Jobs(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return job, nil
}

// Delete removes the job row; an S3-backed document is removed best-effort
// afterwards (an orphan object is preferable to a dangling row).
func (s *JobService) Delete(ctx context.Context, id string) error {
	job, err := s.repomanager.Jobs(s.db).GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repomanager.Jobs(s.db).Delete(ctx, id); err != nil {
		return err
	}

	if s.s3Enabled() && job.StorageKey != "" {
		client, err := s.getS3Client(ctx)
		if err == nil {
			_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.config.S3Bucket),
				Key:    aws.String(job.StorageKey),
			})
		}
		if err != nil {
			s.logger.Warn(ctx, "document object not deleted", "job_id", id, "error", err)
		}
	}

	return nil
}

// PresignDownload returns a short-lived URL for an S3-backed document.
func (s *JobService) PresignDownload(ctx context.Context, job *models.Job) (string, error) {
	if job.StorageKey == "" {
		return "", common.ErrorNotFound
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return "", err
	}

	presignClient := s3.NewPresignClient(client)
	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(job.StorageKey),
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
