package models

import "time"

// Job lifecycle statuses.
const (
	JobStatusPending    = "PENDING"
	JobStatusProcessing = "PROCESSING"
	JobStatusCompleted  = "COMPLETED"
	JobStatusFailed     = "FAILED"
)

// Job is one PDF extraction job. The uploaded document lives either inline
// in FileContent or in object storage under StorageKey, never both.
type Job struct {
	ID          string
	Title       string
	Description string
	FileName    string
	FileContent []byte
	FileSize    int64
	MimeType    string
	StorageKey  string
	Status      string
	Result      string
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
