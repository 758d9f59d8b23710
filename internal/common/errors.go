// Package common defines shared constants and sentinel errors used across
// PaperJobs server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("duplicate key")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Security-layer errors. The HTTP boundary translates these into a small
	// fixed set of generic client messages; diagnostic detail stays in logs.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCSRFToken   = errors.New("invalid CSRF token")
	ErrEntropyUnavailable = errors.New("secure random source unavailable")

	// Auth errors (invalid or malformed session token).
	ErrInvalidToken = errors.New("invalid token")

	// Upload validation errors.
	ErrFileMissing  = errors.New("file is required")
	ErrFileType     = errors.New("only PDF files are allowed")
	ErrFileTooLarge = errors.New("file exceeds the size limit")
)
