// Package models contains the persistent record types owned by the server.
package models

import "time"

// User is a credential record. PasswordHash is a bcrypt hash and must never
// be logged or rendered.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
