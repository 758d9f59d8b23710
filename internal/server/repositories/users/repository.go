package users

import (
	"context"

	"github.com/mkravets/paperjobs/internal/server/models"
)

// Repository is the credential store. Create must fail with
// common.ErrorDuplicate when the email is already taken; the unique
// constraint in the database arbitrates concurrent first-login races.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
