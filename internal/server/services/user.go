// Package services contains server-side business logic. This file implements
// UserService: credential verification with implicit first-use account
// provisioning ("first login registers you").
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkravets/paperjobs/internal/common"
	"github.com/mkravets/paperjobs/internal/logging"
	"github.com/mkravets/paperjobs/internal/server/models"
	"github.com/mkravets/paperjobs/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost the original records were hashed with.
const bcryptCost = 10

// LoginOutcome distinguishes a returning user from one the attempt just
// auto-provisioned.
type LoginOutcome int

const (
	// OutcomeLoggedIn means the credentials matched an existing record.
	OutcomeLoggedIn LoginOutcome = iota
	// OutcomeCreated means no record existed and one was created from the
	// submitted credentials.
	OutcomeCreated
)

// LoginResult carries the authenticated record's public fields plus the
// outcome tag.
type LoginResult struct {
	Outcome LoginOutcome
	UserID  string
	Email   string
	Name    string
}

// UserService authenticates credentials against stored records. An unknown
// email is not an error: the record is created on the spot. That policy is
// deliberate; callers that need to treat registration differently can branch
// on LoginResult.Outcome.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

// NewUserService constructs a UserService using repositories and a logger
// for the audit trail.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "user_service"),
	}
}

// LoginOrRegister runs one authentication attempt.
//
// Missing email or password fails with ErrInvalidCredentials. A known email
// is verified against the stored bcrypt hash; an unknown email is provisioned
// with the submitted password (name falls back to the email). Two concurrent
// first logins for the same email race on the unique constraint; the loser
// retries as a plain lookup so at most one record ever exists.
//
// Audit lines log the outcome and email only — never the password or hash.
func (s *UserService) LoginOrRegister(ctx context.Context, email, name, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		s.logger.Warn(ctx, "login rejected: missing credentials", "email", email)
		return nil, common.ErrInvalidCredentials
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "login failed: credential lookup", "email", email, "error", err)
			return nil, common.ErrorInternal
		}
		return s.provision(ctx, email, name, password)
	}

	return s.verify(ctx, user, password)
}

func (s *UserService) verify(ctx context.Context, user *models.User, password string) (*LoginResult, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn(ctx, "login rejected: password mismatch", "email", user.Email)
		return nil, common.ErrInvalidCredentials
	}

	s.logger.Info(ctx, "login succeeded", "email", user.Email)
	return &LoginResult{Outcome: OutcomeLoggedIn, UserID: user.ID, Email: user.Email, Name: user.Name}, nil
}

func (s *UserService) provision(ctx context.Context, email, name, password string) (*LoginResult, error) {
	if name == "" {
		name = email
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		s.logger.Error(ctx, "login failed: password hashing", "email", email, "error", err)
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{Email: email, Name: name, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			// Lost the first-login race: the record exists now, verify against it.
			existing, lookupErr := repo.GetByEmail(ctx, email)
			if lookupErr != nil {
				s.logger.Error(ctx, "login failed: lookup after duplicate", "email", email, "error", lookupErr)
				return nil, common.ErrInvalidCredentials
			}
			return s.verify(ctx, existing, password)
		}
		s.logger.Error(ctx, "login failed: account creation", "email", email, "error", err)
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "login succeeded: account provisioned", "email", email)
	return &LoginResult{Outcome: OutcomeCreated, UserID: user.ID, Email: user.Email, Name: user.Name}, nil
}
