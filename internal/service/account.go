// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, hashes, consults the guard
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and context, never *http.Request, and return
// domain errors from internal/apperror, never HTTP status codes. The acting
// identity arrives as an explicit parameter on every call that needs one —
// there is no ambient "current user" global anywhere in the program.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/commentator/internal/apperror"
	"github.com/sakif/commentator/internal/auth"
	"github.com/sakif/commentator/internal/authz"
	"github.com/sakif/commentator/internal/model"
	"github.com/sakif/commentator/internal/repository"
)

// AccountService handles registration, authentication, and account
// lifecycle.
type AccountService struct {
	accounts  repository.AccountRepository
	feedback  repository.FeedbackRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAccountService creates an AccountService with all dependencies
// injected. The repositories are interfaces, so tests pass in-memory fakes.
func NewAccountService(
	accounts repository.AccountRepository,
	feedback repository.FeedbackRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		feedback:  feedback,
		passwords: passwords,
		logger:    logger,
	}
}

// RegisterInput is a registration request. Plain struct, no form framework.
type RegisterInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Register validates the input, hashes the password, and creates the
// account.
//
// Uniqueness is decided by the store, not by a pre-check: we INSERT and map
// a constraint violation to a field-level Conflict. That keeps registration
// atomic under concurrent attempts with the same username — at most one
// wins, and the loser leaves zero rows behind.
//
// The plaintext password is hashed immediately and never stored or logged.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*model.Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if errs := ValidateRegistration(in); len(errs) > 0 {
		return nil, apperror.ValidationFailed(errs[0].Field, errs[0].Message)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing password: %w", err)
	}

	account := &model.Account{
		Username:     in.Username,
		PasswordHash: hash,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// Expected outcome, not a fault — the username (or email) is
			// taken. Surface it as-is for the form.
			return nil, err
		}
		s.logger.Error("failed to create account",
			slog.String("username", in.Username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/account: creating account: %w", err)
	}

	s.logger.Info("account registered", slog.String("username", account.Username))
	return account, nil
}

// authOutcome tags WHY an authentication attempt failed. The tag exists for
// internal logs only: callers always receive the same generic
// InvalidCredentials, whichever branch fired, so login responses cannot be
// used to enumerate which usernames exist.
type authOutcome int

const (
	authOK authOutcome = iota
	authUnknownUsername
	authWrongPassword
)

// Authenticate checks a username/password pair and returns the account on
// success.
//
// Both failure modes — unknown username, wrong password — collapse to the
// identical apperror.InvalidCredentials. Only the debug log distinguishes
// them.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*model.Account, error) {
	account, outcome, err := s.verifyCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if outcome != authOK {
		s.logger.Debug("authentication failed",
			slog.String("username", username),
			slog.Bool("unknownUsername", outcome == authUnknownUsername),
		)
		return nil, apperror.InvalidCredentials()
	}

	s.logger.Info("user authenticated", slog.String("username", username))
	return account, nil
}

// verifyCredentials is the tagged internal form of Authenticate. A non-nil
// error here is only ever an unexpected store failure.
func (s *AccountService) verifyCredentials(ctx context.Context, username, password string) (*model.Account, authOutcome, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, authUnknownUsername, nil
		}
		return nil, authOK, fmt.Errorf("service/account: looking up %s: %w", username, err)
	}

	if !s.passwords.Verify(account.PasswordHash, password) {
		return nil, authWrongPassword, nil
	}

	return account, authOK, nil
}

// Get returns the account detail view: the account plus all feedback it
// owns.
//
// The guard requires ANY authenticated identity — not necessarily the
// target's owner. Anonymous callers are denied. Get never mutates anything:
// not the store, not the session.
func (s *AccountService) Get(ctx context.Context, identity, target string) (*model.Account, []model.Feedback, error) {
	if err := authz.CanViewAccount(identity, target); err != nil {
		return nil, nil, err
	}

	account, err := s.accounts.GetByUsername(ctx, target)
	if err != nil {
		return nil, nil, err
	}

	feedback, err := s.feedback.ListByOwner(ctx, target)
	if err != nil {
		return nil, nil, fmt.Errorf("service/account: listing feedback for %s: %w", target, err)
	}

	return account, feedback, nil
}

// Delete removes an account and, in the same atomic unit, every feedback
// post it owns.
//
// The guard permits only self-deletion; on denial nothing is touched. The
// cascade atomicity lives in the repository (one transaction), so no
// observer can see feedback whose owner no longer exists.
func (s *AccountService) Delete(ctx context.Context, identity, target string) error {
	if err := authz.CanDeleteAccount(identity, target); err != nil {
		return err
	}

	if err := s.accounts.Delete(ctx, target); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete account",
			slog.String("username", target),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("service/account: deleting account %s: %w", target, err)
	}

	s.logger.Info("account deleted", slog.String("username", target))
	return nil
}
