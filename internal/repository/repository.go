// Package repository declares the storage interfaces the service layer
// depends on. The concrete implementation lives in repository/sqlite; tests
// substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/commentator/internal/model"
)

// AccountRepository persists user accounts, keyed by username.
type AccountRepository interface {
	// Create inserts a new account. The store's UNIQUE constraints on
	// username and email are the authority on duplicates: a conflicting
	// insert returns apperror.ErrConflict (with the offending field) and
	// leaves no partial row behind. Callers must NOT pre-check existence —
	// check-then-insert is racy; insert-then-map-conflict is not.
	Create(ctx context.Context, account *model.Account) error

	// GetByUsername returns the account or apperror.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*model.Account, error)

	// Delete removes the account AND all feedback it owns in a single
	// transaction — both or neither. Returns apperror.ErrNotFound if no
	// such account exists.
	Delete(ctx context.Context, username string) error
}

// FeedbackRepository persists feedback posts, keyed by integer id.
type FeedbackRepository interface {
	// Create inserts a new feedback row and fills in the assigned ID and
	// timestamps. The owner must reference an existing account.
	Create(ctx context.Context, fb *model.Feedback) error

	// GetByID returns the feedback or apperror.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.Feedback, error)

	// ListByOwner returns all feedback owned by the given username, newest
	// first. An unknown owner yields an empty slice, not an error.
	ListByOwner(ctx context.Context, owner string) ([]model.Feedback, error)

	// Update persists title/content changes. Returns apperror.ErrNotFound
	// if the row is gone.
	Update(ctx context.Context, fb *model.Feedback) error

	// Delete removes a feedback row. Returns apperror.ErrNotFound if the
	// row is gone.
	Delete(ctx context.Context, id int64) error
}
