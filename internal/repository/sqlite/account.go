package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/commentator/internal/apperror"
	"github.com/sakif/commentator/internal/model"
	"github.com/sakif/commentator/internal/repository"
)

// Compile-time check that *AccountStore implements repository.AccountRepository.
var _ repository.AccountRepository = (*AccountStore)(nil)

// Create inserts a new account.
//
// WHY NO EXISTENCE PRE-CHECK?
// A SELECT-then-INSERT has a race: two concurrent registrations for the same
// username can both see "free" and both insert. Instead we just INSERT and
// let the UNIQUE constraints decide — SQLite applies them atomically, so at
// most one of the racers succeeds and the loser's write never lands (a
// failed INSERT leaves no partial row). The constraint error is mapped to a
// field-level Conflict the handler can show on the form.
func (s *AccountStore) Create(ctx context.Context, account *model.Account) error {
	account.CreatedAt = time.Now()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO accounts (username, password_hash, email, first_name, last_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		account.Username,
		account.PasswordHash,
		account.Email,
		account.FirstName,
		account.LastName,
		account.CreatedAt,
	)
	if err != nil {
		if field, ok := constraintField(err); ok {
			switch field {
			case "username":
				return apperror.Conflict("username", "Username already taken. Please choose another.")
			case "email":
				return apperror.Conflict("email", "Email already registered. Please use another.")
			}
		}
		return fmt.Errorf("sqlite: creating account %s: %w", account.Username, err)
	}

	return nil
}

// GetByUsername retrieves an account by its username.
// Returns apperror.ErrNotFound if no account exists with that username.
func (s *AccountStore) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	var a model.Account

	err := s.conn.QueryRowContext(ctx,
		`SELECT username, password_hash, email, first_name, last_name, created_at
		 FROM accounts WHERE username = ?`,
		username,
	).Scan(
		&a.Username,
		&a.PasswordHash,
		&a.Email,
		&a.FirstName,
		&a.LastName,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, notFoundOrWrap(err, "account", username, "getting account "+username)
	}

	return &a, nil
}

// Delete removes an account and every feedback row it owns, atomically.
//
// The two DELETEs run inside one transaction: either the account and all its
// feedback disappear together, or (on any failure) nothing changes. This is
// the application-level cascade — we do not rely on declarative ON DELETE
// CASCADE, so the atomic unit is explicit and visible right here.
//
// Feedback goes first: with foreign_keys=ON, deleting the account while its
// feedback still references it would be rejected.
func (s *AccountStore) Delete(ctx context.Context, username string) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning delete transaction: %w", err)
	}
	// Rollback after a successful Commit is a no-op, so this only fires on
	// the error paths.
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM feedback WHERE owner_username = ?`, username,
	); err != nil {
		return fmt.Errorf("sqlite: deleting feedback for %s: %w", username, err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM accounts WHERE username = ?`, username,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting account %s: %w", username, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Rolling back also undoes the feedback delete above — an unknown
		// account must be a pure no-op.
		return apperror.NotFound("account", username)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing delete of %s: %w", username, err)
	}

	return nil
}
