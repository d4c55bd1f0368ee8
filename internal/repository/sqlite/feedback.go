package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/commentator/internal/apperror"
	"github.com/sakif/commentator/internal/model"
	"github.com/sakif/commentator/internal/repository"
)

// Compile-time check that *FeedbackStore implements repository.FeedbackRepository.
var _ repository.FeedbackRepository = (*FeedbackStore)(nil)

// Create inserts a new feedback row and fills in the database-assigned ID.
//
// The id column is INTEGER PRIMARY KEY AUTOINCREMENT, so SQLite assigns the
// next monotonic value; LastInsertId reads it back. A nonexistent owner
// trips the foreign-key constraint, which we surface as NotFound on the
// account — the owner must be a live account.
func (s *FeedbackStore) Create(ctx context.Context, fb *model.Feedback) error {
	now := time.Now()
	fb.CreatedAt = now
	fb.UpdatedAt = now

	result, err := s.conn.ExecContext(ctx,
		`INSERT INTO feedback (title, content, owner_username, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		fb.Title,
		fb.Content,
		fb.OwnerUsername,
		fb.CreatedAt,
		fb.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("account", fb.OwnerUsername)
		}
		return fmt.Errorf("sqlite: creating feedback: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading feedback id: %w", err)
	}
	fb.ID = id

	return nil
}

// GetByID retrieves a single feedback post by its ID.
// Returns apperror.ErrNotFound if the post doesn't exist.
func (s *FeedbackStore) GetByID(ctx context.Context, id int64) (*model.Feedback, error) {
	var fb model.Feedback

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, title, content, owner_username, created_at, updated_at
		 FROM feedback WHERE id = ?`,
		id,
	).Scan(
		&fb.ID,
		&fb.Title,
		&fb.Content,
		&fb.OwnerUsername,
		&fb.CreatedAt,
		&fb.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundOrWrap(err, "feedback", id, fmt.Sprintf("getting feedback %d", id))
	}

	return &fb, nil
}

// ListByOwner returns every feedback post owned by the given username,
// newest first. An unknown owner simply yields an empty slice.
func (s *FeedbackStore) ListByOwner(ctx context.Context, owner string) ([]model.Feedback, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, title, content, owner_username, created_at, updated_at
		 FROM feedback
		 WHERE owner_username = ?
		 ORDER BY created_at DESC, id DESC`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing feedback for %s: %w", owner, err)
	}
	// rows holds a pool connection until closed — never skip this.
	defer rows.Close()

	feedback := []model.Feedback{}
	for rows.Next() {
		var fb model.Feedback
		if err := rows.Scan(
			&fb.ID, &fb.Title, &fb.Content, &fb.OwnerUsername,
			&fb.CreatedAt, &fb.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning feedback row: %w", err)
		}
		feedback = append(feedback, fb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating feedback: %w", err)
	}

	return feedback, nil
}

// Update persists title/content changes to an existing feedback post.
//
// RowsAffected detects "not found" without a separate SELECT: if the WHERE
// clause matched nothing, the post is gone. id, owner_username, and
// created_at are immutable.
func (s *FeedbackStore) Update(ctx context.Context, fb *model.Feedback) error {
	fb.UpdatedAt = time.Now()

	result, err := s.conn.ExecContext(ctx,
		`UPDATE feedback
		 SET title = ?, content = ?, updated_at = ?
		 WHERE id = ?`,
		fb.Title,
		fb.Content,
		fb.UpdatedAt,
		fb.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating feedback %d: %w", fb.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("feedback", fb.ID)
	}

	return nil
}

// Delete removes a feedback post by its ID.
// Same pattern as Update — RowsAffected detects "not found".
func (s *FeedbackStore) Delete(ctx context.Context, id int64) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM feedback WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting feedback %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("feedback", id)
	}

	return nil
}
