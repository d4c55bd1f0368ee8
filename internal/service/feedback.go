package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/commentator/internal/apperror"
	"github.com/sakif/commentator/internal/authz"
	"github.com/sakif/commentator/internal/model"
	"github.com/sakif/commentator/internal/repository"
)

// FeedbackService handles creation, mutation, and deletion of feedback
// posts. Every mutating path consults the authorization guard BEFORE any
// write, so a denial is always side-effect-free.
type FeedbackService struct {
	feedback repository.FeedbackRepository
	logger   *slog.Logger
}

// NewFeedbackService creates a FeedbackService.
func NewFeedbackService(feedback repository.FeedbackRepository, logger *slog.Logger) *FeedbackService {
	return &FeedbackService{
		feedback: feedback,
		logger:   logger,
	}
}

// Create posts new feedback on the owner's profile.
//
// Only the owner may post on their own profile (guard: identity == owner).
// The store assigns the ID — monotonic, never reused.
func (s *FeedbackService) Create(ctx context.Context, identity, owner, title, content string) (*model.Feedback, error) {
	if err := authz.CanCreateFeedback(identity, owner); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if errs := ValidateFeedback(title, content); len(errs) > 0 {
		return nil, apperror.ValidationFailed(errs[0].Field, errs[0].Message)
	}

	fb := &model.Feedback{
		Title:         title,
		Content:       content,
		OwnerUsername: owner,
	}

	if err := s.feedback.Create(ctx, fb); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Owner row vanished between the guard and the insert (e.g. a
			// concurrent self-delete) — the FK caught it.
			return nil, err
		}
		s.logger.Error("failed to create feedback",
			slog.String("owner", owner),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/feedback: creating feedback: %w", err)
	}

	s.logger.Info("feedback created",
		slog.Int64("id", fb.ID),
		slog.String("owner", fb.OwnerUsername),
	)

	return fb, nil
}

// Get returns a feedback post and whether the identity may edit it.
//
// Reading content is open to everyone, logged in or not — only the editable
// flag depends on the identity. NotFound if the id doesn't resolve.
func (s *FeedbackService) Get(ctx context.Context, identity string, id int64) (*model.Feedback, bool, error) {
	fb, err := s.feedback.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	editable := authz.CanEditFeedback(identity, fb.OwnerUsername, fb.ID) == nil
	return fb, editable, nil
}

// Update applies title/content changes to a feedback post.
//
// Outcomes:
//   - unknown id             → NotFound
//   - identity is not owner  → the UNMODIFIED post, editable=false, nil
//     error: the mutation is suppressed but the content is still shown
//     read-only, matching the detail view for non-owners
//   - identity is the owner  → validated, persisted, editable=true
func (s *FeedbackService) Update(ctx context.Context, identity string, id int64, title, content string) (*model.Feedback, bool, error) {
	fb, err := s.feedback.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if authz.CanEditFeedback(identity, fb.OwnerUsername, fb.ID) != nil {
		// Denied: no write happened, return the post for read-only display.
		return fb, false, nil
	}

	title = strings.TrimSpace(title)
	if errs := ValidateFeedback(title, content); len(errs) > 0 {
		return nil, false, apperror.ValidationFailed(errs[0].Field, errs[0].Message)
	}

	fb.Title = title
	fb.Content = content

	if err := s.feedback.Update(ctx, fb); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, false, err
		}
		s.logger.Error("failed to update feedback",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, false, fmt.Errorf("service/feedback: updating feedback %d: %w", id, err)
	}

	s.logger.Info("feedback updated", slog.Int64("id", fb.ID))
	return fb, true, nil
}

// Delete removes a feedback post.
//
// Outcomes: NotFound for an unknown id, Forbidden (and no mutation) for a
// non-owner, nil for the owner.
func (s *FeedbackService) Delete(ctx context.Context, identity string, id int64) error {
	fb, err := s.feedback.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := authz.CanDeleteFeedback(identity, fb.OwnerUsername, fb.ID); err != nil {
		return err
	}

	if err := s.feedback.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete feedback",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("service/feedback: deleting feedback %d: %w", id, err)
	}

	s.logger.Info("feedback deleted", slog.Int64("id", id))
	return nil
}
