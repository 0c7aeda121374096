package review

import (
	"context"
	"errors"
	"strings"

	"bookreview/internal/apperr"
	"bookreview/internal/pagination"
	"bookreview/internal/platform/validate"

	"github.com/google/uuid"
)

const duplicateMessage = "You have already reviewed this book. Use PUT to update your review."

// Service owns the review lifecycle: one review per user per book, and
// mutation by the author only.
type Service struct {
	repo Repository
}

// NewService creates a new review service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func invalidID(kind string) error {
	msg := "Invalid " + kind + " ID format"
	return apperr.Validation(msg, apperr.FieldError{Field: "id", Message: msg})
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Add creates userID's review of bookID. The pre-check only shortens the
// common path; the store's unique constraint decides concurrent writers.
func (s *Service) Add(ctx context.Context, bookID, userID string, in AddInput) (Review, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validate.Check(in); err != nil {
		return Review{}, err
	}
	if !validID(bookID) {
		return Review{}, invalidID("book")
	}

	exists, err := s.repo.BookExists(ctx, bookID)
	if err != nil {
		return Review{}, apperr.Internal("Server error while adding review", err)
	}
	if !exists {
		return Review{}, apperr.NotFound("Book not found")
	}

	dup, err := s.repo.ExistsForUserAndBook(ctx, userID, bookID)
	if err != nil {
		return Review{}, apperr.Internal("Server error while adding review", err)
	}
	if dup {
		duplicateReviews.WithLabelValues("precheck").Inc()
		return Review{}, apperr.Conflict("duplicate_review", duplicateMessage)
	}

	r := Review{
		Rating:  int(*in.Rating),
		Comment: in.Comment,
		User:    Reviewer{ID: userID},
		Book:    BookRef{ID: bookID},
	}
	if err := s.repo.Create(ctx, &r); err != nil {
		if errors.Is(err, ErrDuplicate) {
			duplicateReviews.WithLabelValues("constraint").Inc()
			return Review{}, apperr.Conflict("duplicate_review", duplicateMessage)
		}
		return Review{}, apperr.Internal("Server error while adding review", err)
	}
	reviewsWritten.WithLabelValues("create").Inc()

	return s.reload(ctx, r.ID, "Server error while adding review")
}

// Update applies patch to the review if userID wrote it.
func (s *Service) Update(ctx context.Context, reviewID, userID string, patch Patch) (Review, error) {
	if patch.Empty() {
		return Review{}, apperr.Validation("Please provide rating or comment to update",
			apperr.FieldError{Field: "empty_patch", Message: "Please provide rating or comment to update"})
	}
	if _, err := s.owned(ctx, reviewID, userID, "You can only update your own reviews", "Server error while updating review"); err != nil {
		return Review{}, err
	}

	if patch.Comment != nil {
		trimmed := strings.TrimSpace(*patch.Comment)
		patch.Comment = &trimmed
	}
	if err := validate.Check(patch); err != nil {
		return Review{}, err
	}

	var change Change
	if patch.Rating != nil {
		rating := int(*patch.Rating)
		change.Rating = &rating
	}
	change.Comment = patch.Comment

	if err := s.repo.Update(ctx, reviewID, userID, change); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Review{}, apperr.NotFound("Review not found")
		}
		return Review{}, apperr.Internal("Server error while updating review", err)
	}
	reviewsWritten.WithLabelValues("update").Inc()

	return s.reload(ctx, reviewID, "Server error while updating review")
}

// Delete removes the review if userID wrote it.
func (s *Service) Delete(ctx context.Context, reviewID, userID string) error {
	if _, err := s.owned(ctx, reviewID, userID, "You can only delete your own reviews", "Server error while deleting review"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, reviewID, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("Review not found")
		}
		return apperr.Internal("Server error while deleting review", err)
	}
	reviewsWritten.WithLabelValues("delete").Inc()
	return nil
}

// ListByBook returns one page of a book's reviews, newest first.
func (s *Service) ListByBook(ctx context.Context, bookID string, p pagination.Params) ([]Review, error) {
	return s.repo.ListByBook(ctx, bookID, p.Limit, p.Offset())
}

// owned loads a review and checks userID is its author.
func (s *Service) owned(ctx context.Context, reviewID, userID, forbidden, internal string) (Review, error) {
	if !validID(reviewID) {
		return Review{}, invalidID("review")
	}
	r, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Review{}, apperr.NotFound("Review not found")
		}
		return Review{}, apperr.Internal(internal, err)
	}
	if r.User.ID != userID {
		return Review{}, apperr.Forbidden(forbidden)
	}
	return r, nil
}

func (s *Service) reload(ctx context.Context, id, internal string) (Review, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Review{}, apperr.Internal(internal, err)
	}
	return r, nil
}
