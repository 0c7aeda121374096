package review

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a review is not found.
	ErrNotFound = errors.New("review not found")
	// ErrDuplicate is returned when the user already reviewed the book.
	ErrDuplicate = errors.New("duplicate review")
)

// Reviewer is the author summary attached to a review.
type Reviewer struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// BookRef is the book summary attached to a review. Title and Author are
// only filled when the review is read on its own.
type BookRef struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}

// Review is one user's rating and comment on one book.
type Review struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	User      Reviewer  `json:"user"`
	Book      BookRef   `json:"book"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AddInput is the body of a new review. Rating is decoded as a float so a
// fractional value is reported as a validation failure rather than a
// decoding one.
type AddInput struct {
	Rating  *float64 `json:"rating" validate:"required,gte=1,lte=5,wholenumber"`
	Comment string   `json:"comment" validate:"required,min=10,max=1000"`
}

// Patch carries the fields an update may change. Nil means unchanged.
type Patch struct {
	Rating  *float64 `json:"rating" validate:"omitempty,gte=1,lte=5,wholenumber"`
	Comment *string  `json:"comment" validate:"omitempty,min=10,max=1000"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Rating == nil && p.Comment == nil
}

// Change is a validated patch in storage form.
type Change struct {
	Rating  *int
	Comment *string
}

// Repository defines the contract for review storage. The (user, book)
// uniqueness is enforced by the store; Create reports it as ErrDuplicate.
type Repository interface {
	BookExists(ctx context.Context, bookID string) (bool, error)
	ExistsForUserAndBook(ctx context.Context, userID, bookID string) (bool, error)
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id string) (Review, error)
	Update(ctx context.Context, id, userID string, c Change) error
	Delete(ctx context.Context, id, userID string) error
	ListByBook(ctx context.Context, bookID string, limit, offset int) ([]Review, error)
}
