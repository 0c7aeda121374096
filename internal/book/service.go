package book

import (
	"context"
	"errors"

	"bookreview/internal/apperr"
	"bookreview/internal/pagination"
	"bookreview/internal/platform/validate"
	"bookreview/internal/rating"
	"bookreview/internal/review"

	"github.com/google/uuid"
)

// RatingSource computes aggregate ratings at read time.
type RatingSource interface {
	ForBook(ctx context.Context, bookID string) (rating.Summary, error)
	ForBooks(ctx context.Context, bookIDs []string) (map[string]rating.Summary, error)
}

// ReviewLister pages through a book's reviews, newest first.
type ReviewLister interface {
	ListByBook(ctx context.Context, bookID string, p pagination.Params) ([]review.Review, error)
}

// Page is one window of a book listing.
type Page struct {
	Books  []WithRating
	Total  int
	Params pagination.Params
}

// Meta returns the pagination metadata of the page.
func (p Page) Meta() pagination.Meta {
	return pagination.NewMeta(p.Params, p.Total)
}

// ReviewPagination is the page metadata of a book's nested reviews.
type ReviewPagination struct {
	pagination.Meta
	TotalReviews int `json:"totalReviews"`
}

type ReviewPage struct {
	Data       []review.Review  `json:"data"`
	Pagination ReviewPagination `json:"pagination"`
}

// Detail is a single book with its aggregate rating and a page of reviews.
type Detail struct {
	Book    WithRating `json:"book"`
	Reviews ReviewPage `json:"reviews"`
}

// Service provides book-related business logic.
type Service struct {
	repo    Repository
	ratings RatingSource
	reviews ReviewLister
}

// NewService creates a new book service.
func NewService(repo Repository, ratings RatingSource, reviews ReviewLister) *Service {
	return &Service{repo: repo, ratings: ratings, reviews: reviews}
}

// Create validates in and stores it as a book owned by ownerID. ISBN
// uniqueness is left to the store so concurrent creators cannot both win.
func (s *Service) Create(ctx context.Context, in CreateInput, ownerID string) (Book, error) {
	in.normalize()
	if err := validate.Check(in); err != nil {
		return Book{}, err
	}

	b := Book{
		Title:         in.Title,
		Author:        in.Author,
		Genre:         in.Genre,
		Description:   in.Description,
		PublishedYear: in.PublishedYear,
		ISBN:          in.ISBN,
		CoverImage:    in.CoverImage,
		CreatedBy:     Creator{ID: ownerID},
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		if errors.Is(err, ErrDuplicateISBN) {
			return Book{}, apperr.Conflict("isbn", "A book with this ISBN already exists")
		}
		return Book{}, apperr.Internal("Server error while creating book", err)
	}
	return b, nil
}

// List returns the filtered, sorted page of books with their ratings. An
// unknown sort field falls back to DefaultSort.
func (s *Service) List(ctx context.Context, q Query, p pagination.Params) (Page, error) {
	if _, ok := sortColumns[q.Sort]; !ok {
		q.Sort = DefaultSort
	}
	q.Limit = p.Limit
	q.Offset = p.Offset()

	books, total, err := s.repo.List(ctx, q)
	if err != nil {
		return Page{}, apperr.Internal("Server error while fetching books", err)
	}

	annotated, err := s.annotate(ctx, books)
	if err != nil {
		return Page{}, apperr.Internal("Server error while fetching books", err)
	}
	return Page{Books: annotated, Total: total, Params: p}, nil
}

// GetByID returns the book with its rating and the requested review page.
// The rating summary also supplies the review total.
func (s *Service) GetByID(ctx context.Context, id string, p pagination.Params) (Detail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Detail{}, apperr.Validation("Invalid book ID format",
			apperr.FieldError{Field: "id", Message: "Invalid book ID format"})
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Detail{}, apperr.NotFound("Book not found")
		}
		return Detail{}, apperr.Internal("Server error while fetching book details", err)
	}

	summary, err := s.ratings.ForBook(ctx, id)
	if err != nil {
		return Detail{}, apperr.Internal("Server error while fetching book details", err)
	}

	reviews, err := s.reviews.ListByBook(ctx, id, p)
	if err != nil {
		return Detail{}, apperr.Internal("Server error while fetching book details", err)
	}
	if reviews == nil {
		reviews = []review.Review{}
	}

	return Detail{
		Book: WithRating{Book: b, AverageRating: summary.Average, ReviewCount: summary.Count},
		Reviews: ReviewPage{
			Data: reviews,
			Pagination: ReviewPagination{
				Meta:         pagination.NewMeta(p, summary.Count),
				TotalReviews: summary.Count,
			},
		},
	}, nil
}

func (s *Service) annotate(ctx context.Context, books []Book) ([]WithRating, error) {
	out := make([]WithRating, 0, len(books))
	if len(books) == 0 {
		return out, nil
	}

	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	summaries, err := s.ratings.ForBooks(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, b := range books {
		sum := summaries[b.ID]
		out = append(out, WithRating{Book: b, AverageRating: sum.Average, ReviewCount: sum.Count})
	}
	return out, nil
}
