// Package rating computes read-side aggregate ratings from the stored
// reviews. Nothing here is persisted; every call reflects the review set at
// read time.
package rating

import (
	"context"
	"math"
)

// Summary is the aggregate of one book's reviews.
type Summary struct {
	Average float64 `json:"averageRating"`
	Count   int     `json:"reviewCount"`
}

// Summarize returns the mean rounded to one decimal place, 0 when empty.
func Summarize(ratings []int) Summary {
	if len(ratings) == 0 {
		return Summary{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return Summary{
		Average: math.Round(mean*10) / 10,
		Count:   len(ratings),
	}
}

// Repository reads the raw ratings of a set of books.
type Repository interface {
	// RatingsByBooks returns every rating keyed by book id. Books without
	// reviews are absent from the map.
	RatingsByBooks(ctx context.Context, bookIDs []string) (map[string][]int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ForBook aggregates the ratings of a single book.
func (s *Service) ForBook(ctx context.Context, bookID string) (Summary, error) {
	byBook, err := s.repo.RatingsByBooks(ctx, []string{bookID})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(byBook[bookID]), nil
}

// ForBooks aggregates a page of books with one repository read. Every
// requested id has an entry in the result.
func (s *Service) ForBooks(ctx context.Context, bookIDs []string) (map[string]Summary, error) {
	out := make(map[string]Summary, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}
	byBook, err := s.repo.RatingsByBooks(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range bookIDs {
		out[id] = Summarize(byBook[id])
	}
	return out, nil
}
