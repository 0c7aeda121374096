// Package search answers free-text queries over book titles and authors.
package search

import (
	"context"
	"strings"

	"bookreview/internal/apperr"
	"bookreview/internal/book"
	"bookreview/internal/pagination"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var queries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bookreview_search_queries_total",
	Help: "Search queries answered, by whether anything matched.",
}, []string{"result"})

// BookLister is the slice of the catalog a search needs.
type BookLister interface {
	List(ctx context.Context, q book.Query, p pagination.Params) (book.Page, error)
}

type Service struct {
	books BookLister
}

func NewService(books BookLister) *Service {
	return &Service{books: books}
}

// Result is a page of matches. Query is the text as the caller sent it.
type Result struct {
	Query string
	book.Page
}

// Search matches text against title or author, case-insensitively, newest
// books first.
func (s *Service) Search(ctx context.Context, text string, p pagination.Params) (Result, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{}, apperr.Validation("Search query is required",
			apperr.FieldError{Field: "query", Message: "Search query is required"})
	}

	page, err := s.books.List(ctx, book.Query{Text: trimmed, Sort: book.DefaultSort, Desc: true}, p)
	if err != nil {
		return Result{}, err
	}

	if page.Total == 0 {
		queries.WithLabelValues("empty").Inc()
	} else {
		queries.WithLabelValues("hit").Inc()
	}
	return Result{Query: text, Page: page}, nil
}
