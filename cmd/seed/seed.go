package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"bookreview/internal/apperr"
	"bookreview/internal/book"
	"bookreview/internal/review"
	"bookreview/internal/user"

	"golang.org/x/sync/errgroup"
)

type accounts interface {
	Register(ctx context.Context, username, email, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type catalog interface {
	Create(ctx context.Context, in book.CreateInput, ownerID string) (book.Book, error)
}

type ledger interface {
	Add(ctx context.Context, bookID, userID string, in review.AddInput) (review.Review, error)
}

var titles = []struct{ title, author, genre string }{
	{"Dune", "Frank Herbert", "Science Fiction"},
	{"The Hobbit", "J.R.R. Tolkien", "Fantasy"},
	{"Pride and Prejudice", "Jane Austen", "Classic Literature"},
	{"The Murder of Roger Ackroyd", "Agatha Christie", "Mystery"},
	{"Sapiens", "Yuval Noah Harari", "Non-fiction"},
	{"Steve Jobs", "Walter Isaacson", "Biography"},
	{"The Guns of August", "Barbara W. Tuchman", "History"},
	{"Gone Girl", "Gillian Flynn", "Thriller"},
	{"Atomic Habits", "James Clear", "Self-help"},
	{"Beloved", "Toni Morrison", "Fiction"},
	{"Outlander", "Diana Gabaldon", "Romance"},
	{"Neuromancer", "William Gibson", "Science Fiction"},
}

var comments = []string{
	"Could not put it down once the second act started.",
	"Solid, though the middle drags for a few chapters.",
	"A book I will happily reread every couple of years.",
	"Not for me, the characters never felt real.",
	"Beautifully written and surprisingly funny in places.",
}

// Stats counts what a run created.
type Stats struct {
	Users   int
	Books   int
	Reviews int64
	Skipped int64
}

type seeder struct {
	accounts     accounts
	catalog      catalog
	ledger       ledger
	passwordHash string
	rnd          *rand.Rand
	workers      int
}

type plannedReview struct {
	bookID string
	userID string
	input  review.AddInput
}

// Run creates nUsers accounts (reusing existing ones) and nBooks books,
// then has each user review each book with probability one half.
func (s *seeder) Run(ctx context.Context, nUsers, nBooks int) (Stats, error) {
	var stats Stats

	userIDs := make([]string, 0, nUsers)
	for i := 1; i <= nUsers; i++ {
		u, err := s.account(ctx, fmt.Sprintf("reader%d", i), fmt.Sprintf("reader%d@seed.local", i))
		if err != nil {
			return stats, err
		}
		userIDs = append(userIDs, u.ID)
		stats.Users++
	}
	if len(userIDs) == 0 {
		return stats, nil
	}

	bookIDs := make([]string, 0, nBooks)
	for i := 0; i < nBooks; i++ {
		t := titles[i%len(titles)]
		year := 1900 + s.rnd.IntN(120)
		in := book.CreateInput{
			Title:         t.title,
			Author:        t.author,
			Genre:         t.genre,
			Description:   fmt.Sprintf("%s by %s.", t.title, t.author),
			PublishedYear: &year,
		}
		if i >= len(titles) {
			in.Title = fmt.Sprintf("%s (Volume %d)", t.title, i/len(titles)+1)
		}
		b, err := s.catalog.Create(ctx, in, userIDs[i%len(userIDs)])
		if err != nil {
			return stats, fmt.Errorf("create book %q: %w", in.Title, err)
		}
		bookIDs = append(bookIDs, b.ID)
		stats.Books++
	}

	var plan []plannedReview
	for _, bookID := range bookIDs {
		for _, userID := range userIDs {
			if s.rnd.IntN(2) == 0 {
				continue
			}
			rating := float64(1 + s.rnd.IntN(5))
			plan = append(plan, plannedReview{
				bookID: bookID,
				userID: userID,
				input:  review.AddInput{Rating: &rating, Comment: comments[s.rnd.IntN(len(comments))]},
			})
		}
	}

	var created, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, p := range plan {
		g.Go(func() error {
			_, err := s.ledger.Add(gctx, p.bookID, p.userID, p.input)
			switch {
			case err == nil:
				created.Add(1)
			case apperr.CodeOf(err) == apperr.CodeConflict:
				skipped.Add(1)
			default:
				return fmt.Errorf("add review: %w", err)
			}
			return nil
		})
	}
	err := g.Wait()
	stats.Reviews = created.Load()
	stats.Skipped = skipped.Load()
	return stats, err
}

func (s *seeder) account(ctx context.Context, username, email string) (user.User, error) {
	u, err := s.accounts.Register(ctx, username, email, s.passwordHash)
	if err == nil {
		return u, nil
	}
	if apperr.CodeOf(err) != apperr.CodeConflict {
		return user.User{}, fmt.Errorf("register %s: %w", email, err)
	}
	slog.Debug("reusing seed account", slog.String("email", email))
	return s.accounts.GetByEmail(ctx, email)
}
