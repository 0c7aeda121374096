package book

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookreview/internal/apperr"
	"bookreview/internal/pagination"
	"bookreview/internal/rating"
	"bookreview/internal/review"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	bookID  = "6f1c2a9e-0b7d-4e51-8f3a-2c4d5e6f7a8b"
	otherID = "0c9d8e7f-6a5b-4c3d-9e2f-1a0b9c8d7e6f"
	ownerID = "1b2c3d4e-5f6a-4b7c-8d9e-0f1a2b3c4d5e"
)

type fixture struct {
	svc     *Service
	books   *MockRepository
	ratings *rating.MockRepository
	reviews *review.MockRepository
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	f := fixture{
		books:   NewMockRepository(ctrl),
		ratings: rating.NewMockRepository(ctrl),
		reviews: review.NewMockRepository(ctrl),
	}
	f.svc = NewService(f.books, rating.NewService(f.ratings), review.NewService(f.reviews))
	return f
}

func ptr[T any](v T) *T { return &v }

func validInput() CreateInput {
	return CreateInput{
		Title:       "  Dune ",
		Author:      "Frank Herbert",
		Genre:       "Science Fiction",
		Description: "Desert planet politics.",
	}
}

func TestService_Create(t *testing.T) {
	t.Run("sparse book", func(t *testing.T) {
		f := newFixture(t)
		f.books.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			assert.Equal(t, "Dune", b.Title)
			assert.Nil(t, b.ISBN)
			assert.Nil(t, b.PublishedYear)
			assert.Equal(t, ownerID, b.CreatedBy.ID)
			b.ID = bookID
			b.CreatedBy.Username = "owner"
			return nil
		})

		b, err := f.svc.Create(context.Background(), validInput(), ownerID)
		require.NoError(t, err)
		assert.Equal(t, bookID, b.ID)
		assert.Equal(t, "owner", b.CreatedBy.Username)
	})

	t.Run("isbn normalized", func(t *testing.T) {
		f := newFixture(t)
		in := validInput()
		in.ISBN = ptr("978-0-441-17271-9")
		f.books.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			require.NotNil(t, b.ISBN)
			assert.Equal(t, "9780441172719", *b.ISBN)
			return nil
		})

		_, err := f.svc.Create(context.Background(), in, ownerID)
		require.NoError(t, err)
	})

	t.Run("blank isbn dropped", func(t *testing.T) {
		f := newFixture(t)
		in := validInput()
		in.ISBN = ptr("   ")
		f.books.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			assert.Nil(t, b.ISBN)
			return nil
		})

		_, err := f.svc.Create(context.Background(), in, ownerID)
		require.NoError(t, err)
	})

	t.Run("genre outside the set", func(t *testing.T) {
		f := newFixture(t)
		in := validInput()
		in.Genre = "Sci-fi"

		_, err := f.svc.Create(context.Background(), in, ownerID)
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
		assert.True(t, apperr.HasField(err, "genre"))
	})

	t.Run("future year", func(t *testing.T) {
		f := newFixture(t)
		in := validInput()
		in.PublishedYear = ptr(time.Now().Year() + 1)

		_, err := f.svc.Create(context.Background(), in, ownerID)
		assert.True(t, apperr.HasField(err, "publishedYear"))
	})

	t.Run("malformed isbn", func(t *testing.T) {
		f := newFixture(t)
		in := validInput()
		in.ISBN = ptr("12345")

		_, err := f.svc.Create(context.Background(), in, ownerID)
		assert.True(t, apperr.HasField(err, "isbn"))
	})

	t.Run("missing required fields", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), CreateInput{}, ownerID)
		for _, field := range []string{"title", "author", "genre", "description"} {
			assert.True(t, apperr.HasField(err, field), field)
		}
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		f := newFixture(t)
		in := validInput()
		in.ISBN = ptr("0441172717")
		f.books.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ErrDuplicateISBN)

		_, err := f.svc.Create(context.Background(), in, ownerID)
		assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
		assert.True(t, apperr.HasField(err, "isbn"))
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)
		f.books.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		_, err := f.svc.Create(context.Background(), validInput(), ownerID)
		assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
	})
}

func TestService_List(t *testing.T) {
	t.Run("annotates ratings", func(t *testing.T) {
		f := newFixture(t)
		f.books.EXPECT().List(gomock.Any(), Query{Sort: "title", Limit: 10, Offset: 10}).
			Return([]Book{{ID: bookID}, {ID: otherID}}, 12, nil)
		f.ratings.EXPECT().RatingsByBooks(gomock.Any(), []string{bookID, otherID}).
			Return(map[string][]int{bookID: {4, 5, 5}}, nil)

		page, err := f.svc.List(context.Background(), Query{Sort: "title"}, pagination.New(2, 10))
		require.NoError(t, err)
		require.Len(t, page.Books, 2)
		assert.Equal(t, 4.7, page.Books[0].AverageRating)
		assert.Equal(t, 3, page.Books[0].ReviewCount)
		assert.Equal(t, 0.0, page.Books[1].AverageRating)
		assert.Equal(t, 0, page.Books[1].ReviewCount)

		meta := page.Meta()
		assert.Equal(t, 2, meta.TotalPages)
		assert.False(t, meta.HasNextPage)
		assert.True(t, meta.HasPrevPage)
	})

	t.Run("unknown sort falls back", func(t *testing.T) {
		f := newFixture(t)
		f.books.EXPECT().List(gomock.Any(), Query{Sort: DefaultSort, Desc: true, Limit: 10}).Return([]Book{}, 0, nil)

		page, err := f.svc.List(context.Background(), Query{Sort: "password", Desc: true}, pagination.New(1, 10))
		require.NoError(t, err)
		assert.NotNil(t, page.Books)
		assert.Empty(t, page.Books)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)
		f.books.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, 0, errors.New("boom"))

		_, err := f.svc.List(context.Background(), Query{}, pagination.New(1, 10))
		assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
	})
}

func TestService_GetByID(t *testing.T) {
	t.Run("detail with review page", func(t *testing.T) {
		f := newFixture(t)
		f.books.EXPECT().GetByID(gomock.Any(), bookID).Return(Book{ID: bookID, Title: "Dune"}, nil)
		f.ratings.EXPECT().RatingsByBooks(gomock.Any(), []string{bookID}).
			Return(map[string][]int{bookID: {3, 4, 4, 5, 5}}, nil)
		f.reviews.EXPECT().ListByBook(gomock.Any(), bookID, 2, 2).
			Return([]review.Review{{ID: "r3"}, {ID: "r4"}}, nil)

		d, err := f.svc.GetByID(context.Background(), bookID, pagination.New(2, 2))
		require.NoError(t, err)
		assert.Equal(t, 4.2, d.Book.AverageRating)
		assert.Equal(t, 5, d.Book.ReviewCount)
		assert.Len(t, d.Reviews.Data, 2)
		assert.Equal(t, 5, d.Reviews.Pagination.TotalReviews)
		assert.Equal(t, 3, d.Reviews.Pagination.TotalPages)
		assert.True(t, d.Reviews.Pagination.HasNextPage)
	})

	t.Run("no reviews", func(t *testing.T) {
		f := newFixture(t)
		f.books.EXPECT().GetByID(gomock.Any(), bookID).Return(Book{ID: bookID}, nil)
		f.ratings.EXPECT().RatingsByBooks(gomock.Any(), gomock.Any()).Return(map[string][]int{}, nil)
		f.reviews.EXPECT().ListByBook(gomock.Any(), bookID, 10, 0).Return(nil, nil)

		d, err := f.svc.GetByID(context.Background(), bookID, pagination.New(1, 10))
		require.NoError(t, err)
		assert.Equal(t, 0.0, d.Book.AverageRating)
		assert.NotNil(t, d.Reviews.Data)
		assert.Equal(t, 0, d.Reviews.Pagination.TotalReviews)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.GetByID(context.Background(), "not-a-uuid", pagination.New(1, 10))
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
		assert.True(t, apperr.HasField(err, "id"))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.books.EXPECT().GetByID(gomock.Any(), bookID).Return(Book{}, ErrNotFound)

		_, err := f.svc.GetByID(context.Background(), bookID, pagination.New(1, 10))
		assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	})
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "b.created_at DESC NULLS LAST, b.id DESC", orderBy(Query{Sort: "createdAt", Desc: true}))
	assert.Equal(t, "b.published_year ASC NULLS FIRST, b.id ASC", orderBy(Query{Sort: "publishedYear"}))
	assert.Equal(t, "b.created_at ASC NULLS FIRST, b.id ASC", orderBy(Query{Sort: "bogus"}))
}
