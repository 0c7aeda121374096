package book

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookreview/internal/platform/validate"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned when another book already carries the ISBN.
	ErrDuplicateISBN = errors.New("duplicate isbn")
)

// Genres is the fixed set a book's genre must come from.
var Genres = []string{
	"Fiction",
	"Non-fiction",
	"Science Fiction",
	"Fantasy",
	"Mystery",
	"Thriller",
	"Romance",
	"Biography",
	"History",
	"Self-help",
	"Classic Literature",
	"Other",
}

func IsGenre(s string) bool {
	for _, g := range Genres {
		if g == s {
			return true
		}
	}
	return false
}

func init() {
	validate.Register("genre", func(fl validator.FieldLevel) bool {
		return IsGenre(fl.Field().String())
	}, "%s must be one of: "+strings.Join(Genres, ", "))
}

// Creator is the owning user summary attached to a book.
type Creator struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Book represents a book entity.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	Description   string    `json:"description"`
	PublishedYear *int      `json:"publishedYear,omitempty"`
	ISBN          *string   `json:"isbn,omitempty"`
	CoverImage    *string   `json:"coverImage,omitempty"`
	CreatedBy     Creator   `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// WithRating is a book annotated with its aggregate rating at read time.
type WithRating struct {
	Book
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// CreateInput is the body of a new book.
type CreateInput struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Author        string  `json:"author" validate:"required,max=100"`
	Genre         string  `json:"genre" validate:"required,genre"`
	Description   string  `json:"description" validate:"required,max=1000"`
	PublishedYear *int    `json:"publishedYear" validate:"omitempty,gte=1000,notfuture"`
	ISBN          *string `json:"isbn" validate:"omitempty,isbn"`
	CoverImage    *string `json:"coverImage" validate:"omitempty,max=2048"`
}

// normalize trims strings and drops empty optionals.
func (in *CreateInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Genre = strings.TrimSpace(in.Genre)
	in.Description = strings.TrimSpace(in.Description)
	in.ISBN = trimOptional(in.ISBN)
	if in.ISBN != nil {
		isbn := validate.NormalizeISBN(*in.ISBN)
		in.ISBN = &isbn
	}
	in.CoverImage = trimOptional(in.CoverImage)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// sortColumns maps the accepted sort fields onto columns.
var sortColumns = map[string]string{
	"createdAt":     "b.created_at",
	"updatedAt":     "b.updated_at",
	"title":         "b.title",
	"author":        "b.author",
	"genre":         "b.genre",
	"publishedYear": "b.published_year",
}

// DefaultSort is used when no or an unknown sort field is requested.
const DefaultSort = "createdAt"

// Query defines filters, ordering and the page window for listing books.
type Query struct {
	Author string // case-insensitive substring
	Genre  string // case-insensitive substring
	Year   *int
	Text   string // case-insensitive substring of title or author
	Sort   string
	Desc   bool
	Limit  int
	Offset int
}

// Repository defines the contract for book data storage.
type Repository interface {
	// Create inserts b and fills its id, timestamps and creator summary.
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id string) (Book, error)
	List(ctx context.Context, q Query) ([]Book, int, error)
}
