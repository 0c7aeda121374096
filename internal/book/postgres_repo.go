package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookreview/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const isbnConstraint = "books_isbn_key"

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		WITH inserted AS (
			INSERT INTO books (title, author, genre, description, published_year, isbn, cover_image, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_by, created_at, updated_at
		)
		SELECT i.id, i.created_at, i.updated_at, u.username, u.email
		FROM inserted i
		JOIN users u ON u.id = i.created_by
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.Title, b.Author, b.Genre, b.Description, b.PublishedYear, b.ISBN, b.CoverImage, b.CreatedBy.ID,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt, &b.CreatedBy.Username, &b.CreatedBy.Email)
	if constraint, ok := postgres.UniqueViolation(err); ok && constraint == isbnConstraint {
		return ErrDuplicateISBN
	}
	return err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	const query = `
		SELECT b.id, b.title, b.author, b.genre, b.description, b.published_year, b.isbn, b.cover_image,
		       b.created_at, b.updated_at, u.id, u.username, u.email
		FROM books b
		JOIN users u ON u.id = b.created_by
		WHERE b.id = $1
		LIMIT 1
	`
	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description, &b.PublishedYear, &b.ISBN, &b.CoverImage,
		&b.CreatedAt, &b.UpdatedAt, &b.CreatedBy.ID, &b.CreatedBy.Username, &b.CreatedBy.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

// orderBy renders the ORDER BY clause. NULL years sort as the smallest
// value in both directions; id breaks ties so pages are stable.
func orderBy(q Query) string {
	col, ok := sortColumns[q.Sort]
	if !ok {
		col = sortColumns[DefaultSort]
	}
	if q.Desc {
		return fmt.Sprintf("%s DESC NULLS LAST, b.id DESC", col)
	}
	return fmt.Sprintf("%s ASC NULLS FIRST, b.id ASC", col)
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Author != "" {
		clauses = append(clauses, fmt.Sprintf("b.author ILIKE $%d", argn))
		args = append(args, postgres.ContainsPattern(q.Author))
		argn++
	}

	if q.Genre != "" {
		clauses = append(clauses, fmt.Sprintf("b.genre ILIKE $%d", argn))
		args = append(args, postgres.ContainsPattern(q.Genre))
		argn++
	}

	if q.Year != nil {
		clauses = append(clauses, fmt.Sprintf("b.published_year = $%d", argn))
		args = append(args, *q.Year)
		argn++
	}

	if q.Text != "" {
		clauses = append(clauses, fmt.Sprintf("(b.title ILIKE $%d OR b.author ILIKE $%d)", argn, argn))
		args = append(args, postgres.ContainsPattern(q.Text))
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM books b %s", where)
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT b.id, b.title, b.author, b.genre, b.description, b.published_year, b.isbn, b.cover_image,
		       b.created_at, b.updated_at, u.id, u.username
		FROM books b
		JOIN users u ON u.id = b.created_by
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		where, orderBy(q), argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description, &b.PublishedYear, &b.ISBN, &b.CoverImage,
			&b.CreatedAt, &b.UpdatedAt, &b.CreatedBy.ID, &b.CreatedBy.Username,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}
