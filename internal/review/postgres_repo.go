package review

import (
	"context"
	"errors"
	"time"

	"bookreview/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userBookConstraint = "reviews_user_book_key"

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

func (r *PostgresRepo) exists(ctx context.Context, query string, args ...any) (bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var ok bool
	err := r.db.QueryRow(timeoutCtx, query, args...).Scan(&ok)
	return ok, err
}

func (r *PostgresRepo) BookExists(ctx context.Context, bookID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, bookID)
}

func (r *PostgresRepo) ExistsForUserAndBook(ctx context.Context, userID, bookID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id = $1 AND book_id = $2)`, userID, bookID)
}

func (r *PostgresRepo) Create(ctx context.Context, rv *Review) error {
	const query = `
		INSERT INTO reviews (rating, comment, user_id, book_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, rv.Rating, rv.Comment, rv.User.ID, rv.Book.ID).
		Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
	if constraint, ok := postgres.UniqueViolation(err); ok && constraint == userBookConstraint {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Review, error) {
	const query = `
		SELECT r.id, r.rating, r.comment, r.created_at, r.updated_at,
		       u.id, u.username, b.id, b.title, b.author
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		JOIN books b ON b.id = r.book_id
		WHERE r.id = $1
	`
	var rv Review
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&rv.ID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt,
		&rv.User.ID, &rv.User.Username, &rv.Book.ID, &rv.Book.Title, &rv.Book.Author,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, ErrNotFound
		}
		return Review{}, err
	}
	return rv, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id, userID string, c Change) error {
	const query = `
		UPDATE reviews
		SET rating = COALESCE($3::smallint, rating),
		    comment = COALESCE($4::text, comment),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, id, userID, c.Rating, c.Comment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id, userID string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID string, limit, offset int) ([]Review, error) {
	const query = `
		SELECT r.id, r.rating, r.comment, r.created_at, r.updated_at, u.id, u.username, r.book_id
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.book_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2 OFFSET $3
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, bookID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		var rv Review
		if err := rows.Scan(
			&rv.ID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt,
			&rv.User.ID, &rv.User.Username, &rv.Book.ID,
		); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
