package rating

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

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

func (r *PostgresRepo) RatingsByBooks(ctx context.Context, bookIDs []string) (map[string][]int, error) {
	const query = `
		SELECT book_id::text, rating
		FROM reviews
		WHERE book_id = ANY($1::uuid[])
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, bookIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]int)
	for rows.Next() {
		var bookID string
		var star int
		if err := rows.Scan(&bookID, &star); err != nil {
			return nil, err
		}
		out[bookID] = append(out[bookID], star)
	}
	return out, rows.Err()
}
