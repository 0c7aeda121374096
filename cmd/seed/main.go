package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookreview/internal/auth"
	"bookreview/internal/book"
	"bookreview/internal/config"
	"bookreview/internal/platform/logging"
	"bookreview/internal/platform/postgres"
	"bookreview/internal/rating"
	"bookreview/internal/review"
	"bookreview/internal/user"

	"github.com/urfave/cli/v3"
)

func main() {
	logging.Setup(os.Stderr, slog.LevelInfo, true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Fill a development database with users, books and reviews",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dsn", Usage: "Postgres connection string (defaults to DB_DSN)"},
			&cli.IntFlag{Name: "users", Value: 5, Usage: "Number of reader accounts"},
			&cli.IntFlag{Name: "books", Value: 24, Usage: "Number of books"},
			&cli.IntFlag{Name: "workers", Value: 8, Usage: "Concurrent review writers"},
			&cli.StringFlag{Name: "password", Value: "Passw0rd!", Usage: "Password for every seeded account"},
			&cli.Uint64Flag{Name: "seed", Usage: "Random seed (0 picks one from the clock)"},
		},
		Action: seed,
	}
}

func seed(ctx context.Context, cmd *cli.Command) error {
	config.LoadEnvFiles()
	dsn := cmd.String("dsn")
	if dsn == "" {
		dsn = os.Getenv("DB_DSN")
	}
	if dsn == "" {
		dsn = config.Default().DatabaseDSN
	}

	pool, err := postgres.Open(ctx, dsn, 5*time.Second)
	if err != nil {
		return err
	}
	defer pool.Close()

	hash, err := auth.HashPassword(cmd.String("password"))
	if err != nil {
		return err
	}

	seedValue := cmd.Uint64("seed")
	if seedValue == 0 {
		seedValue = uint64(time.Now().UnixNano())
	}

	const timeout = 5 * time.Second
	reviews := review.NewService(review.NewPostgresRepo(pool, timeout))
	s := &seeder{
		accounts:     user.NewService(user.NewPostgresRepo(pool, timeout)),
		catalog:      book.NewService(book.NewPostgresRepo(pool, timeout), rating.NewService(rating.NewPostgresRepo(pool, timeout)), reviews),
		ledger:       reviews,
		passwordHash: hash,
		rnd:          rand.New(rand.NewPCG(seedValue, seedValue)),
		workers:      max(1, int(cmd.Int("workers"))),
	}

	stats, err := s.Run(ctx, int(cmd.Int("users")), int(cmd.Int("books")))
	slog.Info("seed finished",
		slog.Int("users", stats.Users),
		slog.Int("books", stats.Books),
		slog.Int64("reviews", stats.Reviews),
		slog.Int64("skipped", stats.Skipped),
		slog.Uint64("seed", seedValue),
	)
	return err
}
