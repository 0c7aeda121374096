package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookreview/db"
	"bookreview/internal/auth"
	"bookreview/internal/book"
	"bookreview/internal/config"
	"bookreview/internal/httpx"
	"bookreview/internal/platform/logging"
	"bookreview/internal/platform/postgres"
	"bookreview/internal/rating"
	"bookreview/internal/review"
	"bookreview/internal/search"
	"bookreview/internal/server"
	"bookreview/internal/user"
)

const dbPingTimeout = 2 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("api exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Setup(os.Stdout, cfg.LogLevel, cfg.IsDevelopment())
	httpx.ExposeInternalErrors(cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Open(ctx, cfg.DatabaseDSN, dbPingTimeout)
	if err != nil {
		return err
	}
	defer pool.Close()
	slog.Info("database connection OK", slog.String("dsn", postgres.RedactDSN(cfg.DatabaseDSN)))

	if cfg.AutoMigrate {
		if err := postgres.NewMigrator(db.Migrations, db.MigrationsDir).Up(ctx, pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	userService := user.NewService(user.NewPostgresRepo(pool, cfg.DBTimeout))
	ratingService := rating.NewService(rating.NewPostgresRepo(pool, cfg.DBTimeout))
	reviewService := review.NewService(review.NewPostgresRepo(pool, cfg.DBTimeout))
	bookService := book.NewService(book.NewPostgresRepo(pool, cfg.DBTimeout), ratingService, reviewService)
	searchService := search.NewService(bookService)

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	router := server.NewRouter(server.Handlers{
		Guard:   auth.NewGuard(cfg.JWTSecret, userService),
		Auth:    auth.NewHTTPHandler(auth.NewService(cfg.JWTSecret, cfg.JWTTTL, userService)),
		Books:   book.NewHTTPHandler(bookService),
		Reviews: review.NewHTTPHandler(reviewService),
		Search:  search.NewHTTPHandler(searchService),
	}, pool, server.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		EnableHSTS:         cfg.EnableHSTS,
		MaxBodyBytes:       cfg.MaxBodyBytes,
		RequestTimeout:     cfg.RequestTimeout,
		RateLimiter:        limiter,
	})

	srv := server.New(server.Config{
		Addr:            cfg.Addr,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, router)
	return srv.Run(ctx)
}
