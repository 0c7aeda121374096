package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookreview/db"
	"bookreview/internal/platform/logging"
	"bookreview/internal/platform/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v3"
)

const pingTimeout = 5 * time.Second

func main() {
	logging.Setup(os.Stderr, slog.LevelInfo, true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		slog.Error("migrate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	dsnFlag := &cli.StringFlag{
		Name:  "dsn",
		Usage: "Postgres connection string (defaults to DB_DSN)",
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the bookreview database schema",
		Flags: []cli.Flag{dsnFlag},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: withMigrator(func(ctx context.Context, m *postgres.Migrator, pool *pgxpool.Pool) error {
					if err := m.Up(ctx, pool); err != nil {
						return fmt.Errorf("apply migrations: %w", err)
					}
					slog.Info("migrations applied")
					return nil
				}),
			},
			{
				Name:  "down",
				Usage: "Roll back the latest migration",
				Action: withMigrator(func(ctx context.Context, m *postgres.Migrator, pool *pgxpool.Pool) error {
					if err := m.Down(ctx, pool); err != nil {
						return fmt.Errorf("roll back migration: %w", err)
					}
					slog.Info("migration rolled back")
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "Show the state of every migration",
				Action: withMigrator(func(ctx context.Context, m *postgres.Migrator, pool *pgxpool.Pool) error {
					return m.Status(ctx, pool)
				}),
			},
			{
				Name:  "version",
				Usage: "Print the current schema version",
				Action: withMigrator(func(ctx context.Context, m *postgres.Migrator, pool *pgxpool.Pool) error {
					v, err := m.Version(ctx, pool)
					if err != nil {
						return err
					}
					fmt.Println(v)
					return nil
				}),
			},
			{
				Name:      "create",
				Usage:     "Create a new SQL migration file",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Directory to write the migration into",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					name := cmd.Args().First()
					if name == "" {
						return errors.New("a migration name is required")
					}
					dir := cmd.String("dir")
					if dir == "" {
						dir = migrationsDir()
					}
					goose.SetBaseFS(nil)
					goose.SetSequential(true)
					if err := goose.Create(nil, dir, name, "sql"); err != nil {
						return fmt.Errorf("create migration: %w", err)
					}
					return nil
				},
			},
		},
	}
}

type migratorAction func(ctx context.Context, m *postgres.Migrator, pool *pgxpool.Pool) error

// withMigrator opens the pool for the duration of one command.
func withMigrator(fn migratorAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		dsn := cmd.String("dsn")
		if dsn == "" {
			dsn = databaseDSN()
		}
		pool, err := postgres.Open(ctx, dsn, pingTimeout)
		if err != nil {
			return err
		}
		defer pool.Close()
		return fn(ctx, postgres.NewMigrator(db.Migrations, db.MigrationsDir), pool)
	}
}
