package postgres

import (
	"context"
	"database/sql"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrator applies goose migrations from an fs.FS.
type Migrator struct {
	fsys fs.FS
	dir  string
}

func NewMigrator(fsys fs.FS, dir string) *Migrator {
	return &Migrator{fsys: fsys, dir: dir}
}

func (m *Migrator) prepare(pool *pgxpool.Pool) (*sql.DB, error) {
	goose.SetBaseFS(m.fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	return stdlib.OpenDBFromPool(pool), nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context, pool *pgxpool.Pool) error {
	db, err := m.prepare(pool)
	if err != nil {
		return err
	}
	defer db.Close()
	return goose.UpContext(ctx, db, m.dir)
}

// Down rolls back the latest migration.
func (m *Migrator) Down(ctx context.Context, pool *pgxpool.Pool) error {
	db, err := m.prepare(pool)
	if err != nil {
		return err
	}
	defer db.Close()
	return goose.DownContext(ctx, db, m.dir)
}

// Status prints the applied state of every migration.
func (m *Migrator) Status(ctx context.Context, pool *pgxpool.Pool) error {
	db, err := m.prepare(pool)
	if err != nil {
		return err
	}
	defer db.Close()
	return goose.StatusContext(ctx, db, m.dir)
}

// Version returns the current schema version.
func (m *Migrator) Version(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	db, err := m.prepare(pool)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return goose.GetDBVersionContext(ctx, db)
}

// Collect parses the migration set without touching a database.
func (m *Migrator) Collect() (goose.Migrations, error) {
	goose.SetBaseFS(m.fsys)
	return goose.CollectMigrations(m.dir, 0, goose.MaxVersion)
}
