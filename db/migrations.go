// Package db carries the SQL schema migrations, embedded so binaries can
// apply them without a checkout.
package db

import "embed"

// MigrationsDir is the directory inside Migrations holding the goose files.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
