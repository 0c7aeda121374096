package main

import (
	"os"

	"bookreview/internal/config"
)

// migrationsDir is where "create" writes new files. The other commands
// read the set embedded in the binary.
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}

func databaseDSN() string {
	config.LoadEnvFiles()
	if v := os.Getenv("DB_DSN"); v != "" {
		return v
	}
	return config.Default().DatabaseDSN
}
