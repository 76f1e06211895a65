package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iogar-platform/kitchenledger/internal/config"
	"github.com/iogar-platform/kitchenledger/internal/database"
	"github.com/iogar-platform/kitchenledger/internal/logger"
)

const migrationTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version VARCHAR(255) PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.App.Env)
	log.Info().Msg("starting migration tool")

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.PostgresDSN(), 5)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(ctx, migrationTable); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	migrationsDir := cfg.Database.MigrationsDir
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var migrations []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".up.sql") {
			migrations = append(migrations, file.Name())
		}
	}
	sort.Strings(migrations)

	if len(migrations) == 0 {
		log.Info().Msg("no migrations found")
		return nil
	}

	rows, err := db.Query(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("query applied migrations: %w", err)
	}

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("scan applied migration: %w", err)
		}
		applied[version] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate applied migrations: %w", err)
	}

	appliedCount := 0
	for _, migration := range migrations {
		version := strings.TrimSuffix(migration, ".up.sql")

		if applied[version] {
			log.Debug().Str("migration", version).Msg("already applied")
			continue
		}

		log.Info().Str("migration", version).Msg("applying migration")

		sqlPath := filepath.Join(migrationsDir, migration)
		sqlBytes, err := os.ReadFile(sqlPath)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", migration, err)
		}

		tx, err := db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("exec migration %s: %w", migration, err)
		}

		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("record migration %s: %w", migration, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit migration %s: %w", migration, err)
		}

		log.Info().Str("migration", version).Msg("migration applied")
		appliedCount++
	}

	if appliedCount == 0 {
		log.Info().Msg("all migrations already applied")
	} else {
		log.Info().Msgf("%d migration(s) applied", appliedCount)
	}

	return nil
}
