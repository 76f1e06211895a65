package main

import (
	"context"
	"fmt"
	"os"

	"github.com/iogar-platform/kitchenledger/internal/config"
	"github.com/iogar-platform/kitchenledger/internal/database"
	"github.com/iogar-platform/kitchenledger/internal/logger"
)

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
	log.Info().Msg("dropping all tables")

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.PostgresDSN(), 5)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer db.Close()

	tables := []string{
		"recipe_ai_insights",
		"dish_sales",
		"dishes",
		"recipe_translations",
		"recipe_ingredients",
		"recipes",
		"inventory_losses",
		"inventory_batches",
		"tenant_ingredients",
		"ingredient_dictionary",
		"catalog_ingredients",
		"catalog_categories",
		"password_reset_tokens",
		"refresh_tokens",
		"admins",
		"users",
		"tenants",
		"schema_migrations",
	}

	for _, table := range tables {
		if _, err := db.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
		log.Info().Str("table", table).Msg("table dropped")
	}

	log.Info().Msg("database cleaned")
	log.Info().Msg("run 'go run cmd/migrate/main.go' to recreate the tables")

	return nil
}
