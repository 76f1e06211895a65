package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// ReplaceRecipeIngredientsTx deletes every existing line for a recipe and
// inserts the new set, inside the caller's transaction. Recipe editing
// always rewrites the whole ingredient list rather than patching lines in
// place, so the cost-at-use snapshot can never end up half-updated.
func (s *Store) ReplaceRecipeIngredientsTx(ctx context.Context, tx pgx.Tx, recipeID kernel.RecipeID, lines []domain.RecipeIngredient) error {
	if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipeID); err != nil {
		return translateError(err)
	}

	for i := range lines {
		lines[i].ID = kernel.NewRecipeIngredientID()
		lines[i].RecipeID = recipeID

		_, err := tx.Exec(ctx, `
			INSERT INTO recipe_ingredients (id, recipe_id, catalog_ingredient_id, quantity, unit, cost_at_use_cents, name_snapshot)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, lines[i].ID, lines[i].RecipeID, lines[i].CatalogIngredientID, lines[i].Quantity, lines[i].Unit, lines[i].CostAtUseCents, lines[i].NameSnapshot)
		if err != nil {
			return translateError(err)
		}
	}

	return nil
}

// ListRecipeIngredients returns every line of a recipe ordered by line id.
// Line ids are random UUIDs, so this is not the order the lines were inserted.
func (s *Store) ListRecipeIngredients(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeIngredient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, recipe_id, catalog_ingredient_id, quantity, unit, cost_at_use_cents, name_snapshot
		FROM recipe_ingredients WHERE recipe_id = $1 ORDER BY id ASC
	`, recipeID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []domain.RecipeIngredient
	for rows.Next() {
		var li domain.RecipeIngredient
		if err := rows.Scan(&li.ID, &li.RecipeID, &li.CatalogIngredientID, &li.Quantity, &li.Unit, &li.CostAtUseCents, &li.NameSnapshot); err != nil {
			return nil, translateError(err)
		}
		out = append(out, li)
	}
	return out, translateError(rows.Err())
}
