package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// CreateRecipe inserts a new draft recipe with its costing snapshot.
func (s *Store) CreateRecipe(ctx context.Context, r *domain.Recipe) error {
	r.ID = kernel.NewRecipeID()
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO recipes
			(id, tenant_id, user_id, name_default, instructions_default, language_default, servings,
			 prep_time_minutes, cook_time_minutes, status, is_public, published_at, total_cost_cents, cost_per_serving_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, r.ID, r.TenantID, r.UserID, r.NameDefault, r.InstructionsDefault, r.LanguageDefault, r.Servings,
		r.PrepTimeMinutes, r.CookTimeMinutes, r.Status, r.IsPublic, r.PublishedAt, r.TotalCostCents, r.CostPerServingCents, now, now)

	return translateError(err)
}

// CreateRecipeTx inserts a new draft recipe as part of the caller's
// transaction, so the recipe row and its ingredient lines commit atomically.
func (s *Store) CreateRecipeTx(ctx context.Context, tx pgx.Tx, r *domain.Recipe) error {
	r.ID = kernel.NewRecipeID()
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := tx.Exec(ctx, `
		INSERT INTO recipes
			(id, tenant_id, user_id, name_default, instructions_default, language_default, servings,
			 prep_time_minutes, cook_time_minutes, status, is_public, published_at, total_cost_cents, cost_per_serving_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, r.ID, r.TenantID, r.UserID, r.NameDefault, r.InstructionsDefault, r.LanguageDefault, r.Servings,
		r.PrepTimeMinutes, r.CookTimeMinutes, r.Status, r.IsPublic, r.PublishedAt, r.TotalCostCents, r.CostPerServingCents, now, now)

	return translateError(err)
}

// UpdateRecipeTx rewrites a recipe's authoring fields and cost snapshot as
// part of the caller's transaction, paired with ReplaceRecipeIngredientsTx
// so an edit's new cost snapshot and new ingredient lines commit together.
func (s *Store) UpdateRecipeTx(ctx context.Context, tx pgx.Tx, r *domain.Recipe) error {
	r.UpdatedAt = time.Now().UTC()
	tag, err := tx.Exec(ctx, `
		UPDATE recipes SET
			name_default = $3, instructions_default = $4, language_default = $5, servings = $6,
			prep_time_minutes = $7, cook_time_minutes = $8, status = $9, is_public = $10, published_at = $11,
			total_cost_cents = $12, cost_per_serving_cents = $13, updated_at = $14
		WHERE tenant_id = $1 AND id = $2
	`, r.TenantID, r.ID, r.NameDefault, r.InstructionsDefault, r.LanguageDefault, r.Servings,
		r.PrepTimeMinutes, r.CookTimeMinutes, r.Status, r.IsPublic, r.PublishedAt, r.TotalCostCents, r.CostPerServingCents, r.UpdatedAt)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

// GetRecipe returns a recipe scoped to its tenant.
func (s *Store) GetRecipe(ctx context.Context, tenantID kernel.TenantID, id kernel.RecipeID) (*domain.Recipe, error) {
	return s.scanRecipe(ctx, s.pool, `
		SELECT id, tenant_id, user_id, name_default, instructions_default, language_default, servings,
			prep_time_minutes, cook_time_minutes, status, is_public, published_at, total_cost_cents, cost_per_serving_cents, created_at, updated_at
		FROM recipes WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)
}

// GetRecipeTx reads a recipe's frozen cost snapshot within the caller's
// transaction, so a sale recomputes recipe_cost_cents from the same
// transactional view it consumes batches under.
func (s *Store) GetRecipeTx(ctx context.Context, tx pgx.Tx, tenantID kernel.TenantID, id kernel.RecipeID) (*domain.Recipe, error) {
	return s.scanRecipe(ctx, tx, `
		SELECT id, tenant_id, user_id, name_default, instructions_default, language_default, servings,
			prep_time_minutes, cook_time_minutes, status, is_public, published_at, total_cost_cents, cost_per_serving_cents, created_at, updated_at
		FROM recipes WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)
}

func (s *Store) scanRecipe(ctx context.Context, exec commandExecutor, query string, args ...any) (*domain.Recipe, error) {
	var r domain.Recipe
	err := exec.QueryRow(ctx, query, args...).Scan(
		&r.ID, &r.TenantID, &r.UserID, &r.NameDefault, &r.InstructionsDefault, &r.LanguageDefault, &r.Servings,
		&r.PrepTimeMinutes, &r.CookTimeMinutes, &r.Status, &r.IsPublic, &r.PublishedAt, &r.TotalCostCents, &r.CostPerServingCents, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &r, nil
}

// ListRecipes returns every non-archived recipe of a tenant, newest first.
func (s *Store) ListRecipes(ctx context.Context, tenantID kernel.TenantID) ([]domain.Recipe, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, user_id, name_default, instructions_default, language_default, servings,
			prep_time_minutes, cook_time_minutes, status, is_public, published_at, total_cost_cents, cost_per_serving_cents, created_at, updated_at
		FROM recipes WHERE tenant_id = $1 AND status != 'archived' ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []domain.Recipe
	for rows.Next() {
		var r domain.Recipe
		if err := rows.Scan(
			&r.ID, &r.TenantID, &r.UserID, &r.NameDefault, &r.InstructionsDefault, &r.LanguageDefault, &r.Servings,
			&r.PrepTimeMinutes, &r.CookTimeMinutes, &r.Status, &r.IsPublic, &r.PublishedAt, &r.TotalCostCents, &r.CostPerServingCents, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, translateError(err)
		}
		out = append(out, r)
	}
	return out, translateError(rows.Err())
}

// UpdateRecipe rewrites a recipe's authoring fields and cost snapshot.
func (s *Store) UpdateRecipe(ctx context.Context, r *domain.Recipe) error {
	r.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx, `
		UPDATE recipes SET
			name_default = $3, instructions_default = $4, language_default = $5, servings = $6,
			prep_time_minutes = $7, cook_time_minutes = $8, status = $9, is_public = $10, published_at = $11,
			total_cost_cents = $12, cost_per_serving_cents = $13, updated_at = $14
		WHERE tenant_id = $1 AND id = $2
	`, r.TenantID, r.ID, r.NameDefault, r.InstructionsDefault, r.LanguageDefault, r.Servings,
		r.PrepTimeMinutes, r.CookTimeMinutes, r.Status, r.IsPublic, r.PublishedAt, r.TotalCostCents, r.CostPerServingCents, r.UpdatedAt)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

// ArchiveRecipe soft-archives a recipe rather than deleting it.
func (s *Store) ArchiveRecipe(ctx context.Context, tenantID kernel.TenantID, id kernel.RecipeID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE recipes SET status = 'archived', updated_at = $3 WHERE tenant_id = $1 AND id = $2
	`, tenantID, id, time.Now().UTC())
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

// BulkArchiveRecipes archives every listed recipe id belonging to the tenant.
func (s *Store) BulkArchiveRecipes(ctx context.Context, tenantID kernel.TenantID, ids []kernel.RecipeID) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE recipes SET status = 'archived', updated_at = $3 WHERE tenant_id = $1 AND id = ANY($2)
	`, tenantID, recipeIDsToUUIDs(ids), time.Now().UTC())
	return translateError(err)
}
