package repository

import (
	"context"
	"time"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// UpsertAIInsights writes a recipe's AI-generated insights for one
// language, overwriting any prior run for the same (recipe_id, language).
func (s *Store) UpsertAIInsights(ctx context.Context, ins *domain.RecipeAIInsights) error {
	if ins.ID.IsZero() {
		ins.ID = kernel.NewAIInsightsID()
		ins.CreatedAt = time.Now().UTC()
	}
	ins.UpdatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO recipe_ai_insights (id, recipe_id, language, steps_json, validation_json, suggestions_json, feasibility_score, model, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (recipe_id, language) DO UPDATE SET
			steps_json = EXCLUDED.steps_json,
			validation_json = EXCLUDED.validation_json,
			suggestions_json = EXCLUDED.suggestions_json,
			feasibility_score = EXCLUDED.feasibility_score,
			model = EXCLUDED.model,
			updated_at = EXCLUDED.updated_at
	`, ins.ID, ins.RecipeID, ins.Language, ins.StepsJSON, ins.ValidationJSON, ins.SuggestionsJSON, ins.FeasibilityScore, ins.Model, ins.CreatedAt, ins.UpdatedAt)

	return translateError(err)
}

// ListAIInsightsByRecipe returns the generated insights for every language
// available for a recipe, the per-recipe all-languages read the insights
// read endpoint uses when no specific language is requested.
func (s *Store) ListAIInsightsByRecipe(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeAIInsights, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, recipe_id, language, steps_json, validation_json, suggestions_json, feasibility_score, model, created_at, updated_at
		FROM recipe_ai_insights WHERE recipe_id = $1 ORDER BY language ASC
	`, recipeID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []domain.RecipeAIInsights
	for rows.Next() {
		var ins domain.RecipeAIInsights
		if err := rows.Scan(&ins.ID, &ins.RecipeID, &ins.Language, &ins.StepsJSON, &ins.ValidationJSON, &ins.SuggestionsJSON, &ins.FeasibilityScore, &ins.Model, &ins.CreatedAt, &ins.UpdatedAt); err != nil {
			return nil, translateError(err)
		}
		out = append(out, ins)
	}
	return out, translateError(rows.Err())
}

// GetAIInsights reads back the insights for (recipe_id, language), if generated.
func (s *Store) GetAIInsights(ctx context.Context, recipeID kernel.RecipeID, language kernel.Language) (*domain.RecipeAIInsights, error) {
	var ins domain.RecipeAIInsights
	err := s.pool.QueryRow(ctx, `
		SELECT id, recipe_id, language, steps_json, validation_json, suggestions_json, feasibility_score, model, created_at, updated_at
		FROM recipe_ai_insights WHERE recipe_id = $1 AND language = $2
	`, recipeID, language).Scan(&ins.ID, &ins.RecipeID, &ins.Language, &ins.StepsJSON, &ins.ValidationJSON, &ins.SuggestionsJSON, &ins.FeasibilityScore, &ins.Model, &ins.CreatedAt, &ins.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &ins, nil
}
