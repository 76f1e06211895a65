package repository

import (
	"context"
	"time"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// UpsertRecipeTranslation writes a translation, overwriting any existing row
// for (recipe_id, language) — a recipe edit regenerates every translation,
// it never appends a second row for the same language.
func (s *Store) UpsertRecipeTranslation(ctx context.Context, t *domain.RecipeTranslation) error {
	if t.ID.IsZero() {
		t.ID = kernel.NewRecipeTranslationID()
	}
	t.TranslatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO recipe_translations (id, recipe_id, language, name, instructions, source, translated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (recipe_id, language) DO UPDATE SET
			name = EXCLUDED.name, instructions = EXCLUDED.instructions, source = EXCLUDED.source, translated_at = EXCLUDED.translated_at
	`, t.ID, t.RecipeID, t.Language, t.Name, t.Instructions, t.Source, t.TranslatedAt)

	return translateError(err)
}

// ListRecipeTranslations returns every non-default-language rendering of a recipe.
func (s *Store) ListRecipeTranslations(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeTranslation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, recipe_id, language, name, instructions, source, translated_at
		FROM recipe_translations WHERE recipe_id = $1
	`, recipeID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []domain.RecipeTranslation
	for rows.Next() {
		var t domain.RecipeTranslation
		if err := rows.Scan(&t.ID, &t.RecipeID, &t.Language, &t.Name, &t.Instructions, &t.Source, &t.TranslatedAt); err != nil {
			return nil, translateError(err)
		}
		out = append(out, t)
	}
	return out, translateError(rows.Err())
}
