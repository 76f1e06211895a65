package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// CreateCatalogIngredient inserts a new canonical ingredient produced by the
// admin curation pipeline. The partial unique index on
// LOWER(TRIM(name_en)) WHERE is_active surfaces a duplicate as ErrConflict.
func (s *Store) CreateCatalogIngredient(ctx context.Context, ing *domain.CatalogIngredient) error {
	ing.ID = kernel.NewCatalogIngredientID()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO catalog_ingredients
			(id, category_id, name_en, name_pl, name_ru, name_uk, default_unit, default_shelf_life_days, allergens, seasons, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		ing.ID, ing.CategoryID, ing.NameEN, ing.NamePL, ing.NameRU, ing.NameUK,
		ing.DefaultUnit, ing.DefaultShelfLifeDays, ing.Allergens, ing.Seasons, ing.ImageURL, ing.IsActive,
	)

	return translateError(err)
}

// FindActiveCatalogIngredientByNormalizedName looks up an active ingredient
// by LOWER(TRIM(name_en)), the pipeline's duplicate-detection key.
func (s *Store) FindActiveCatalogIngredientByNormalizedName(ctx context.Context, normalized string) (*domain.CatalogIngredient, error) {
	return s.scanCatalogIngredient(ctx, `
		SELECT id, category_id, name_en, name_pl, name_ru, name_uk, default_unit, default_shelf_life_days, allergens, seasons, image_url, is_active
		FROM catalog_ingredients
		WHERE is_active AND LOWER(TRIM(name_en)) = $1
	`, normalized)
}

// GetCatalogIngredientByID returns one catalog ingredient regardless of tenant.
func (s *Store) GetCatalogIngredientByID(ctx context.Context, id kernel.CatalogIngredientID) (*domain.CatalogIngredient, error) {
	return s.scanCatalogIngredient(ctx, `
		SELECT id, category_id, name_en, name_pl, name_ru, name_uk, default_unit, default_shelf_life_days, allergens, seasons, image_url, is_active
		FROM catalog_ingredients WHERE id = $1
	`, id)
}

func (s *Store) scanCatalogIngredient(ctx context.Context, query string, arg any) (*domain.CatalogIngredient, error) {
	var ing domain.CatalogIngredient
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&ing.ID, &ing.CategoryID, &ing.NameEN, &ing.NamePL, &ing.NameRU, &ing.NameUK,
		&ing.DefaultUnit, &ing.DefaultShelfLifeDays, &ing.Allergens, &ing.Seasons, &ing.ImageURL, &ing.IsActive,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &ing, nil
}

// SearchCatalogIngredients performs a multilingual, case-insensitive
// substring match across all four name columns so a tenant user can search
// in whichever language they type in.
func (s *Store) SearchCatalogIngredients(ctx context.Context, query string, limit int) ([]domain.CatalogIngredient, error) {
	needle := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	rows, err := s.pool.Query(ctx, `
		SELECT id, category_id, name_en, name_pl, name_ru, name_uk, default_unit, default_shelf_life_days, allergens, seasons, image_url, is_active
		FROM catalog_ingredients
		WHERE is_active AND (
			LOWER(name_en) LIKE $1 OR LOWER(name_pl) LIKE $1 OR LOWER(name_ru) LIKE $1 OR LOWER(name_uk) LIKE $1
		)
		ORDER BY name_en ASC
		LIMIT $2
	`, needle, limit)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	return scanCatalogIngredients(rows)
}

// ListCatalogIngredients returns every ingredient for admin curation,
// including inactive ones.
func (s *Store) ListCatalogIngredients(ctx context.Context) ([]domain.CatalogIngredient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, category_id, name_en, name_pl, name_ru, name_uk, default_unit, default_shelf_life_days, allergens, seasons, image_url, is_active
		FROM catalog_ingredients ORDER BY name_en ASC
	`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	return scanCatalogIngredients(rows)
}

func scanCatalogIngredients(rows pgx.Rows) ([]domain.CatalogIngredient, error) {
	var out []domain.CatalogIngredient
	for rows.Next() {
		var ing domain.CatalogIngredient
		if err := rows.Scan(
			&ing.ID, &ing.CategoryID, &ing.NameEN, &ing.NamePL, &ing.NameRU, &ing.NameUK,
			&ing.DefaultUnit, &ing.DefaultShelfLifeDays, &ing.Allergens, &ing.Seasons, &ing.ImageURL, &ing.IsActive,
		); err != nil {
			return nil, translateError(err)
		}
		out = append(out, ing)
	}
	return out, translateError(rows.Err())
}

// UpdateCatalogIngredient rewrites an ingredient's admin-curated fields.
func (s *Store) UpdateCatalogIngredient(ctx context.Context, ing *domain.CatalogIngredient) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE catalog_ingredients SET
			category_id = $2, name_en = $3, name_pl = $4, name_ru = $5, name_uk = $6,
			default_unit = $7, default_shelf_life_days = $8, allergens = $9, seasons = $10, is_active = $11
		WHERE id = $1
	`, ing.ID, ing.CategoryID, ing.NameEN, ing.NamePL, ing.NameRU, ing.NameUK,
		ing.DefaultUnit, ing.DefaultShelfLifeDays, ing.Allergens, ing.Seasons, ing.IsActive)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

// SetCatalogIngredientImage stores the object-storage URL after an admin
// image upload, or clears it on delete.
func (s *Store) SetCatalogIngredientImage(ctx context.Context, id kernel.CatalogIngredientID, imageURL *string) error {
	_, err := s.pool.Exec(ctx, `UPDATE catalog_ingredients SET image_url = $2 WHERE id = $1`, id, imageURL)
	return translateError(err)
}

// DeactivateCatalogIngredient soft-deletes a catalog ingredient so
// historical recipe lines and dictionary entries referencing it stay intact.
func (s *Store) DeactivateCatalogIngredient(ctx context.Context, id kernel.CatalogIngredientID) error {
	_, err := s.pool.Exec(ctx, `UPDATE catalog_ingredients SET is_active = false WHERE id = $1`, id)
	return translateError(err)
}
