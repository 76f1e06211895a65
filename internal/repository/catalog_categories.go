package repository

import (
	"context"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// ListCatalogCategories returns every category ordered for display.
func (s *Store) ListCatalogCategories(ctx context.Context) ([]domain.CatalogCategory, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, slug, sort_order, name_en, name_pl, name_ru, name_uk
		FROM catalog_categories ORDER BY sort_order ASC
	`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []domain.CatalogCategory
	for rows.Next() {
		var c domain.CatalogCategory
		if err := rows.Scan(&c.ID, &c.Slug, &c.SortOrder, &c.NameEN, &c.NamePL, &c.NameRU, &c.NameUK); err != nil {
			return nil, translateError(err)
		}
		out = append(out, c)
	}
	return out, translateError(rows.Err())
}

// GetCatalogCategoryBySlug resolves a table slug (e.g. "meat_and_poultry") to
// its category row; the pipeline calls it after its alias step.
func (s *Store) GetCatalogCategoryBySlug(ctx context.Context, slug string) (*domain.CatalogCategory, error) {
	var c domain.CatalogCategory
	err := s.pool.QueryRow(ctx, `
		SELECT id, slug, sort_order, name_en, name_pl, name_ru, name_uk
		FROM catalog_categories WHERE slug = $1
	`, slug).Scan(&c.ID, &c.Slug, &c.SortOrder, &c.NameEN, &c.NamePL, &c.NameRU, &c.NameUK)
	if err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

// CreateCatalogCategory inserts a new admin-managed category.
func (s *Store) CreateCatalogCategory(ctx context.Context, c *domain.CatalogCategory) error {
	c.ID = kernel.NewCatalogCategoryID()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO catalog_categories (id, slug, sort_order, name_en, name_pl, name_ru, name_uk)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.Slug, c.SortOrder, c.NameEN, c.NamePL, c.NameRU, c.NameUK)

	return translateError(err)
}
