package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// CreateTenantIngredient adopts a catalog ingredient into a tenant's own
// reference list. The partial unique index on (tenant_id,
// catalog_ingredient_id) WHERE is_active surfaces a re-adoption as
// ErrConflict.
func (s *Store) CreateTenantIngredient(ctx context.Context, ti *domain.TenantIngredient) error {
	ti.ID = kernel.NewTenantIngredientID()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO tenant_ingredients
			(id, tenant_id, catalog_ingredient_id, price_cents, supplier, custom_unit, custom_shelf_life_days, notes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, ti.ID, ti.TenantID, ti.CatalogIngredientID, ti.PriceCents, ti.Supplier, ti.CustomUnit, ti.CustomShelfLifeDays, ti.Notes, ti.IsActive)

	return translateError(err)
}

// GetTenantIngredient returns a tenant ingredient scoped to the tenant.
func (s *Store) GetTenantIngredient(ctx context.Context, tenantID kernel.TenantID, id kernel.TenantIngredientID) (*domain.TenantIngredient, error) {
	var ti domain.TenantIngredient
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, catalog_ingredient_id, price_cents, supplier, custom_unit, custom_shelf_life_days, notes, is_active
		FROM tenant_ingredients WHERE tenant_id = $1 AND id = $2
	`, tenantID, id).Scan(&ti.ID, &ti.TenantID, &ti.CatalogIngredientID, &ti.PriceCents, &ti.Supplier, &ti.CustomUnit, &ti.CustomShelfLifeDays, &ti.Notes, &ti.IsActive)
	if err != nil {
		return nil, translateError(err)
	}
	return &ti, nil
}

// GetTenantIngredientByCatalogID resolves a tenant's own price/supplier row
// for a catalog ingredient — the recipe authoring cost snapshot's lookup.
func (s *Store) GetTenantIngredientByCatalogID(ctx context.Context, tenantID kernel.TenantID, catalogIngredientID kernel.CatalogIngredientID) (*domain.TenantIngredient, error) {
	var ti domain.TenantIngredient
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, catalog_ingredient_id, price_cents, supplier, custom_unit, custom_shelf_life_days, notes, is_active
		FROM tenant_ingredients WHERE tenant_id = $1 AND catalog_ingredient_id = $2 AND is_active
	`, tenantID, catalogIngredientID).Scan(&ti.ID, &ti.TenantID, &ti.CatalogIngredientID, &ti.PriceCents, &ti.Supplier, &ti.CustomUnit, &ti.CustomShelfLifeDays, &ti.Notes, &ti.IsActive)
	if err != nil {
		return nil, translateError(err)
	}
	return &ti, nil
}

// ListTenantIngredients returns every active tenant ingredient for the tenant.
func (s *Store) ListTenantIngredients(ctx context.Context, tenantID kernel.TenantID) ([]domain.TenantIngredient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, catalog_ingredient_id, price_cents, supplier, custom_unit, custom_shelf_life_days, notes, is_active
		FROM tenant_ingredients WHERE tenant_id = $1 AND is_active ORDER BY id ASC
	`, tenantID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []domain.TenantIngredient
	for rows.Next() {
		var ti domain.TenantIngredient
		if err := rows.Scan(&ti.ID, &ti.TenantID, &ti.CatalogIngredientID, &ti.PriceCents, &ti.Supplier, &ti.CustomUnit, &ti.CustomShelfLifeDays, &ti.Notes, &ti.IsActive); err != nil {
			return nil, translateError(err)
		}
		out = append(out, ti)
	}
	return out, translateError(rows.Err())
}

// UpdateTenantIngredient rewrites a tenant ingredient's mutable fields.
func (s *Store) UpdateTenantIngredient(ctx context.Context, ti *domain.TenantIngredient) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE tenant_ingredients SET price_cents = $3, supplier = $4, custom_unit = $5, custom_shelf_life_days = $6, notes = $7
		WHERE tenant_id = $1 AND id = $2
	`, ti.TenantID, ti.ID, ti.PriceCents, ti.Supplier, ti.CustomUnit, ti.CustomShelfLifeDays, ti.Notes)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

// DeleteTenantIngredient soft-deletes a tenant ingredient.
func (s *Store) DeleteTenantIngredient(ctx context.Context, tenantID kernel.TenantID, id kernel.TenantIngredientID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE tenant_ingredients SET is_active = false WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

// BulkDeleteTenantIngredients soft-deletes every id in the batch belonging
// to the tenant, the convenience wrapper the UI's multi-select uses.
func (s *Store) BulkDeleteTenantIngredients(ctx context.Context, tenantID kernel.TenantID, ids []kernel.TenantIngredientID) error {
	rawIDs := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		rawIDs[i] = id.UUID()
	}

	_, err := s.pool.Exec(ctx, `
		UPDATE tenant_ingredients SET is_active = false WHERE tenant_id = $1 AND id = ANY($2)
	`, tenantID, rawIDs)
	return translateError(err)
}
