package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// CreateDish inserts a new sellable dish built from a tenant recipe.
func (s *Store) CreateDish(ctx context.Context, d *domain.Dish) error {
	d.ID = kernel.NewDishID()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO dishes (id, tenant_id, user_id, recipe_id, name, selling_price_cents, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, d.ID, d.TenantID, d.UserID, d.RecipeID, d.Name, d.SellingPriceCents, d.IsActive)

	return translateError(err)
}

// GetDish returns a dish scoped to the tenant, used before recording a sale.
func (s *Store) GetDish(ctx context.Context, tenantID kernel.TenantID, id kernel.DishID) (*domain.Dish, error) {
	return s.scanDish(ctx, s.pool, `
		SELECT id, tenant_id, user_id, recipe_id, name, selling_price_cents, is_active
		FROM dishes WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)
}

// GetDishForUpdateTx locks a dish row as part of the sale transaction so a
// concurrent deactivation can't race the FIFO deduction.
func (s *Store) GetDishForUpdateTx(ctx context.Context, tx pgx.Tx, tenantID kernel.TenantID, id kernel.DishID) (*domain.Dish, error) {
	return s.scanDish(ctx, tx, `
		SELECT id, tenant_id, user_id, recipe_id, name, selling_price_cents, is_active
		FROM dishes WHERE tenant_id = $1 AND id = $2 FOR UPDATE
	`, tenantID, id)
}

func (s *Store) scanDish(ctx context.Context, exec commandExecutor, query string, args ...any) (*domain.Dish, error) {
	var d domain.Dish
	err := exec.QueryRow(ctx, query, args...).Scan(&d.ID, &d.TenantID, &d.UserID, &d.RecipeID, &d.Name, &d.SellingPriceCents, &d.IsActive)
	if err != nil {
		return nil, translateError(err)
	}
	return &d, nil
}

// ListDishes returns every active dish of a tenant.
func (s *Store) ListDishes(ctx context.Context, tenantID kernel.TenantID) ([]domain.Dish, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, user_id, recipe_id, name, selling_price_cents, is_active
		FROM dishes WHERE tenant_id = $1 AND is_active ORDER BY name ASC
	`, tenantID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []domain.Dish
	for rows.Next() {
		var d domain.Dish
		if err := rows.Scan(&d.ID, &d.TenantID, &d.UserID, &d.RecipeID, &d.Name, &d.SellingPriceCents, &d.IsActive); err != nil {
			return nil, translateError(err)
		}
		out = append(out, d)
	}
	return out, translateError(rows.Err())
}

// DeactivateDish deactivates a dish instead of deleting it, preserving any
// DishSale history that references it.
func (s *Store) DeactivateDish(ctx context.Context, tenantID kernel.TenantID, id kernel.DishID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE dishes SET is_active = false WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}
