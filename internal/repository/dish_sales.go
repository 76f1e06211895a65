package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// CreateDishSaleTx inserts an immutable sale record as part of the FIFO
// deduction transaction — it is never written outside that transaction, so
// a sale row can't exist without the inventory consumption that backs it.
func (s *Store) CreateDishSaleTx(ctx context.Context, tx pgx.Tx, sale *domain.DishSale) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO dish_sales (id, tenant_id, dish_id, user_id, quantity, selling_price_cents, recipe_cost_cents, profit_cents, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, sale.ID, sale.TenantID, sale.DishID, sale.UserID, sale.Quantity, sale.SellingPriceCents, sale.RecipeCostCents, sale.ProfitCents, sale.SoldAt)
	return translateError(err)
}

// ListDishSalesInPeriod returns every sale of a tenant's dishes within a
// window, the menu-engineering analysis's raw input.
func (s *Store) ListDishSalesInPeriod(ctx context.Context, tenantID kernel.TenantID, since time.Time) ([]domain.DishSale, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, dish_id, user_id, quantity, selling_price_cents, recipe_cost_cents, profit_cents, sold_at
		FROM dish_sales WHERE tenant_id = $1 AND sold_at >= $2 ORDER BY sold_at ASC
	`, tenantID, since)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []domain.DishSale
	for rows.Next() {
		var sale domain.DishSale
		if err := rows.Scan(&sale.ID, &sale.TenantID, &sale.DishID, &sale.UserID, &sale.Quantity, &sale.SellingPriceCents, &sale.RecipeCostCents, &sale.ProfitCents, &sale.SoldAt); err != nil {
			return nil, translateError(err)
		}
		out = append(out, sale)
	}
	return out, translateError(rows.Err())
}
