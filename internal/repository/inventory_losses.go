package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// CreateInventoryLossTx records a write-off as part of the expiration sweep
// transaction, immediately before the backing batch is deleted.
func (s *Store) CreateInventoryLossTx(ctx context.Context, tx pgx.Tx, loss *domain.InventoryLoss) error {
	loss.ID = kernel.NewInventoryLossID()

	_, err := tx.Exec(ctx, `
		INSERT INTO inventory_losses (id, tenant_id, catalog_ingredient_id, batch_id, quantity_lost, value_cents, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, loss.ID, loss.TenantID, loss.CatalogIngredientID, loss.BatchID, loss.QuantityLost, loss.ValueCents, loss.RecordedAt)

	return translateError(err)
}

// ListInventoryLossesInPeriod returns every write-off in a window, the loss
// report's raw input.
func (s *Store) ListInventoryLossesInPeriod(ctx context.Context, tenantID kernel.TenantID, since time.Time) ([]domain.InventoryLoss, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, catalog_ingredient_id, batch_id, quantity_lost, value_cents, recorded_at
		FROM inventory_losses WHERE tenant_id = $1 AND recorded_at >= $2 ORDER BY recorded_at ASC
	`, tenantID, since)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []domain.InventoryLoss
	for rows.Next() {
		var l domain.InventoryLoss
		if err := rows.Scan(&l.ID, &l.TenantID, &l.CatalogIngredientID, &l.BatchID, &l.QuantityLost, &l.ValueCents, &l.RecordedAt); err != nil {
			return nil, translateError(err)
		}
		out = append(out, l)
	}
	return out, translateError(rows.Err())
}

// SumInventoryReceiptsInPeriod totals the cents value of batches received in
// a window, the loss report's denominator for waste percentage. Summed in
// Go rather than in SQL so the multiply-and-round rule stays identical to
// every other costing computation (kernel.Quantity.MulMoney).
func (s *Store) SumInventoryReceiptsInPeriod(ctx context.Context, tenantID kernel.TenantID, since time.Time) (kernel.Money, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT price_per_unit_cents, quantity
		FROM inventory_batches WHERE tenant_id = $1 AND received_at >= $2
	`, tenantID, since)
	if err != nil {
		return 0, translateError(err)
	}
	defer rows.Close()

	var total kernel.Money
	for rows.Next() {
		var price kernel.Money
		var quantity kernel.Quantity
		if err := rows.Scan(&price, &quantity); err != nil {
			return 0, translateError(err)
		}
		total = total.Add(quantity.MulMoney(price))
	}
	return total, translateError(rows.Err())
}
