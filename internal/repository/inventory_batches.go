package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// CreateInventoryBatch inserts a newly received batch.
func (s *Store) CreateInventoryBatch(ctx context.Context, b *domain.InventoryBatch) error {
	b.ID = kernel.NewInventoryBatchID()
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO inventory_batches
			(id, tenant_id, user_id, catalog_ingredient_id, price_per_unit_cents, quantity, received_at, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, b.ID, b.TenantID, b.UserID, b.CatalogIngredientID, b.PricePerUnitCents, b.Quantity, b.ReceivedAt, b.ExpiresAt, now, now)

	return translateError(err)
}

// GetInventoryBatch returns a batch scoped to the tenant.
func (s *Store) GetInventoryBatch(ctx context.Context, tenantID kernel.TenantID, id kernel.InventoryBatchID) (*domain.InventoryBatch, error) {
	return s.scanBatch(ctx, s.pool, `
		SELECT id, tenant_id, user_id, catalog_ingredient_id, price_per_unit_cents, quantity, received_at, expires_at, created_at, updated_at
		FROM inventory_batches WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)
}

func (s *Store) scanBatch(ctx context.Context, exec commandExecutor, query string, args ...any) (*domain.InventoryBatch, error) {
	var b domain.InventoryBatch
	err := exec.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.TenantID, &b.UserID, &b.CatalogIngredientID, &b.PricePerUnitCents, &b.Quantity, &b.ReceivedAt, &b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &b, nil
}

// ListInventoryBatches returns a tenant's batches. The visible pool is the
// whole restaurant's inventory, not the authoring user's, per §4.4's shared-
// inventory rule; a zero catalogIngredientID lists every ingredient, a
// non-zero one narrows to that ingredient's batches.
func (s *Store) ListInventoryBatches(ctx context.Context, tenantID kernel.TenantID, catalogIngredientID kernel.CatalogIngredientID) ([]domain.InventoryBatch, error) {
	var rows pgx.Rows
	var err error
	if catalogIngredientID.IsZero() {
		rows, err = s.pool.Query(ctx, `
			SELECT id, tenant_id, user_id, catalog_ingredient_id, price_per_unit_cents, quantity, received_at, expires_at, created_at, updated_at
			FROM inventory_batches WHERE tenant_id = $1
			ORDER BY received_at ASC, created_at ASC, id ASC
		`, tenantID)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT id, tenant_id, user_id, catalog_ingredient_id, price_per_unit_cents, quantity, received_at, expires_at, created_at, updated_at
			FROM inventory_batches WHERE tenant_id = $1 AND catalog_ingredient_id = $2
			ORDER BY received_at ASC, created_at ASC, id ASC
		`, tenantID, catalogIngredientID)
	}
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()
	return scanBatches(rows)
}

// ListConsumableBatchesForUpdate locks and returns every batch of a tenant
// ingredient with quantity > 0, ordered FIFO (received_at ASC, created_at
// ASC, id ASC as the final tiebreaker). Must be called inside a
// SERIALIZABLE transaction: FOR UPDATE alone is not enough to stop two
// concurrent sales from both reading the same pre-consumption quantity.
func (s *Store) ListConsumableBatchesForUpdate(ctx context.Context, tx pgx.Tx, tenantID kernel.TenantID, catalogIngredientID kernel.CatalogIngredientID) ([]domain.InventoryBatch, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, tenant_id, user_id, catalog_ingredient_id, price_per_unit_cents, quantity, received_at, expires_at, created_at, updated_at
		FROM inventory_batches
		WHERE tenant_id = $1 AND catalog_ingredient_id = $2 AND quantity > 0
		ORDER BY received_at ASC, created_at ASC, id ASC
		FOR UPDATE
	`, tenantID, catalogIngredientID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()
	return scanBatches(rows)
}

func scanBatches(rows pgx.Rows) ([]domain.InventoryBatch, error) {
	var out []domain.InventoryBatch
	for rows.Next() {
		var b domain.InventoryBatch
		if err := rows.Scan(&b.ID, &b.TenantID, &b.UserID, &b.CatalogIngredientID, &b.PricePerUnitCents, &b.Quantity, &b.ReceivedAt, &b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, translateError(err)
		}
		out = append(out, b)
	}
	return out, translateError(rows.Err())
}

// ListExpiredBatches returns every batch past its expiry, across all
// tenant ingredients, for the expiration sweep.
func (s *Store) ListExpiredBatches(ctx context.Context, tenantID kernel.TenantID, now time.Time) ([]domain.InventoryBatch, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, user_id, catalog_ingredient_id, price_per_unit_cents, quantity, received_at, expires_at, created_at, updated_at
		FROM inventory_batches
		WHERE tenant_id = $1 AND expires_at IS NOT NULL AND expires_at <= $2 AND quantity > 0
		ORDER BY expires_at ASC
	`, tenantID, now)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()
	return scanBatches(rows)
}

// ConsumeBatchQuantityTx decrements a batch's remaining quantity as part of
// the caller's FIFO sale transaction.
func (s *Store) ConsumeBatchQuantityTx(ctx context.Context, tx pgx.Tx, batchID kernel.InventoryBatchID, newQuantity kernel.Quantity) error {
	_, err := tx.Exec(ctx, `
		UPDATE inventory_batches SET quantity = $2, updated_at = $3 WHERE id = $1
	`, batchID, newQuantity, time.Now().UTC())
	return translateError(err)
}

// DeleteExpiredBatchTx removes a swept batch outright as part of the
// expiration sweep's transaction, after its loss row has been recorded —
// the spec's expiration lifecycle deletes the batch, unlike FIFO sale
// consumption, which may leave a drained batch at zero.
func (s *Store) DeleteExpiredBatchTx(ctx context.Context, tx pgx.Tx, batchID kernel.InventoryBatchID) error {
	_, err := tx.Exec(ctx, `DELETE FROM inventory_batches WHERE id = $1`, batchID)
	return translateError(err)
}

// UpdateInventoryBatch rewrites a batch's receipt-time fields (a correction,
// not a consumption).
func (s *Store) UpdateInventoryBatch(ctx context.Context, b *domain.InventoryBatch) error {
	b.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx, `
		UPDATE inventory_batches SET price_per_unit_cents = $3, quantity = $4, received_at = $5, expires_at = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2
	`, b.TenantID, b.ID, b.PricePerUnitCents, b.Quantity, b.ReceivedAt, b.ExpiresAt, b.UpdatedAt)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

// DeleteInventoryBatch removes a batch outright (manual correction, not consumption).
func (s *Store) DeleteInventoryBatch(ctx context.Context, tenantID kernel.TenantID, id kernel.InventoryBatchID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM inventory_batches WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}
