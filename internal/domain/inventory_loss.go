package domain

import (
	"time"

	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// InventoryLoss is an immutable write-off recorded when the expiration
// sweep zeroes out a batch still holding quantity past its expires_at.
type InventoryLoss struct {
	ID                  kernel.InventoryLossID     `json:"id"`
	TenantID            kernel.TenantID            `json:"tenant_id"`
	CatalogIngredientID kernel.CatalogIngredientID `json:"catalog_ingredient_id"`
	BatchID             kernel.InventoryBatchID    `json:"batch_id"`
	QuantityLost        kernel.Quantity            `json:"quantity_lost"`
	ValueCents          kernel.Money               `json:"value_cents"`
	RecordedAt          time.Time                  `json:"recorded_at"`
}
