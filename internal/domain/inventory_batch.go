package domain

import (
	"time"

	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// InventoryBatch is one received lot of a tenant ingredient. Quantity only
// ever decreases under sale consumption or the expiration sweep; manual
// corrections and new receipts are the sole ways it increases.
type InventoryBatch struct {
	ID                  kernel.InventoryBatchID    `json:"id"`
	TenantID            kernel.TenantID            `json:"tenant_id"`
	UserID              kernel.UserID              `json:"user_id"`
	CatalogIngredientID kernel.CatalogIngredientID `json:"catalog_ingredient_id"`
	PricePerUnitCents   kernel.Money               `json:"price_per_unit_cents"`
	Quantity            kernel.Quantity            `json:"quantity"`
	ReceivedAt          time.Time                  `json:"received_at"`
	ExpiresAt           *time.Time                 `json:"expires_at,omitempty"`
	CreatedAt           time.Time                  `json:"created_at"`
	UpdatedAt           time.Time                  `json:"updated_at"`
}

func (b InventoryBatch) Expired(now time.Time) bool {
	return b.ExpiresAt != nil && now.After(*b.ExpiresAt)
}

// Value returns the remaining quantity's cost at this batch's unit price.
func (b InventoryBatch) Value() kernel.Money {
	return b.Quantity.MulMoney(b.PricePerUnitCents)
}
