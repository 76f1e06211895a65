package domain

import "github.com/iogar-platform/kitchenledger/internal/kernel"

// TenantIngredient is a tenant's adoption of a catalog ingredient: their own
// price, supplier, and optional overrides, layered on top of the shared
// catalog row. Only one active TenantIngredient may exist per
// (tenant_id, catalog_ingredient_id) pair.
type TenantIngredient struct {
	ID                   kernel.TenantIngredientID  `json:"id"`
	TenantID             kernel.TenantID            `json:"tenant_id"`
	CatalogIngredientID  kernel.CatalogIngredientID `json:"catalog_ingredient_id"`
	PriceCents           *kernel.Money              `json:"price_cents,omitempty"`
	Supplier             *string                    `json:"supplier,omitempty"`
	CustomUnit           *Unit                      `json:"custom_unit,omitempty"`
	CustomShelfLifeDays  *int                       `json:"custom_shelf_life_days,omitempty"`
	Notes                *string                    `json:"notes,omitempty"`
	IsActive             bool                       `json:"is_active"`
}
