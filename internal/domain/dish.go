package domain

import (
	"time"

	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// Dish is a sellable item built from one of the tenant's own recipes.
// Dishes with recorded sales are deactivated rather than deleted so
// DishSale history stays intact.
type Dish struct {
	ID                kernel.DishID   `json:"id"`
	TenantID          kernel.TenantID `json:"tenant_id"`
	UserID            kernel.UserID   `json:"user_id"`
	RecipeID          kernel.RecipeID `json:"recipe_id"`
	Name              string          `json:"name"`
	SellingPriceCents kernel.Money    `json:"selling_price_cents"`
	IsActive          bool            `json:"is_active"`
}

// DishSale is an immutable record of one sale event. ProfitCents is derived
// at write time as (selling_price - recipe_cost) * quantity and never
// recomputed afterward, even if the recipe's cost later changes.
type DishSale struct {
	ID               kernel.DishSaleID `json:"id"`
	TenantID         kernel.TenantID   `json:"tenant_id"`
	DishID           kernel.DishID     `json:"dish_id"`
	UserID           kernel.UserID     `json:"user_id"`
	Quantity         int               `json:"quantity"`
	SellingPriceCents kernel.Money     `json:"selling_price_cents"`
	RecipeCostCents  kernel.Money      `json:"recipe_cost_cents"`
	ProfitCents      kernel.Money      `json:"profit_cents"`
	SoldAt           time.Time         `json:"sold_at"`
}

// NewDishSale computes the derived profit field per the costing invariant:
// profit = (selling_price - recipe_cost) * quantity.
func NewDishSale(id kernel.DishSaleID, tenantID kernel.TenantID, dishID kernel.DishID, userID kernel.UserID, quantity int, sellingPrice, recipeCost kernel.Money, soldAt time.Time) DishSale {
	unitProfit := sellingPrice.Sub(recipeCost)
	return DishSale{
		ID:                id,
		TenantID:          tenantID,
		DishID:            dishID,
		UserID:            userID,
		Quantity:          quantity,
		SellingPriceCents: sellingPrice,
		RecipeCostCents:   recipeCost,
		ProfitCents:       unitProfit.Mul(int64(quantity)),
		SoldAt:            soldAt,
	}
}
