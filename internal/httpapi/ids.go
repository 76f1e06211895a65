package httpapi

import (
	"github.com/google/uuid"

	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// parseUUID centralizes the "bad path/body id" validation error every
// handler needs when decoding a caller-supplied identifier.
func parseUUID(raw string) (uuid.UUID, error) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, kernel.ValidationErrorf("invalid identifier %q", raw)
	}
	return u, nil
}

func parseDishID(raw string) (kernel.DishID, error) {
	u, err := parseUUID(raw)
	if err != nil {
		return kernel.DishID{}, err
	}
	return kernel.DishIDFrom(u), nil
}

func parseRecipeID(raw string) (kernel.RecipeID, error) {
	u, err := parseUUID(raw)
	if err != nil {
		return kernel.RecipeID{}, err
	}
	return kernel.RecipeIDFrom(u), nil
}

func parseCatalogIngredientID(raw string) (kernel.CatalogIngredientID, error) {
	u, err := parseUUID(raw)
	if err != nil {
		return kernel.CatalogIngredientID{}, err
	}
	return kernel.CatalogIngredientIDFrom(u), nil
}

func parseCatalogCategoryID(raw string) (kernel.CatalogCategoryID, error) {
	u, err := parseUUID(raw)
	if err != nil {
		return kernel.CatalogCategoryID{}, err
	}
	return kernel.CatalogCategoryIDFrom(u), nil
}

func parseTenantIngredientID(raw string) (kernel.TenantIngredientID, error) {
	u, err := parseUUID(raw)
	if err != nil {
		return kernel.TenantIngredientID{}, err
	}
	return kernel.TenantIngredientIDFrom(u), nil
}

func parseInventoryBatchID(raw string) (kernel.InventoryBatchID, error) {
	u, err := parseUUID(raw)
	if err != nil {
		return kernel.InventoryBatchID{}, err
	}
	return kernel.InventoryBatchIDFrom(u), nil
}
