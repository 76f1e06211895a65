// Package kernel holds the types every other package in this module depends
// on: typed identifiers, money, quantity, language, and the error taxonomy.
// Nothing here talks to Postgres, Redis, or an LLM.
package kernel

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// id is embedded by every typed identifier so they all get the same
// Value/Scan/String/MarshalJSON behavior without repeating it per type.
type id uuid.UUID

func newID(u uuid.UUID) id { return id(u) }

func (i id) UUID() uuid.UUID { return uuid.UUID(i) }

func (i id) String() string { return uuid.UUID(i).String() }

func (i id) IsZero() bool { return uuid.UUID(i) == uuid.Nil }

func (i id) Value() (driver.Value, error) {
	return uuid.UUID(i).String(), nil
}

func (i *id) Scan(src any) error {
	u, err := scanUUID(src)
	if err != nil {
		return err
	}
	*i = id(u)
	return nil
}

func (i id) MarshalJSON() ([]byte, error) {
	return []byte(`"` + uuid.UUID(i).String() + `"`), nil
}

func (i *id) UnmarshalJSON(b []byte) error {
	u, err := uuid.ParseBytes(trimQuotes(b))
	if err != nil {
		return fmt.Errorf("kernel: invalid identifier: %w", err)
	}
	*i = id(u)
	return nil
}

func trimQuotes(b []byte) []byte {
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		return b[1 : len(b)-1]
	}
	return b
}

func scanUUID(src any) (uuid.UUID, error) {
	switch v := src.(type) {
	case nil:
		return uuid.Nil, nil
	case string:
		return uuid.Parse(v)
	case [16]byte:
		return uuid.FromBytes(v[:])
	case []byte:
		return uuid.ParseBytes(v)
	default:
		return uuid.Nil, fmt.Errorf("kernel: cannot scan %T into identifier", src)
	}
}

// TenantID identifies a tenant account. Every row that belongs to a tenant
// carries one; repositories filter on it, never trust a caller-supplied copy
// without also checking the authenticated principal's own TenantID.
type TenantID struct{ id }

func NewTenantID() TenantID        { return TenantID{newID(uuid.New())} }
func TenantIDFrom(u uuid.UUID) TenantID { return TenantID{newID(u)} }

// UserID identifies a tenant-scoped user (the staff member logging in to run
// a kitchen), distinct from AdminID.
type UserID struct{ id }

func NewUserID() UserID        { return UserID{newID(uuid.New())} }
func UserIDFrom(u uuid.UUID) UserID { return UserID{newID(u)} }

// AdminID identifies a platform operator. Admins are never tenant-scoped and
// never share a token domain with UserID.
type AdminID struct{ id }

func NewAdminID() AdminID        { return AdminID{newID(uuid.New())} }
func AdminIDFrom(u uuid.UUID) AdminID { return AdminID{newID(u)} }

// RefreshTokenID identifies a persisted refresh token record.
type RefreshTokenID struct{ id }

func NewRefreshTokenID() RefreshTokenID        { return RefreshTokenID{newID(uuid.New())} }
func RefreshTokenIDFrom(u uuid.UUID) RefreshTokenID { return RefreshTokenID{newID(u)} }

// CatalogCategoryID identifies a platform-curated ingredient category.
type CatalogCategoryID struct{ id }

func NewCatalogCategoryID() CatalogCategoryID        { return CatalogCategoryID{newID(uuid.New())} }
func CatalogCategoryIDFrom(u uuid.UUID) CatalogCategoryID { return CatalogCategoryID{newID(u)} }

// CatalogIngredientID identifies a canonical, platform-wide ingredient.
type CatalogIngredientID struct{ id }

func NewCatalogIngredientID() CatalogIngredientID        { return CatalogIngredientID{newID(uuid.New())} }
func CatalogIngredientIDFrom(u uuid.UUID) CatalogIngredientID { return CatalogIngredientID{newID(u)} }

// DictionaryEntryID identifies a persisted translation-dictionary row.
type DictionaryEntryID struct{ id }

func NewDictionaryEntryID() DictionaryEntryID        { return DictionaryEntryID{newID(uuid.New())} }
func DictionaryEntryIDFrom(u uuid.UUID) DictionaryEntryID { return DictionaryEntryID{newID(u)} }

// TenantIngredientID identifies a tenant's adoption of a catalog ingredient.
type TenantIngredientID struct{ id }

func NewTenantIngredientID() TenantIngredientID        { return TenantIngredientID{newID(uuid.New())} }
func TenantIngredientIDFrom(u uuid.UUID) TenantIngredientID { return TenantIngredientID{newID(u)} }

// InventoryBatchID identifies one received lot of a tenant ingredient.
type InventoryBatchID struct{ id }

func NewInventoryBatchID() InventoryBatchID        { return InventoryBatchID{newID(uuid.New())} }
func InventoryBatchIDFrom(u uuid.UUID) InventoryBatchID { return InventoryBatchID{newID(u)} }

// RecipeID identifies a tenant's recipe.
type RecipeID struct{ id }

func NewRecipeID() RecipeID        { return RecipeID{newID(uuid.New())} }
func RecipeIDFrom(u uuid.UUID) RecipeID { return RecipeID{newID(u)} }

// RecipeIngredientID identifies one ingredient line within a recipe.
type RecipeIngredientID struct{ id }

func NewRecipeIngredientID() RecipeIngredientID        { return RecipeIngredientID{newID(uuid.New())} }
func RecipeIngredientIDFrom(u uuid.UUID) RecipeIngredientID { return RecipeIngredientID{newID(u)} }

// RecipeTranslationID identifies one non-default-language rendering of a recipe.
type RecipeTranslationID struct{ id }

func NewRecipeTranslationID() RecipeTranslationID        { return RecipeTranslationID{newID(uuid.New())} }
func RecipeTranslationIDFrom(u uuid.UUID) RecipeTranslationID { return RecipeTranslationID{newID(u)} }

// AIInsightsID identifies a recipe's AI-generated insights for one language.
type AIInsightsID struct{ id }

func NewAIInsightsID() AIInsightsID        { return AIInsightsID{newID(uuid.New())} }
func AIInsightsIDFrom(u uuid.UUID) AIInsightsID { return AIInsightsID{newID(u)} }

// DishID identifies a sellable dish built from a recipe.
type DishID struct{ id }

func NewDishID() DishID        { return DishID{newID(uuid.New())} }
func DishIDFrom(u uuid.UUID) DishID { return DishID{newID(u)} }

// DishSaleID identifies one recorded sale of a dish.
type DishSaleID struct{ id }

func NewDishSaleID() DishSaleID        { return DishSaleID{newID(uuid.New())} }
func DishSaleIDFrom(u uuid.UUID) DishSaleID { return DishSaleID{newID(u)} }

// InventoryLossID identifies one write-off recorded by the expiration sweep.
type InventoryLossID struct{ id }

func NewInventoryLossID() InventoryLossID        { return InventoryLossID{newID(uuid.New())} }
func InventoryLossIDFrom(u uuid.UUID) InventoryLossID { return InventoryLossID{newID(u)} }
