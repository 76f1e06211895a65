package domain

import (
	"time"

	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// RecipeStatus tracks a recipe through draft, publication, and archival.
type RecipeStatus string

const (
	RecipeStatusDraft    RecipeStatus = "draft"
	RecipeStatusPublished RecipeStatus = "published"
	RecipeStatusArchived  RecipeStatus = "archived"
)

func (s RecipeStatus) Valid() bool {
	switch s {
	case RecipeStatusDraft, RecipeStatusPublished, RecipeStatusArchived:
		return true
	default:
		return false
	}
}

// Recipe is a tenant's own formulation. Cost fields are a snapshot computed
// from its RecipeIngredient lines at the moment the recipe was last written,
// never recomputed lazily at read time.
type Recipe struct {
	ID                 kernel.RecipeID `json:"id"`
	TenantID           kernel.TenantID `json:"tenant_id"`
	UserID             kernel.UserID   `json:"user_id"`
	NameDefault        string          `json:"name_default"`
	InstructionsDefault string         `json:"instructions_default"`
	LanguageDefault    kernel.Language `json:"language_default"`
	Servings           int             `json:"servings"`
	PrepTimeMinutes    *int            `json:"prep_time_minutes,omitempty"`
	CookTimeMinutes    *int            `json:"cook_time_minutes,omitempty"`
	Status             RecipeStatus    `json:"status"`
	IsPublic           bool            `json:"is_public"`
	PublishedAt        *time.Time      `json:"published_at,omitempty"`
	TotalCostCents     kernel.Money    `json:"total_cost_cents"`
	CostPerServingCents kernel.Money   `json:"cost_per_serving_cents"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// RecipeIngredient is one line of a recipe's ingredient list. CostAtUseCents
// is frozen at authoring time — editing the recipe rewrites every line, it
// never adjusts one in place, so the cost snapshot can't drift out of sync
// with what was actually typed in.
type RecipeIngredient struct {
	ID                  kernel.RecipeIngredientID  `json:"id"`
	RecipeID            kernel.RecipeID            `json:"recipe_id"`
	CatalogIngredientID kernel.CatalogIngredientID `json:"catalog_ingredient_id"`
	Quantity            kernel.Quantity            `json:"quantity"`
	Unit                Unit                       `json:"unit"`
	CostAtUseCents      kernel.Money               `json:"cost_at_use_cents"`
	NameSnapshot        string                     `json:"name_snapshot"`
}

// TranslationSource distinguishes an AI-produced translation from one a
// human operator typed in directly; both share the same storage row.
type TranslationSource string

const (
	TranslationSourceAI    TranslationSource = "ai"
	TranslationSourceHuman TranslationSource = "human"
)

// RecipeTranslation holds a non-default-language rendering of a recipe's
// name and instructions. The default language is never duplicated into a
// translation row — callers fall back to Recipe.NameDefault instead.
type RecipeTranslation struct {
	ID           kernel.RecipeTranslationID `json:"id"`
	RecipeID     kernel.RecipeID           `json:"recipe_id"`
	Language     kernel.Language           `json:"language"`
	Name         string                    `json:"name"`
	Instructions string                    `json:"instructions"`
	Source       TranslationSource         `json:"source"`
	TranslatedAt time.Time                 `json:"translated_at"`
}
