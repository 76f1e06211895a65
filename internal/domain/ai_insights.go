package domain

import (
	"time"

	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// RecipeAIInsights holds the LLM-generated analysis for a recipe in one
// language: normalized cooking steps, a validation report, suggestions, and
// a feasibility score. Unique per (recipe_id, language); refreshing
// overwrites the row rather than appending a new one.
type RecipeAIInsights struct {
	ID              kernel.AIInsightsID `json:"id"`
	RecipeID        kernel.RecipeID     `json:"recipe_id"`
	Language        kernel.Language     `json:"language"`
	StepsJSON       string              `json:"steps_json"`
	ValidationJSON  string              `json:"validation_json"`
	SuggestionsJSON string              `json:"suggestions_json"`
	FeasibilityScore int                `json:"feasibility_score"`
	Model           string              `json:"model"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// AssistantState drives the tenant onboarding wizard. It is scope-local and
// not load-bearing for tenant-isolation correctness, unlike every other
// entity in this package.
type AssistantState struct {
	TenantID kernel.TenantID `json:"tenant_id"`
	Step     string          `json:"step"`
	Progress int             `json:"progress"`
	Payload  string          `json:"payload"`
}
