// Package llm abstracts the external LLM collaborator behind a narrow
// interface. Callers (package catalog's ingredient pipeline, package
// aiinsights) depend on this interface, never on genai directly, so the
// graceful-degrade-vs-hard-fail decision stays in the caller where the
// domain context lives.
package llm

import "context"

// ClassificationResult is the outcome of classifying an ingredient's
// category and unit.
type ClassificationResult struct {
	CategorySlug string
	Unit         string
}

// TranslationResult holds the three target-language names the translation
// step produces in one call.
type TranslationResult struct {
	NamePL string
	NameRU string
	NameUK string
}

// RecipeTranslationResult holds a recipe's name and instructions rendered
// into Polish, Russian, and Ukrainian in one call.
type RecipeTranslationResult struct {
	NamePL, InstructionsPL string
	NameRU, InstructionsRU string
	NameUK, InstructionsUK string
}

// InsightsResult is the structured output of the recipe-insights call,
// mirroring the fixed JSON contract the prompt requires of the model.
type InsightsResult struct {
	Steps           []string
	ValidationErrors   []string
	ValidationWarnings []string
	ValidationMissing  []string
	SuggestionFixes         []string
	SuggestionSubstitutions []string
	FeasibilityScore int
}

// Client is the contract every ingredient-onboarding and recipe-insights
// operation calls through. A call returning a kernel.ErrUpstreamTimeout or
// kernel.ErrUpstreamError is the caller's signal to apply its own
// graceful-degrade-or-hard-fail policy; Client itself never decides that.
type Client interface {
	// NormalizeIngredientName asks for the canonical English spelling of a
	// free-text ingredient name in an arbitrary source language.
	NormalizeIngredientName(ctx context.Context, rawInput string) (string, error)

	// TranslateIngredientName asks for Polish/Russian/Ukrainian names of a
	// canonical English ingredient name, in one call.
	TranslateIngredientName(ctx context.Context, nameEN string) (TranslationResult, error)

	// ClassifyIngredient asks for a category slug and unit for a canonical
	// English ingredient name.
	ClassifyIngredient(ctx context.Context, nameEN string) (ClassificationResult, error)

	// TranslateRecipe asks for Polish/Russian/Ukrainian renderings of a
	// recipe's name and instructions, in one call. Runs detached from the
	// originating request; a failure here is the caller's signal to leave
	// that language's row missing rather than invent one.
	TranslateRecipe(ctx context.Context, nameDefault, instructionsDefault string) (RecipeTranslationResult, error)

	// GenerateRecipeInsights asks for validated cooking steps, a feasibility
	// report, and suggestions for a recipe, conditioned on pre-validation
	// findings already computed by the caller.
	GenerateRecipeInsights(ctx context.Context, req InsightsRequest) (InsightsResult, error)
}

// InsightsRequest carries everything the recipe-insights prompt needs: the
// recipe's own text plus whatever package aiinsights's rule-based
// pre-validation already found, so the model is conditioned on it instead
// of rediscovering the same issues.
type InsightsRequest struct {
	RecipeName        string
	Instructions      string
	Language          string
	IngredientNames   []string
	PreValidationNotes []string
}
