// Package aiinsights generates and serves LLM-backed, safety-aware recipe
// analysis: a rule-based pre-validation pass, a structured model call
// conditioned on its findings, and a clamped/validated result persisted per
// (recipe, language). Generation runs detached from the request that
// triggered it, the same way package recipe's translation job does.
package aiinsights

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/llm"
	"github.com/iogar-platform/kitchenledger/internal/repository"
)

const generationJobTimeout = 30 * time.Second

// insightsRepository is the slice of *repository.Store the insights
// surface needs.
type insightsRepository interface {
	GetRecipe(ctx context.Context, tenantID kernel.TenantID, id kernel.RecipeID) (*domain.Recipe, error)
	ListRecipeIngredients(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeIngredient, error)
	GetAIInsights(ctx context.Context, recipeID kernel.RecipeID, language kernel.Language) (*domain.RecipeAIInsights, error)
	ListAIInsightsByRecipe(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeAIInsights, error)
	UpsertAIInsights(ctx context.Context, ins *domain.RecipeAIInsights) error
}

// validationBlock and suggestionsBlock are the JSON shapes persisted in
// RecipeAIInsights.ValidationJSON / SuggestionsJSON.
type validationBlock struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Missing  []string `json:"missing"`
}

type suggestionsBlock struct {
	Fixes         []string `json:"fixes"`
	Substitutions []string `json:"substitutions"`
}

// Service orchestrates recipe-insights generation and reads.
type Service struct {
	repo  insightsRepository
	llm   llm.Client
	model string
	log   zerolog.Logger
}

func NewService(repo *repository.Store, llmClient llm.Client, model string, log zerolog.Logger) *Service {
	return &Service{repo: repo, llm: llmClient, model: model, log: log}
}

// Get returns the latest generated insights for a recipe in one language,
// or kernel.ErrNotFound if generation hasn't run yet.
func (s *Service) Get(ctx context.Context, tenantID kernel.TenantID, recipeID kernel.RecipeID, lang kernel.Language) (*domain.RecipeAIInsights, error) {
	if _, err := s.repo.GetRecipe(ctx, tenantID, recipeID); err != nil {
		return nil, err
	}
	return s.repo.GetAIInsights(ctx, recipeID, lang)
}

// ListAllLanguages returns every language for which insights have been
// generated for a recipe — the per-recipe, all-languages read.
func (s *Service) ListAllLanguages(ctx context.Context, tenantID kernel.TenantID, recipeID kernel.RecipeID) ([]domain.RecipeAIInsights, error) {
	if _, err := s.repo.GetRecipe(ctx, tenantID, recipeID); err != nil {
		return nil, err
	}
	return s.repo.ListAIInsightsByRecipe(ctx, recipeID)
}

// Generate triggers insights generation for (recipe, language). If insights
// already exist and force is false, it returns immediately without spawning
// a job — the caller's 200-with-existing-result path. Otherwise it spawns a
// detached job and returns spawned=true, the caller's 202-semantics path:
// the HTTP handler responds before the job completes, and a subsequent GET
// picks up the result once it lands.
func (s *Service) Generate(ctx context.Context, tenantID kernel.TenantID, recipeID kernel.RecipeID, lang kernel.Language, force bool) (spawned bool, err error) {
	recipe, err := s.repo.GetRecipe(ctx, tenantID, recipeID)
	if err != nil {
		return false, err
	}

	if !force {
		if existing, err := s.repo.GetAIInsights(ctx, recipeID, lang); err == nil && existing != nil {
			return false, nil
		}
	}

	lines, err := s.repo.ListRecipeIngredients(ctx, recipeID)
	if err != nil {
		return false, err
	}

	s.spawnGenerationJob(recipe, lines, lang)
	return true, nil
}

func (s *Service) spawnGenerationJob(recipe *domain.Recipe, lines []domain.RecipeIngredient, lang kernel.Language) {
	ingredientNames := make([]string, 0, len(lines))
	for _, l := range lines {
		ingredientNames = append(ingredientNames, l.NameSnapshot)
	}

	stepCount := estimateStepCount(recipe.InstructionsDefault)
	notes := Run(recipe.NameDefault, recipe.InstructionsDefault, recipe.PrepTimeMinutes, recipe.CookTimeMinutes, stepCount)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Interface("panic", r).Str("recipe_id", recipe.ID.String()).Msg("recipe insights job panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), generationJobTimeout)
		defer cancel()

		result, err := s.llm.GenerateRecipeInsights(ctx, llm.InsightsRequest{
			RecipeName:         recipe.NameDefault,
			Instructions:       recipe.InstructionsDefault,
			Language:           string(lang),
			IngredientNames:    ingredientNames,
			PreValidationNotes: notes.Findings,
		})
		if err != nil {
			s.log.Warn().Err(err).Str("recipe_id", recipe.ID.String()).Str("language", string(lang)).Msg("recipe insights job failed")
			return
		}

		ins := buildInsights(recipe.ID, lang, s.model, result, notes)
		if err := s.repo.UpsertAIInsights(context.Background(), ins); err != nil {
			s.log.Warn().Err(err).Str("recipe_id", recipe.ID.String()).Str("language", string(lang)).Msg("failed to persist recipe insights")
			return
		}

		s.log.Info().Str("recipe_id", recipe.ID.String()).Str("language", string(lang)).Int("feasibility_score", ins.FeasibilityScore).Msg("recipe insights generated")
	}()
}

// buildInsights applies response validation: the JSON contract itself is
// already parsed by the llm.Client implementation, so what's left here is
// clamping feasibility_score to [0,100], dropping any step text that
// describes a negative duration, and merging the pre-validation findings
// into the warnings so they survive even if the model didn't restate them.
func buildInsights(recipeID kernel.RecipeID, lang kernel.Language, model string, result llm.InsightsResult, notes Notes) *domain.RecipeAIInsights {
	score := result.FeasibilityScore
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	steps := make([]string, 0, len(result.Steps))
	for _, step := range result.Steps {
		if hasNegativeDuration(step) {
			continue
		}
		steps = append(steps, step)
	}

	warnings := append([]string{}, result.ValidationWarnings...)
	warnings = append(warnings, notes.Findings...)

	stepsJSON, _ := json.Marshal(steps)
	validationJSON, _ := json.Marshal(validationBlock{
		Errors:   result.ValidationErrors,
		Warnings: warnings,
		Missing:  result.ValidationMissing,
	})
	suggestionsJSON, _ := json.Marshal(suggestionsBlock{
		Fixes:         result.SuggestionFixes,
		Substitutions: result.SuggestionSubstitutions,
	})

	return &domain.RecipeAIInsights{
		RecipeID:         recipeID,
		Language:         lang,
		StepsJSON:        string(stepsJSON),
		ValidationJSON:   string(validationJSON),
		SuggestionsJSON:  string(suggestionsJSON),
		FeasibilityScore: score,
		Model:            model,
	}
}

// estimateStepCount gives the unrealistic-time heuristic something to
// compare cook time against without a structured step list to count:
// instructions are conventionally newline- or period-separated.
func estimateStepCount(instructions string) int {
	count := 0
	inStep := false
	for _, r := range instructions {
		switch r {
		case '\n', '.':
			if inStep {
				count++
				inStep = false
			}
		case ' ', '\t', '\r':
		default:
			inStep = true
		}
	}
	if inStep {
		count++
	}
	return count
}

func hasNegativeDuration(step string) bool {
	for i := 0; i < len(step)-1; i++ {
		if step[i] == '-' && step[i+1] >= '0' && step[i+1] <= '9' {
			return true
		}
	}
	return false
}
