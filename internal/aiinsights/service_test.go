package aiinsights

import (
	"context"
	"strings"
	"testing"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/llm"
)

type stubInsightsRepo struct {
	recipe   *domain.Recipe
	lines    []domain.RecipeIngredient
	existing map[kernel.Language]*domain.RecipeAIInsights
}

func (r *stubInsightsRepo) GetRecipe(ctx context.Context, tenantID kernel.TenantID, id kernel.RecipeID) (*domain.Recipe, error) {
	if r.recipe == nil {
		return nil, kernel.ErrNotFound
	}
	return r.recipe, nil
}
func (r *stubInsightsRepo) ListRecipeIngredients(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeIngredient, error) {
	return r.lines, nil
}
func (r *stubInsightsRepo) GetAIInsights(ctx context.Context, recipeID kernel.RecipeID, language kernel.Language) (*domain.RecipeAIInsights, error) {
	if ins, ok := r.existing[language]; ok {
		return ins, nil
	}
	return nil, kernel.ErrNotFound
}
func (r *stubInsightsRepo) ListAIInsightsByRecipe(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeAIInsights, error) {
	out := make([]domain.RecipeAIInsights, 0, len(r.existing))
	for _, v := range r.existing {
		out = append(out, *v)
	}
	return out, nil
}
func (r *stubInsightsRepo) UpsertAIInsights(ctx context.Context, ins *domain.RecipeAIInsights) error {
	if r.existing == nil {
		r.existing = map[kernel.Language]*domain.RecipeAIInsights{}
	}
	r.existing[ins.Language] = ins
	return nil
}

func TestBuildInsightsClampsFeasibilityScore(t *testing.T) {
	ins := buildInsights(kernel.NewRecipeID(), kernel.LanguageEN, "gemini-test", llm.InsightsResult{FeasibilityScore: 150}, Notes{})
	if ins.FeasibilityScore != 100 {
		t.Fatalf("expected clamp to 100, got %d", ins.FeasibilityScore)
	}

	ins = buildInsights(kernel.NewRecipeID(), kernel.LanguageEN, "gemini-test", llm.InsightsResult{FeasibilityScore: -20}, Notes{})
	if ins.FeasibilityScore != 0 {
		t.Fatalf("expected clamp to 0, got %d", ins.FeasibilityScore)
	}
}

func TestBuildInsightsDropsStepsWithNegativeDuration(t *testing.T) {
	result := llm.InsightsResult{
		Steps:            []string{"Preheat oven to 180C for 10 minutes", "Rest dough for -5 minutes"},
		FeasibilityScore: 80,
	}
	ins := buildInsights(kernel.NewRecipeID(), kernel.LanguageEN, "gemini-test", result, Notes{})
	if !strings.Contains(ins.StepsJSON, "Preheat oven") {
		t.Fatalf("expected valid step retained, got %s", ins.StepsJSON)
	}
	if strings.Contains(ins.StepsJSON, "-5 minutes") {
		t.Fatalf("expected step with negative duration dropped, got %s", ins.StepsJSON)
	}
}

func TestBuildInsightsMergesPreValidationFindingsIntoWarnings(t *testing.T) {
	notes := Notes{DishType: "baking", Findings: []string{"no leavening agent detected"}}
	ins := buildInsights(kernel.NewRecipeID(), kernel.LanguageEN, "gemini-test", llm.InsightsResult{}, notes)
	if !strings.Contains(ins.ValidationJSON, "no leavening agent detected") {
		t.Fatalf("expected pre-validation finding merged into warnings, got %s", ins.ValidationJSON)
	}
}

func TestGenerateSkipsSpawnWhenInsightsExistAndNotForced(t *testing.T) {
	recipeID := kernel.NewRecipeID()
	repo := &stubInsightsRepo{
		recipe:   &domain.Recipe{ID: recipeID},
		existing: map[kernel.Language]*domain.RecipeAIInsights{kernel.LanguageEN: {RecipeID: recipeID, Language: kernel.LanguageEN}},
	}
	svc := &Service{repo: repo}

	spawned, err := svc.Generate(context.Background(), kernel.NewTenantID(), recipeID, kernel.LanguageEN, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spawned {
		t.Fatalf("expected Generate not to spawn a job when insights already exist")
	}
}

func TestGenerateReturns202SemanticsWhenForced(t *testing.T) {
	recipeID := kernel.NewRecipeID()
	repo := &stubInsightsRepo{
		recipe:   &domain.Recipe{ID: recipeID, NameDefault: "Test"},
		existing: map[kernel.Language]*domain.RecipeAIInsights{kernel.LanguageEN: {RecipeID: recipeID, Language: kernel.LanguageEN}},
	}
	svc := &Service{repo: repo, llm: &blockingStubLLM{}}

	spawned, err := svc.Generate(context.Background(), kernel.NewTenantID(), recipeID, kernel.LanguageEN, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !spawned {
		t.Fatalf("expected force=true to spawn a new generation job")
	}
}

type blockingStubLLM struct{}

func (s *blockingStubLLM) NormalizeIngredientName(ctx context.Context, rawInput string) (string, error) {
	return "", nil
}
func (s *blockingStubLLM) TranslateIngredientName(ctx context.Context, nameEN string) (llm.TranslationResult, error) {
	return llm.TranslationResult{}, nil
}
func (s *blockingStubLLM) ClassifyIngredient(ctx context.Context, nameEN string) (llm.ClassificationResult, error) {
	return llm.ClassificationResult{}, nil
}
func (s *blockingStubLLM) TranslateRecipe(ctx context.Context, nameDefault, instructionsDefault string) (llm.RecipeTranslationResult, error) {
	return llm.RecipeTranslationResult{}, nil
}
func (s *blockingStubLLM) GenerateRecipeInsights(ctx context.Context, req llm.InsightsRequest) (llm.InsightsResult, error) {
	return llm.InsightsResult{FeasibilityScore: 90}, nil
}
