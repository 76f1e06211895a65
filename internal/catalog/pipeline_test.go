package catalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/llm"
)

type stubCatalogRepo struct {
	byNormalizedName map[string]*domain.CatalogIngredient
	byID             map[kernel.CatalogIngredientID]*domain.CatalogIngredient
	categories       map[string]*domain.CatalogCategory
	dictionary       map[string]*domain.DictionaryEntry
	created          *domain.CatalogIngredient
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		byNormalizedName: map[string]*domain.CatalogIngredient{},
		byID:             map[kernel.CatalogIngredientID]*domain.CatalogIngredient{},
		categories: map[string]*domain.CatalogCategory{
			"vegetables": {ID: kernel.NewCatalogCategoryID(), Slug: "vegetables", NameEN: "Vegetables"},
			"dairy":      {ID: kernel.NewCatalogCategoryID(), Slug: "dairy", NameEN: "Dairy"},
		},
		dictionary: map[string]*domain.DictionaryEntry{},
	}
}

func (r *stubCatalogRepo) CreateCatalogCategory(ctx context.Context, c *domain.CatalogCategory) error {
	return nil
}
func (r *stubCatalogRepo) ListCatalogCategories(ctx context.Context) ([]domain.CatalogCategory, error) {
	return nil, nil
}
func (r *stubCatalogRepo) GetCatalogCategoryBySlug(ctx context.Context, slug string) (*domain.CatalogCategory, error) {
	if c, ok := r.categories[slug]; ok {
		return c, nil
	}
	return nil, kernel.ErrNotFound
}
func (r *stubCatalogRepo) ListCatalogIngredients(ctx context.Context) ([]domain.CatalogIngredient, error) {
	return nil, nil
}
func (r *stubCatalogRepo) FindActiveCatalogIngredientByNormalizedName(ctx context.Context, normalized string) (*domain.CatalogIngredient, error) {
	if ing, ok := r.byNormalizedName[normalized]; ok {
		return ing, nil
	}
	return nil, kernel.ErrNotFound
}
func (r *stubCatalogRepo) GetCatalogIngredientByID(ctx context.Context, id kernel.CatalogIngredientID) (*domain.CatalogIngredient, error) {
	if ing, ok := r.byID[id]; ok {
		return ing, nil
	}
	return nil, kernel.ErrNotFound
}
func (r *stubCatalogRepo) CreateCatalogIngredient(ctx context.Context, ing *domain.CatalogIngredient) error {
	ing.ID = kernel.NewCatalogIngredientID()
	r.created = ing
	r.byID[ing.ID] = ing
	return nil
}
func (r *stubCatalogRepo) UpdateCatalogIngredient(ctx context.Context, ing *domain.CatalogIngredient) error {
	r.byID[ing.ID] = ing
	return nil
}
func (r *stubCatalogRepo) SetCatalogIngredientImage(ctx context.Context, id kernel.CatalogIngredientID, imageURL *string) error {
	return nil
}
func (r *stubCatalogRepo) DeactivateCatalogIngredient(ctx context.Context, id kernel.CatalogIngredientID) error {
	return nil
}
func (r *stubCatalogRepo) GetDictionaryEntry(ctx context.Context, key string) (*domain.DictionaryEntry, error) {
	if e, ok := r.dictionary[key]; ok {
		return e, nil
	}
	return nil, kernel.ErrNotFound
}
func (r *stubCatalogRepo) UpsertDictionaryEntry(ctx context.Context, e *domain.DictionaryEntry) error {
	if _, ok := r.dictionary[e.Key]; !ok {
		r.dictionary[e.Key] = e
	}
	return nil
}

type stubLLM struct {
	normalizeCalls  int
	translateCalls  int
	classifyCalls   int
	normalizeResult string
	normalizeErr    error
	translateResult llm.TranslationResult
	translateErr    error
	classifyResult  llm.ClassificationResult
	classifyErr     error
}

func (s *stubLLM) NormalizeIngredientName(ctx context.Context, rawInput string) (string, error) {
	s.normalizeCalls++
	return s.normalizeResult, s.normalizeErr
}
func (s *stubLLM) TranslateIngredientName(ctx context.Context, nameEN string) (llm.TranslationResult, error) {
	s.translateCalls++
	return s.translateResult, s.translateErr
}
func (s *stubLLM) ClassifyIngredient(ctx context.Context, nameEN string) (llm.ClassificationResult, error) {
	s.classifyCalls++
	return s.classifyResult, s.classifyErr
}
func (s *stubLLM) TranslateRecipe(ctx context.Context, nameDefault, instructionsDefault string) (llm.RecipeTranslationResult, error) {
	return llm.RecipeTranslationResult{}, nil
}
func (s *stubLLM) GenerateRecipeInsights(ctx context.Context, req llm.InsightsRequest) (llm.InsightsResult, error) {
	return llm.InsightsResult{}, nil
}

func newTestAdminService(repo catalogRepository, model llm.Client) *AdminService {
	return &AdminService{repo: repo, llm: model, log: zerolog.New(io.Discard)}
}

func TestOnboardIngredientASCIIInputSkipsNormalizeCall(t *testing.T) {
	repo := newStubCatalogRepo()
	model := &stubLLM{
		translateResult: llm.TranslationResult{NamePL: "Mleko", NameRU: "Молоко", NameUK: "Молоко"},
		classifyResult:  llm.ClassificationResult{CategorySlug: "dairy", Unit: "l"},
	}
	svc := newTestAdminService(repo, model)

	ing, err := svc.OnboardIngredient(context.Background(), OnboardIngredientInput{NameInput: "Milk", AutoTranslate: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.normalizeCalls != 0 {
		t.Fatalf("expected normalize to be skipped for ASCII input, got %d calls", model.normalizeCalls)
	}
	if model.translateCalls != 1 || model.classifyCalls != 1 {
		t.Fatalf("expected exactly one translate and one classify call, got translate=%d classify=%d", model.translateCalls, model.classifyCalls)
	}
	if ing.NameEN != "Milk" || ing.NamePL != "Mleko" || ing.DefaultUnit != domain.UnitLiter {
		t.Fatalf("unexpected ingredient: %+v", ing)
	}
}

func TestOnboardIngredientNonASCIIInputCallsNormalize(t *testing.T) {
	repo := newStubCatalogRepo()
	model := &stubLLM{
		normalizeResult: "Milk",
		translateResult: llm.TranslationResult{NamePL: "Mleko", NameRU: "Молоко", NameUK: "Молоко"},
		classifyResult:  llm.ClassificationResult{CategorySlug: "dairy", Unit: "l"},
	}
	svc := newTestAdminService(repo, model)

	ing, err := svc.OnboardIngredient(context.Background(), OnboardIngredientInput{NameInput: "Мleko", AutoTranslate: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.normalizeCalls != 1 {
		t.Fatalf("expected exactly one normalize call, got %d", model.normalizeCalls)
	}
	if ing.NameEN != "Milk" {
		t.Fatalf("expected canonical name Milk, got %q", ing.NameEN)
	}
}

func TestOnboardIngredientDictionaryHitSkipsTranslate(t *testing.T) {
	repo := newStubCatalogRepo()
	repo.dictionary["milk"] = &domain.DictionaryEntry{Key: "milk", NameEN: "Milk", NamePL: "Mleko", NameRU: "Молоко", NameUK: "Молоко"}
	model := &stubLLM{classifyResult: llm.ClassificationResult{CategorySlug: "dairy", Unit: "l"}}
	svc := newTestAdminService(repo, model)

	ing, err := svc.OnboardIngredient(context.Background(), OnboardIngredientInput{NameInput: "Milk", AutoTranslate: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.translateCalls != 0 {
		t.Fatalf("expected dictionary hit to skip translate, got %d calls", model.translateCalls)
	}
	if ing.NamePL != "Mleko" {
		t.Fatalf("expected dictionary-cached translation, got %q", ing.NamePL)
	}
}

func TestOnboardIngredientDuplicateReturnsConflict(t *testing.T) {
	repo := newStubCatalogRepo()
	repo.byNormalizedName["milk"] = &domain.CatalogIngredient{NameEN: "Milk"}
	model := &stubLLM{}
	svc := newTestAdminService(repo, model)

	_, err := svc.OnboardIngredient(context.Background(), OnboardIngredientInput{NameInput: "Milk"})
	if !errors.Is(err, kernel.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestOnboardIngredientClassifyFailureDegradesGracefully(t *testing.T) {
	repo := newStubCatalogRepo()
	model := &stubLLM{
		translateResult: llm.TranslationResult{NamePL: "Mleko", NameRU: "Молоко", NameUK: "Молоко"},
		classifyErr:     errors.New("gemini: 503 unavailable"),
	}
	svc := newTestAdminService(repo, model)

	ing, err := svc.OnboardIngredient(context.Background(), OnboardIngredientInput{NameInput: "Milk", AutoTranslate: true})
	if err != nil {
		t.Fatalf("expected classification failure to degrade gracefully, got error: %v", err)
	}
	if ing.DefaultUnit != domain.UnitPiece {
		t.Fatalf("expected fallback unit piece, got %q", ing.DefaultUnit)
	}
	fallbackCategory := repo.categories[fallbackCategorySlug]
	if ing.CategoryID != fallbackCategory.ID {
		t.Fatalf("expected fallback category %s, got %s", fallbackCategory.ID, ing.CategoryID)
	}
}

func TestOnboardIngredientNormalizeFailureHardFails(t *testing.T) {
	repo := newStubCatalogRepo()
	model := &stubLLM{normalizeErr: errors.New("gemini: timeout")}
	svc := newTestAdminService(repo, model)

	_, err := svc.OnboardIngredient(context.Background(), OnboardIngredientInput{NameInput: "Мleko"})
	if !errors.Is(err, kernel.ErrInternal) {
		t.Fatalf("expected normalize failure to hard-fail with ErrInternal, got %v", err)
	}
}

func TestOnboardIngredientTranslateFailureHardFails(t *testing.T) {
	repo := newStubCatalogRepo()
	model := &stubLLM{translateErr: errors.New("gemini: timeout")}
	svc := newTestAdminService(repo, model)

	_, err := svc.OnboardIngredient(context.Background(), OnboardIngredientInput{NameInput: "Milk", AutoTranslate: true})
	if !errors.Is(err, kernel.ErrInternal) {
		t.Fatalf("expected translate failure to hard-fail with ErrInternal, got %v", err)
	}
}
