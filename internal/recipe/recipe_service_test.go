package recipe

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

type stubRecipeRepo struct {
	tenantIngredients map[kernel.CatalogIngredientID]*domain.TenantIngredient
	catalogIngredients map[kernel.CatalogIngredientID]*domain.CatalogIngredient
	created           *domain.Recipe
	createdLines      []domain.RecipeIngredient
}

func (r *stubRecipeRepo) CreateRecipeTx(ctx context.Context, tx pgx.Tx, rec *domain.Recipe) error {
	rec.ID = kernel.NewRecipeID()
	r.created = rec
	return nil
}
func (r *stubRecipeRepo) UpdateRecipeTx(ctx context.Context, tx pgx.Tx, rec *domain.Recipe) error {
	r.created = rec
	return nil
}
func (r *stubRecipeRepo) GetRecipe(ctx context.Context, tenantID kernel.TenantID, id kernel.RecipeID) (*domain.Recipe, error) {
	if r.created != nil && r.created.ID == id {
		return r.created, nil
	}
	return nil, kernel.ErrNotFound
}
func (r *stubRecipeRepo) ListRecipes(ctx context.Context, tenantID kernel.TenantID) ([]domain.Recipe, error) {
	return nil, nil
}
func (r *stubRecipeRepo) ArchiveRecipe(ctx context.Context, tenantID kernel.TenantID, id kernel.RecipeID) error {
	return nil
}
func (r *stubRecipeRepo) BulkArchiveRecipes(ctx context.Context, tenantID kernel.TenantID, ids []kernel.RecipeID) error {
	return nil
}
func (r *stubRecipeRepo) ReplaceRecipeIngredientsTx(ctx context.Context, tx pgx.Tx, recipeID kernel.RecipeID, lines []domain.RecipeIngredient) error {
	r.createdLines = lines
	return nil
}
func (r *stubRecipeRepo) ListRecipeIngredients(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeIngredient, error) {
	return r.createdLines, nil
}
func (r *stubRecipeRepo) GetTenantIngredientByCatalogID(ctx context.Context, tenantID kernel.TenantID, catalogIngredientID kernel.CatalogIngredientID) (*domain.TenantIngredient, error) {
	if ti, ok := r.tenantIngredients[catalogIngredientID]; ok {
		return ti, nil
	}
	return nil, kernel.ErrNotFound
}
func (r *stubRecipeRepo) GetCatalogIngredientByID(ctx context.Context, id kernel.CatalogIngredientID) (*domain.CatalogIngredient, error) {
	if ci, ok := r.catalogIngredients[id]; ok {
		return ci, nil
	}
	return nil, kernel.ErrNotFound
}
func (r *stubRecipeRepo) UpsertRecipeTranslation(ctx context.Context, t *domain.RecipeTranslation) error {
	return nil
}
func (r *stubRecipeRepo) ListRecipeTranslations(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeTranslation, error) {
	return nil, nil
}
func (r *stubRecipeRepo) ExecTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

func newTestRecipeService(repo recipeRepository) *Service {
	return &Service{repo: repo, log: zerolog.New(io.Discard)}
}

func TestCreateComputesCostSnapshotAndCostPerServing(t *testing.T) {
	flourID := kernel.NewCatalogIngredientID()
	price := kernel.MoneyFromCents(500) // 5.00 per kg
	repo := &stubRecipeRepo{
		tenantIngredients: map[kernel.CatalogIngredientID]*domain.TenantIngredient{
			flourID: {CatalogIngredientID: flourID, PriceCents: &price},
		},
		catalogIngredients: map[kernel.CatalogIngredientID]*domain.CatalogIngredient{
			flourID: {ID: flourID, NameEN: "Flour"},
		},
	}
	svc := newTestRecipeService(repo)

	r := &domain.Recipe{TenantID: kernel.NewTenantID(), NameDefault: "Bread", Servings: 4, LanguageDefault: kernel.LanguageEN}
	lines := []IngredientLineInput{{CatalogIngredientID: flourID, Quantity: kernel.QuantityFromFloat(2), Unit: domain.UnitKilogram}}

	created, err := svc.Create(context.Background(), r, lines, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.TotalCostCents != kernel.MoneyFromCents(1000) {
		t.Fatalf("expected total cost 1000 cents, got %s", created.TotalCostCents)
	}
	if created.CostPerServingCents != kernel.MoneyFromCents(250) {
		t.Fatalf("expected cost per serving 250 cents, got %s", created.CostPerServingCents)
	}
	if created.Status != domain.RecipeStatusDraft {
		t.Fatalf("expected draft status, got %s", created.Status)
	}
	if repo.createdLines[0].NameSnapshot != "Flour" {
		t.Fatalf("expected name snapshot 'Flour', got %q", repo.createdLines[0].NameSnapshot)
	}
}

func TestCreateRejectsUnpricedIngredient(t *testing.T) {
	flourID := kernel.NewCatalogIngredientID()
	repo := &stubRecipeRepo{
		tenantIngredients: map[kernel.CatalogIngredientID]*domain.TenantIngredient{
			flourID: {CatalogIngredientID: flourID, PriceCents: nil},
		},
	}
	svc := newTestRecipeService(repo)

	r := &domain.Recipe{TenantID: kernel.NewTenantID(), NameDefault: "Bread", Servings: 4}
	lines := []IngredientLineInput{{CatalogIngredientID: flourID, Quantity: kernel.QuantityFromFloat(2)}}

	_, err := svc.Create(context.Background(), r, lines, false)
	if !errors.Is(err, kernel.ErrValidation) {
		t.Fatalf("expected ErrValidation for unpriced ingredient, got %v", err)
	}
}

func TestCreateRejectsEmptyIngredientList(t *testing.T) {
	svc := newTestRecipeService(&stubRecipeRepo{})
	r := &domain.Recipe{TenantID: kernel.NewTenantID(), NameDefault: "Empty", Servings: 1}
	_, err := svc.Create(context.Background(), r, nil, false)
	if !errors.Is(err, kernel.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty ingredient list, got %v", err)
	}
}

func TestPublishRejectsArchivedRecipe(t *testing.T) {
	repo := &stubRecipeRepo{created: &domain.Recipe{ID: kernel.NewRecipeID(), Status: domain.RecipeStatusArchived}}
	svc := newTestRecipeService(repo)

	_, err := svc.Publish(context.Background(), kernel.NewTenantID(), repo.created.ID, false)
	if !errors.Is(err, kernel.ErrValidation) {
		t.Fatalf("expected ErrValidation for publishing an archived recipe, got %v", err)
	}
}

func TestPublishSetsPublishedStatusAndTimestamp(t *testing.T) {
	repo := &stubRecipeRepo{created: &domain.Recipe{ID: kernel.NewRecipeID(), Status: domain.RecipeStatusDraft}}
	svc := newTestRecipeService(repo)

	published, err := svc.Publish(context.Background(), kernel.NewTenantID(), repo.created.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if published.Status != domain.RecipeStatusPublished {
		t.Fatalf("expected published status, got %s", published.Status)
	}
	if published.PublishedAt == nil {
		t.Fatalf("expected published_at to be set")
	}
}
