// Package recipe implements recipe authoring with its cost-at-authoring-time
// snapshot, async translation orchestration, dish management, and the FIFO
// sale-deduction transaction (§4.5).
package recipe

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/llm"
	"github.com/iogar-platform/kitchenledger/internal/repository"
)

// recipeRepository is the slice of *repository.Store the authoring flow and
// translation job need, narrowed to an interface so both can be unit tested
// without a database.
type recipeRepository interface {
	CreateRecipeTx(ctx context.Context, tx pgx.Tx, r *domain.Recipe) error
	UpdateRecipeTx(ctx context.Context, tx pgx.Tx, r *domain.Recipe) error
	GetRecipe(ctx context.Context, tenantID kernel.TenantID, id kernel.RecipeID) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, tenantID kernel.TenantID) ([]domain.Recipe, error)
	ArchiveRecipe(ctx context.Context, tenantID kernel.TenantID, id kernel.RecipeID) error
	BulkArchiveRecipes(ctx context.Context, tenantID kernel.TenantID, ids []kernel.RecipeID) error
	ReplaceRecipeIngredientsTx(ctx context.Context, tx pgx.Tx, recipeID kernel.RecipeID, lines []domain.RecipeIngredient) error
	ListRecipeIngredients(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeIngredient, error)
	GetTenantIngredientByCatalogID(ctx context.Context, tenantID kernel.TenantID, catalogIngredientID kernel.CatalogIngredientID) (*domain.TenantIngredient, error)
	GetCatalogIngredientByID(ctx context.Context, id kernel.CatalogIngredientID) (*domain.CatalogIngredient, error)
	UpsertRecipeTranslation(ctx context.Context, t *domain.RecipeTranslation) error
	ListRecipeTranslations(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeTranslation, error)
	ExecTx(ctx context.Context, fn func(pgx.Tx) error) error
}

// IngredientLineInput is one line of a recipe's ingredient list as authored,
// before the cost-at-use snapshot is resolved.
type IngredientLineInput struct {
	CatalogIngredientID kernel.CatalogIngredientID
	Quantity            kernel.Quantity
	Unit                domain.Unit
}

// Service authors and maintains recipes: cost-at-authoring-time snapshots,
// publish/archive lifecycle, and async translation on create/publish.
type Service struct {
	repo recipeRepository
	llm  llm.Client
	log  zerolog.Logger
}

func NewService(repo *repository.Store, llmClient llm.Client, log zerolog.Logger) *Service {
	return &Service{repo: repo, llm: llmClient, log: log}
}

// Create authors a new draft recipe, resolving a cost-at-use snapshot for
// every ingredient line from the tenant's current TenantIngredient price
// (§4.5: "decouples recipes from subsequent price drift"). If autoTranslate,
// a translation job is spawned once the recipe is durably committed.
func (s *Service) Create(ctx context.Context, r *domain.Recipe, lines []IngredientLineInput, autoTranslate bool) (*domain.Recipe, error) {
	if err := validateRecipeFields(r); err != nil {
		return nil, err
	}

	resolved, total, err := s.resolveLines(ctx, r.TenantID, lines)
	if err != nil {
		return nil, err
	}
	r.Status = domain.RecipeStatusDraft
	r.TotalCostCents = total
	r.CostPerServingCents = total.DivRound(r.Servings)

	err = s.repo.ExecTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.CreateRecipeTx(ctx, tx, r); err != nil {
			return err
		}
		return s.repo.ReplaceRecipeIngredientsTx(ctx, tx, r.ID, resolved)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("recipe_id", r.ID.String()).Int("lines", len(resolved)).Msg("recipe created")
	if autoTranslate {
		s.spawnTranslationJob(r.ID, r.TenantID, r.LanguageDefault, r.NameDefault, r.InstructionsDefault)
	}
	return r, nil
}

// Get returns a recipe scoped to the tenant.
func (s *Service) Get(ctx context.Context, tenantID kernel.TenantID, id kernel.RecipeID) (*domain.Recipe, error) {
	return s.repo.GetRecipe(ctx, tenantID, id)
}

// List returns every non-archived recipe of a tenant.
func (s *Service) List(ctx context.Context, tenantID kernel.TenantID) ([]domain.Recipe, error) {
	return s.repo.ListRecipes(ctx, tenantID)
}

// Ingredients returns a recipe's ingredient lines ordered by line id; this is
// not the authoring order.
func (s *Service) Ingredients(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeIngredient, error) {
	return s.repo.ListRecipeIngredients(ctx, recipeID)
}

// Translations returns every non-default-language rendering of a recipe.
func (s *Service) Translations(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeTranslation, error) {
	return s.repo.ListRecipeTranslations(ctx, recipeID)
}

// Update rewrites a recipe's authoring fields and recomputes its cost
// snapshot. Editing always rewrites the whole ingredient list, never patches
// one line in place.
func (s *Service) Update(ctx context.Context, r *domain.Recipe, lines []IngredientLineInput, autoTranslate bool) (*domain.Recipe, error) {
	if err := validateRecipeFields(r); err != nil {
		return nil, err
	}

	resolved, total, err := s.resolveLines(ctx, r.TenantID, lines)
	if err != nil {
		return nil, err
	}
	r.TotalCostCents = total
	r.CostPerServingCents = total.DivRound(r.Servings)

	err = s.repo.ExecTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.UpdateRecipeTx(ctx, tx, r); err != nil {
			return err
		}
		return s.repo.ReplaceRecipeIngredientsTx(ctx, tx, r.ID, resolved)
	})
	if err != nil {
		return nil, err
	}

	if autoTranslate {
		s.spawnTranslationJob(r.ID, r.TenantID, r.LanguageDefault, r.NameDefault, r.InstructionsDefault)
	}
	return r, nil
}

// Publish marks a draft recipe published and, if autoTranslate, spawns the
// translation job — publish is the other trigger point §4.5 names besides
// create.
func (s *Service) Publish(ctx context.Context, tenantID kernel.TenantID, id kernel.RecipeID, autoTranslate bool) (*domain.Recipe, error) {
	r, err := s.repo.GetRecipe(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if r.Status == domain.RecipeStatusArchived {
		return nil, kernel.ValidationError("cannot publish an archived recipe")
	}

	now := time.Now().UTC()
	r.Status = domain.RecipeStatusPublished
	r.PublishedAt = &now

	if err := s.repo.ExecTx(ctx, func(tx pgx.Tx) error {
		return s.repo.UpdateRecipeTx(ctx, tx, r)
	}); err != nil {
		return nil, err
	}

	if autoTranslate {
		s.spawnTranslationJob(r.ID, r.TenantID, r.LanguageDefault, r.NameDefault, r.InstructionsDefault)
	}
	return r, nil
}

// Archive soft-archives a recipe.
func (s *Service) Archive(ctx context.Context, tenantID kernel.TenantID, id kernel.RecipeID) error {
	return s.repo.ArchiveRecipe(ctx, tenantID, id)
}

// BulkArchive archives every listed recipe belonging to the tenant.
func (s *Service) BulkArchive(ctx context.Context, tenantID kernel.TenantID, ids []kernel.RecipeID) error {
	if len(ids) == 0 {
		return nil
	}
	return s.repo.BulkArchiveRecipes(ctx, tenantID, ids)
}

// resolveLines computes the cost-at-use snapshot for each ingredient line
// and the resulting total, failing validation if a line references an
// ingredient the tenant hasn't adopted or priced.
func (s *Service) resolveLines(ctx context.Context, tenantID kernel.TenantID, lines []IngredientLineInput) ([]domain.RecipeIngredient, kernel.Money, error) {
	if len(lines) == 0 {
		return nil, 0, kernel.ValidationError("a recipe needs at least one ingredient line")
	}

	resolved := make([]domain.RecipeIngredient, 0, len(lines))
	var total kernel.Money

	for _, line := range lines {
		if line.CatalogIngredientID.IsZero() {
			return nil, 0, kernel.ValidationError("ingredient line is missing a catalog ingredient")
		}
		if !line.Quantity.IsPositive() {
			return nil, 0, kernel.ValidationError("ingredient line quantity must be positive")
		}

		ti, err := s.repo.GetTenantIngredientByCatalogID(ctx, tenantID, line.CatalogIngredientID)
		if err != nil {
			return nil, 0, err
		}
		if ti.PriceCents == nil {
			return nil, 0, kernel.ValidationError("ingredient has no price set, cannot cost this recipe")
		}

		ci, err := s.repo.GetCatalogIngredientByID(ctx, line.CatalogIngredientID)
		if err != nil {
			return nil, 0, err
		}

		costAtUse := line.Quantity.MulMoney(*ti.PriceCents)
		total = total.Add(costAtUse)

		resolved = append(resolved, domain.RecipeIngredient{
			CatalogIngredientID: line.CatalogIngredientID,
			Quantity:            line.Quantity,
			Unit:                line.Unit,
			CostAtUseCents:      costAtUse,
			NameSnapshot:        ci.NameEN,
		})
	}

	return resolved, total, nil
}

func validateRecipeFields(r *domain.Recipe) error {
	r.NameDefault = strings.TrimSpace(r.NameDefault)
	if r.NameDefault == "" {
		return kernel.ValidationError("recipe name is required")
	}
	if r.Servings < 1 {
		return kernel.ValidationError("servings must be at least 1")
	}
	if !r.LanguageDefault.Valid() {
		r.LanguageDefault = kernel.LanguageEN
	}
	return nil
}
