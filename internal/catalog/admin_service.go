package catalog

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/llm"
	"github.com/iogar-platform/kitchenledger/internal/repository"
	"github.com/iogar-platform/kitchenledger/internal/storage"
)

// catalogRepository is the slice of *repository.Store the curation pipeline
// needs, narrowed to an interface so pipeline tests can stub it without a
// database.
type catalogRepository interface {
	CreateCatalogCategory(ctx context.Context, c *domain.CatalogCategory) error
	ListCatalogCategories(ctx context.Context) ([]domain.CatalogCategory, error)
	GetCatalogCategoryBySlug(ctx context.Context, slug string) (*domain.CatalogCategory, error)
	ListCatalogIngredients(ctx context.Context) ([]domain.CatalogIngredient, error)
	FindActiveCatalogIngredientByNormalizedName(ctx context.Context, normalized string) (*domain.CatalogIngredient, error)
	GetCatalogIngredientByID(ctx context.Context, id kernel.CatalogIngredientID) (*domain.CatalogIngredient, error)
	CreateCatalogIngredient(ctx context.Context, ing *domain.CatalogIngredient) error
	UpdateCatalogIngredient(ctx context.Context, ing *domain.CatalogIngredient) error
	SetCatalogIngredientImage(ctx context.Context, id kernel.CatalogIngredientID, imageURL *string) error
	DeactivateCatalogIngredient(ctx context.Context, id kernel.CatalogIngredientID) error
	GetDictionaryEntry(ctx context.Context, key string) (*domain.DictionaryEntry, error)
	UpsertDictionaryEntry(ctx context.Context, e *domain.DictionaryEntry) error
}

// AdminService is the admin curation surface over the shared master
// catalog: category management, the universal-input onboarding pipeline,
// manual edits, and ingredient images.
type AdminService struct {
	repo    catalogRepository
	llm     llm.Client
	storage *storage.Client
	log     zerolog.Logger
}

func NewAdminService(repo *repository.Store, llmClient llm.Client, storageClient *storage.Client, log zerolog.Logger) *AdminService {
	return &AdminService{repo: repo, llm: llmClient, storage: storageClient, log: log}
}

// CreateCategory inserts a new admin-managed category.
func (s *AdminService) CreateCategory(ctx context.Context, c *domain.CatalogCategory) error {
	c.NameEN = strings.TrimSpace(c.NameEN)
	if c.NameEN == "" {
		return kernel.ValidationError("category English name is required")
	}
	c.Slug = strings.TrimSpace(c.Slug)
	if c.Slug == "" {
		c.Slug = repository.Slugify(c.NameEN)
	}
	return s.repo.CreateCatalogCategory(ctx, c)
}

// ListCategories returns every category, including any without tenant-facing use yet.
func (s *AdminService) ListCategories(ctx context.Context) ([]domain.CatalogCategory, error) {
	return s.repo.ListCatalogCategories(ctx)
}

// ListIngredients returns every ingredient, active or not, for curation.
func (s *AdminService) ListIngredients(ctx context.Context) ([]domain.CatalogIngredient, error) {
	return s.repo.ListCatalogIngredients(ctx)
}

// OnboardIngredient runs the universal-input pipeline to create one new
// canonical ingredient from free-text input in any supported language.
func (s *AdminService) OnboardIngredient(ctx context.Context, in OnboardIngredientInput) (*domain.CatalogIngredient, error) {
	return s.onboardIngredient(ctx, in)
}

// UpdateIngredient rewrites an ingredient's curated fields directly,
// bypassing the pipeline — used when an admin corrects a pipeline result by
// hand.
func (s *AdminService) UpdateIngredient(ctx context.Context, ing *domain.CatalogIngredient) error {
	if ing.ID.IsZero() {
		return kernel.ValidationError("ingredient id is required")
	}
	ing.NameEN = strings.TrimSpace(ing.NameEN)
	if ing.NameEN == "" {
		return kernel.ValidationError("ingredient English name is required")
	}
	if !ing.DefaultUnit.Valid() {
		return kernel.ValidationErrorf("unsupported unit %q", ing.DefaultUnit)
	}
	return s.repo.UpdateCatalogIngredient(ctx, ing)
}

// DeactivateIngredient soft-deletes an ingredient, preserving it as a
// foreign key target for existing recipes and tenant ingredients.
func (s *AdminService) DeactivateIngredient(ctx context.Context, id kernel.CatalogIngredientID) error {
	return s.repo.DeactivateCatalogIngredient(ctx, id)
}

// UploadImage stores an ingredient's image in object storage and records its
// location on the catalog row.
func (s *AdminService) UploadImage(ctx context.Context, id kernel.CatalogIngredientID, contentType string, size int64, reader io.Reader) (string, error) {
	objectName := "catalog-ingredients/" + id.String()

	location, err := s.storage.UploadIngredientImage(ctx, objectName, contentType, size, reader)
	if err != nil {
		return "", kernel.InternalErrorf("failed to upload ingredient image: %s", err.Error())
	}

	if err := s.repo.SetCatalogIngredientImage(ctx, id, &location); err != nil {
		return "", err
	}

	s.log.Info().Str("ingredient_id", id.String()).Msg("catalog ingredient image uploaded")
	return location, nil
}

// DeleteImage removes an ingredient's image from object storage and clears
// the stored location.
func (s *AdminService) DeleteImage(ctx context.Context, id kernel.CatalogIngredientID) error {
	ing, err := s.repo.GetCatalogIngredientByID(ctx, id)
	if err != nil {
		return err
	}
	if ing.ImageURL == nil {
		return nil
	}

	objectName := "catalog-ingredients/" + id.String()
	if err := s.storage.DeleteIngredientImage(ctx, objectName); err != nil {
		return kernel.InternalErrorf("failed to delete ingredient image: %s", err.Error())
	}

	return s.repo.SetCatalogIngredientImage(ctx, id, nil)
}
