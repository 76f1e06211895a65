// Package catalog implements the shared master catalog (§4.2) and the
// canonical-ingredient universal-input pipeline (§4.3): admin curation plus
// the read-only, multilingual surface tenants browse and search.
package catalog

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/repository"
)

const defaultSearchLimit = 50

// Service is the tenant-facing read surface over the shared master catalog.
// It never writes; curation lives in AdminService.
type Service struct {
	repo *repository.Store
	log  zerolog.Logger
}

func NewService(repo *repository.Store, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListCategories returns every category, ordered for display.
func (s *Service) ListCategories(ctx context.Context) ([]domain.CatalogCategory, error) {
	return s.repo.ListCatalogCategories(ctx)
}

// Search matches a query substring against all four language columns at
// once, so a tenant user can search in whichever language they type in.
func (s *Service) Search(ctx context.Context, query string) ([]domain.CatalogIngredient, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, kernel.ValidationError("search query is required")
	}
	return s.repo.SearchCatalogIngredients(ctx, query, defaultSearchLimit)
}

// Get returns a single catalog ingredient by id, regardless of tenant — the
// catalog is global.
func (s *Service) Get(ctx context.Context, id kernel.CatalogIngredientID) (*domain.CatalogIngredient, error) {
	return s.repo.GetCatalogIngredientByID(ctx, id)
}
