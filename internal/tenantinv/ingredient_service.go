// Package tenantinv implements a tenant's own ingredient reference list and
// physical inventory: TenantIngredient adoption of catalog entries,
// InventoryBatch receipt/correction/expiration, loss reporting, and a
// health score (§4.4). FIFO consumption lives in package recipe.
package tenantinv

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/repository"
)

// ingredientRepository is the slice of *repository.Store the tenant
// ingredient adoption surface needs.
type ingredientRepository interface {
	CreateTenantIngredient(ctx context.Context, ti *domain.TenantIngredient) error
	GetTenantIngredient(ctx context.Context, tenantID kernel.TenantID, id kernel.TenantIngredientID) (*domain.TenantIngredient, error)
	ListTenantIngredients(ctx context.Context, tenantID kernel.TenantID) ([]domain.TenantIngredient, error)
	UpdateTenantIngredient(ctx context.Context, ti *domain.TenantIngredient) error
	DeleteTenantIngredient(ctx context.Context, tenantID kernel.TenantID, id kernel.TenantIngredientID) error
	BulkDeleteTenantIngredients(ctx context.Context, tenantID kernel.TenantID, ids []kernel.TenantIngredientID) error
}

// IngredientService manages a tenant's adoption of catalog ingredients into
// its own priced reference list.
type IngredientService struct {
	repo ingredientRepository
	log  zerolog.Logger
}

func NewIngredientService(repo *repository.Store, log zerolog.Logger) *IngredientService {
	return &IngredientService{repo: repo, log: log}
}

// Adopt links a catalog ingredient into the tenant's reference list with its
// own price and supplier. The partial unique index on (tenant_id,
// catalog_ingredient_id) WHERE is_active surfaces a re-adoption as
// ErrConflict; callers must not pre-check for it.
func (s *IngredientService) Adopt(ctx context.Context, ti *domain.TenantIngredient) error {
	if ti.TenantID.IsZero() {
		return kernel.ValidationError("tenant is required")
	}
	if ti.CatalogIngredientID.IsZero() {
		return kernel.ValidationError("catalog ingredient is required")
	}
	if ti.PriceCents != nil && ti.PriceCents.IsNegative() {
		return kernel.ValidationError("price cannot be negative")
	}
	ti.IsActive = true

	if err := s.repo.CreateTenantIngredient(ctx, ti); err != nil {
		return err
	}
	s.log.Info().Str("tenant_ingredient_id", ti.ID.String()).Msg("tenant ingredient adopted")
	return nil
}

func (s *IngredientService) Get(ctx context.Context, tenantID kernel.TenantID, id kernel.TenantIngredientID) (*domain.TenantIngredient, error) {
	return s.repo.GetTenantIngredient(ctx, tenantID, id)
}

func (s *IngredientService) List(ctx context.Context, tenantID kernel.TenantID) ([]domain.TenantIngredient, error) {
	return s.repo.ListTenantIngredients(ctx, tenantID)
}

func (s *IngredientService) Update(ctx context.Context, ti *domain.TenantIngredient) error {
	if ti.PriceCents != nil && ti.PriceCents.IsNegative() {
		return kernel.ValidationError("price cannot be negative")
	}
	return s.repo.UpdateTenantIngredient(ctx, ti)
}

func (s *IngredientService) Delete(ctx context.Context, tenantID kernel.TenantID, id kernel.TenantIngredientID) error {
	return s.repo.DeleteTenantIngredient(ctx, tenantID, id)
}

func (s *IngredientService) BulkDelete(ctx context.Context, tenantID kernel.TenantID, ids []kernel.TenantIngredientID) error {
	if len(ids) == 0 {
		return nil
	}
	return s.repo.BulkDeleteTenantIngredients(ctx, tenantID, ids)
}
