package tenantinv

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// stubIngredientRepo models the partial unique index on (tenant_id,
// catalog_ingredient_id) WHERE is_active as an in-memory map: a second
// adoption of the same still-active pair is rejected with ErrConflict, the
// same way the real unique index would surface it from the database.
type stubIngredientRepo struct {
	byID map[kernel.TenantIngredientID]*domain.TenantIngredient
}

func newStubIngredientRepo() *stubIngredientRepo {
	return &stubIngredientRepo{byID: map[kernel.TenantIngredientID]*domain.TenantIngredient{}}
}

func (r *stubIngredientRepo) CreateTenantIngredient(ctx context.Context, ti *domain.TenantIngredient) error {
	for _, existing := range r.byID {
		if existing.TenantID == ti.TenantID && existing.CatalogIngredientID == ti.CatalogIngredientID && existing.IsActive {
			return kernel.ConflictError("tenant already has this ingredient")
		}
	}
	ti.ID = kernel.NewTenantIngredientID()
	r.byID[ti.ID] = ti
	return nil
}
func (r *stubIngredientRepo) GetTenantIngredient(ctx context.Context, tenantID kernel.TenantID, id kernel.TenantIngredientID) (*domain.TenantIngredient, error) {
	if ti, ok := r.byID[id]; ok {
		return ti, nil
	}
	return nil, kernel.ErrNotFound
}
func (r *stubIngredientRepo) ListTenantIngredients(ctx context.Context, tenantID kernel.TenantID) ([]domain.TenantIngredient, error) {
	return nil, nil
}
func (r *stubIngredientRepo) UpdateTenantIngredient(ctx context.Context, ti *domain.TenantIngredient) error {
	r.byID[ti.ID] = ti
	return nil
}
func (r *stubIngredientRepo) DeleteTenantIngredient(ctx context.Context, tenantID kernel.TenantID, id kernel.TenantIngredientID) error {
	if ti, ok := r.byID[id]; ok {
		ti.IsActive = false
	}
	return nil
}
func (r *stubIngredientRepo) BulkDeleteTenantIngredients(ctx context.Context, tenantID kernel.TenantID, ids []kernel.TenantIngredientID) error {
	for _, id := range ids {
		if ti, ok := r.byID[id]; ok {
			ti.IsActive = false
		}
	}
	return nil
}

func newTestIngredientService(repo ingredientRepository) *IngredientService {
	return &IngredientService{repo: repo, log: zerolog.New(io.Discard)}
}

func TestAdoptDuplicateReturnsConflictThenSucceedsAfterSoftDelete(t *testing.T) {
	repo := newStubIngredientRepo()
	svc := newTestIngredientService(repo)
	tenantID := kernel.NewTenantID()
	catalogID := kernel.NewCatalogIngredientID()

	first := &domain.TenantIngredient{TenantID: tenantID, CatalogIngredientID: catalogID}
	if err := svc.Adopt(context.Background(), first); err != nil {
		t.Fatalf("first adopt failed: %v", err)
	}

	second := &domain.TenantIngredient{TenantID: tenantID, CatalogIngredientID: catalogID}
	err := svc.Adopt(context.Background(), second)
	if !errors.Is(err, kernel.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate adoption, got %v", err)
	}

	if err := svc.Delete(context.Background(), tenantID, first.ID); err != nil {
		t.Fatalf("soft-delete failed: %v", err)
	}

	third := &domain.TenantIngredient{TenantID: tenantID, CatalogIngredientID: catalogID}
	if err := svc.Adopt(context.Background(), third); err != nil {
		t.Fatalf("expected re-adoption after soft-delete to succeed, got %v", err)
	}
}

func TestAdoptRejectsNegativePrice(t *testing.T) {
	svc := newTestIngredientService(newStubIngredientRepo())
	price := kernel.MoneyFromCents(-100)
	ti := &domain.TenantIngredient{TenantID: kernel.NewTenantID(), CatalogIngredientID: kernel.NewCatalogIngredientID(), PriceCents: &price}

	err := svc.Adopt(context.Background(), ti)
	if !errors.Is(err, kernel.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative price, got %v", err)
	}
}

func TestAdoptRequiresTenantAndCatalogIngredient(t *testing.T) {
	svc := newTestIngredientService(newStubIngredientRepo())

	if err := svc.Adopt(context.Background(), &domain.TenantIngredient{CatalogIngredientID: kernel.NewCatalogIngredientID()}); !errors.Is(err, kernel.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing tenant, got %v", err)
	}
	if err := svc.Adopt(context.Background(), &domain.TenantIngredient{TenantID: kernel.NewTenantID()}); !errors.Is(err, kernel.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing catalog ingredient, got %v", err)
	}
}
