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

// stubDishRepo is a hand-written fake over dishRepository: enough state to
// exercise FIFO consumption order and the insufficient-stock rollback path
// without a database.
type stubDishRepo struct {
	dish     *domain.Dish
	recipe   *domain.Recipe
	lines    []domain.RecipeIngredient
	batches  []domain.InventoryBatch
	consumed map[kernel.InventoryBatchID]kernel.Quantity
	sale     *domain.DishSale
}

func (r *stubDishRepo) CreateDish(ctx context.Context, d *domain.Dish) error { return nil }
func (r *stubDishRepo) GetDish(ctx context.Context, tenantID kernel.TenantID, id kernel.DishID) (*domain.Dish, error) {
	return r.dish, nil
}
func (r *stubDishRepo) GetDishForUpdateTx(ctx context.Context, tx pgx.Tx, tenantID kernel.TenantID, id kernel.DishID) (*domain.Dish, error) {
	if r.dish == nil {
		return nil, kernel.ErrNotFound
	}
	return r.dish, nil
}
func (r *stubDishRepo) ListDishes(ctx context.Context, tenantID kernel.TenantID) ([]domain.Dish, error) {
	return nil, nil
}
func (r *stubDishRepo) DeactivateDish(ctx context.Context, tenantID kernel.TenantID, id kernel.DishID) error {
	return nil
}
func (r *stubDishRepo) ListRecipeIngredients(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeIngredient, error) {
	return r.lines, nil
}
func (r *stubDishRepo) GetRecipeTx(ctx context.Context, tx pgx.Tx, tenantID kernel.TenantID, id kernel.RecipeID) (*domain.Recipe, error) {
	if r.recipe == nil {
		return &domain.Recipe{ID: id, TenantID: tenantID, CostPerServingCents: kernel.MoneyFromCents(500)}, nil
	}
	return r.recipe, nil
}
func (r *stubDishRepo) ListConsumableBatchesForUpdate(ctx context.Context, tx pgx.Tx, tenantID kernel.TenantID, catalogIngredientID kernel.CatalogIngredientID) ([]domain.InventoryBatch, error) {
	out := make([]domain.InventoryBatch, 0, len(r.batches))
	for _, b := range r.batches {
		if b.CatalogIngredientID == catalogIngredientID && b.Quantity.IsPositive() {
			out = append(out, b)
		}
	}
	return out, nil
}
func (r *stubDishRepo) ConsumeBatchQuantityTx(ctx context.Context, tx pgx.Tx, batchID kernel.InventoryBatchID, newQuantity kernel.Quantity) error {
	if r.consumed == nil {
		r.consumed = map[kernel.InventoryBatchID]kernel.Quantity{}
	}
	r.consumed[batchID] = newQuantity
	for i := range r.batches {
		if r.batches[i].ID == batchID {
			r.batches[i].Quantity = newQuantity
		}
	}
	return nil
}
func (r *stubDishRepo) CreateDishSaleTx(ctx context.Context, tx pgx.Tx, sale *domain.DishSale) error {
	r.sale = sale
	return nil
}
func (r *stubDishRepo) ExecSerializableTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

func newTestDishService(repo dishRepository) *DishService {
	return &DishService{repo: repo, log: zerolog.New(io.Discard)}
}

func TestRecordSaleDrainsBatchesFIFOInReceivedAtOrder(t *testing.T) {
	ingredientID := kernel.NewCatalogIngredientID()
	b1 := kernel.NewInventoryBatchID()
	b2 := kernel.NewInventoryBatchID()

	repo := &stubDishRepo{
		dish: &domain.Dish{ID: kernel.NewDishID(), RecipeID: kernel.NewRecipeID(), IsActive: true},
		lines: []domain.RecipeIngredient{
			{CatalogIngredientID: ingredientID, Quantity: kernel.QuantityFromFloat(0.2), NameSnapshot: "X"},
		},
		batches: []domain.InventoryBatch{
			{ID: b1, CatalogIngredientID: ingredientID, Quantity: kernel.QuantityFromFloat(10)},
			{ID: b2, CatalogIngredientID: ingredientID, Quantity: kernel.QuantityFromFloat(5)},
		},
	}
	svc := newTestDishService(repo)

	sale, err := svc.RecordSale(context.Background(), kernel.NewTenantID(), kernel.NewUserID(), SaleInput{
		DishID:            repo.dish.ID,
		Quantity:          5,
		SellingPriceCents: kernel.MoneyFromCents(1500),
		RecipeCostCents:   kernel.MoneyFromCents(500),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sale.ProfitCents != kernel.MoneyFromCents(5000) {
		t.Fatalf("expected profit 5000, got %s", sale.ProfitCents)
	}

	// required = 0.2 * 5 = 1.0, entirely withdrawn from the earlier batch b1.
	if got := repo.consumed[b1]; got.String() != "9" {
		t.Fatalf("expected b1 drained to 9, got %s", got)
	}
	if got := repo.batches[1].Quantity; got.String() != "5" {
		t.Fatalf("expected b2 untouched at 5, got %s", got)
	}
}

func TestRecordSaleInsufficientStockReturnsErrorAndWritesNoSale(t *testing.T) {
	ingredientID := kernel.NewCatalogIngredientID()
	b2 := kernel.NewInventoryBatchID()

	repo := &stubDishRepo{
		dish: &domain.Dish{ID: kernel.NewDishID(), RecipeID: kernel.NewRecipeID(), IsActive: true},
		lines: []domain.RecipeIngredient{
			{CatalogIngredientID: ingredientID, Quantity: kernel.QuantityFromFloat(0.2), NameSnapshot: "X"},
		},
		batches: []domain.InventoryBatch{
			{ID: b2, CatalogIngredientID: ingredientID, Quantity: kernel.QuantityFromFloat(0.5)},
		},
	}
	svc := newTestDishService(repo)

	_, err := svc.RecordSale(context.Background(), kernel.NewTenantID(), kernel.NewUserID(), SaleInput{
		DishID:            repo.dish.ID,
		Quantity:          5,
		SellingPriceCents: kernel.MoneyFromCents(1500),
		RecipeCostCents:   kernel.MoneyFromCents(500),
	})
	if !errors.Is(err, kernel.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if repo.sale != nil {
		t.Fatalf("expected no sale row to be created")
	}
}

func TestRecordSaleRejectsInactiveDish(t *testing.T) {
	repo := &stubDishRepo{
		dish: &domain.Dish{ID: kernel.NewDishID(), RecipeID: kernel.NewRecipeID(), IsActive: false},
	}
	svc := newTestDishService(repo)

	_, err := svc.RecordSale(context.Background(), kernel.NewTenantID(), kernel.NewUserID(), SaleInput{
		DishID:            repo.dish.ID,
		Quantity:          1,
		SellingPriceCents: kernel.MoneyFromCents(1500),
		RecipeCostCents:   kernel.MoneyFromCents(500),
	})
	if err == nil {
		t.Fatalf("expected error for inactive dish")
	}
}

func TestRecordSaleRejectsZeroQuantity(t *testing.T) {
	svc := newTestDishService(&stubDishRepo{})
	_, err := svc.RecordSale(context.Background(), kernel.NewTenantID(), kernel.NewUserID(), SaleInput{
		DishID:   kernel.NewDishID(),
		Quantity: 0,
	})
	if !errors.Is(err, kernel.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
