package recipe

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/metrics"
	"github.com/iogar-platform/kitchenledger/internal/repository"
)

// saleTime is the timestamp recorded on a DishSale; a function rather than
// an inline time.Now().UTC() call so a test can wrap DishService with a
// fixed clock if sale-ordering assertions ever need one.
func saleTime() time.Time { return time.Now().UTC() }

// dishRepository is the slice of *repository.Store the dish surface and the
// FIFO sale deduction need.
type dishRepository interface {
	CreateDish(ctx context.Context, d *domain.Dish) error
	GetDish(ctx context.Context, tenantID kernel.TenantID, id kernel.DishID) (*domain.Dish, error)
	GetDishForUpdateTx(ctx context.Context, tx pgx.Tx, tenantID kernel.TenantID, id kernel.DishID) (*domain.Dish, error)
	ListDishes(ctx context.Context, tenantID kernel.TenantID) ([]domain.Dish, error)
	DeactivateDish(ctx context.Context, tenantID kernel.TenantID, id kernel.DishID) error
	ListRecipeIngredients(ctx context.Context, recipeID kernel.RecipeID) ([]domain.RecipeIngredient, error)
	GetRecipeTx(ctx context.Context, tx pgx.Tx, tenantID kernel.TenantID, id kernel.RecipeID) (*domain.Recipe, error)
	ListConsumableBatchesForUpdate(ctx context.Context, tx pgx.Tx, tenantID kernel.TenantID, catalogIngredientID kernel.CatalogIngredientID) ([]domain.InventoryBatch, error)
	ConsumeBatchQuantityTx(ctx context.Context, tx pgx.Tx, batchID kernel.InventoryBatchID, newQuantity kernel.Quantity) error
	CreateDishSaleTx(ctx context.Context, tx pgx.Tx, sale *domain.DishSale) error
	ExecSerializableTx(ctx context.Context, fn func(pgx.Tx) error) error
}

// DishService manages sellable dishes and records sales through the FIFO
// inventory deduction core (§4.5).
type DishService struct {
	repo    dishRepository
	log     zerolog.Logger
	metrics *metrics.Registry
}

// NewDishService builds a DishService. metrics is optional; a nil registry
// disables the insufficient-stock counter.
func NewDishService(repo *repository.Store, log zerolog.Logger, reg *metrics.Registry) *DishService {
	return &DishService{repo: repo, log: log, metrics: reg}
}

// Create inserts a new sellable dish wrapping a recipe.
func (s *DishService) Create(ctx context.Context, d *domain.Dish) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return kernel.ValidationError("dish name is required")
	}
	if d.RecipeID.IsZero() {
		return kernel.ValidationError("dish must reference a recipe")
	}
	if d.SellingPriceCents.IsNegative() {
		return kernel.ValidationError("selling price cannot be negative")
	}
	d.IsActive = true
	return s.repo.CreateDish(ctx, d)
}

func (s *DishService) Get(ctx context.Context, tenantID kernel.TenantID, id kernel.DishID) (*domain.Dish, error) {
	return s.repo.GetDish(ctx, tenantID, id)
}

// List returns every active dish of a tenant — the menu.
func (s *DishService) List(ctx context.Context, tenantID kernel.TenantID) ([]domain.Dish, error) {
	return s.repo.ListDishes(ctx, tenantID)
}

// Deactivate removes a dish from the menu without deleting its sale history.
func (s *DishService) Deactivate(ctx context.Context, tenantID kernel.TenantID, id kernel.DishID) error {
	return s.repo.DeactivateDish(ctx, tenantID, id)
}

// SaleInput is one sale recording request. RecipeCostCents is accepted for
// API compatibility but is advisory only: RecordSale always recomputes the
// authoritative cost from the recipe's own frozen cost-per-serving snapshot
// (spec §9 open question: the server, not the client, is authoritative).
type SaleInput struct {
	DishID            kernel.DishID
	Quantity          int
	SellingPriceCents kernel.Money
	RecipeCostCents   kernel.Money
}

// RecordSale implements the FIFO deduction core (§4.5): validate the dish,
// load its recipe's frozen cost snapshot and ingredient lines, and within
// one serializable transaction consume batches of each required ingredient
// in strict received_at/created_at/id order, failing the whole sale if any
// ingredient falls short.
func (s *DishService) RecordSale(ctx context.Context, tenantID kernel.TenantID, userID kernel.UserID, in SaleInput) (*domain.DishSale, error) {
	if in.Quantity < 1 {
		return nil, kernel.ValidationError("sale quantity must be at least 1")
	}
	if in.SellingPriceCents.IsNegative() {
		return nil, kernel.ValidationError("sale price cannot be negative")
	}

	var sale domain.DishSale
	saleQty := kernel.QuantityFromFloat(float64(in.Quantity))

	err := s.repo.ExecSerializableTx(ctx, func(tx pgx.Tx) error {
		dish, err := s.repo.GetDishForUpdateTx(ctx, tx, tenantID, in.DishID)
		if err != nil {
			return err
		}
		if !dish.IsActive {
			return kernel.ValidationError("dish is not active")
		}

		recipeSnapshot, err := s.repo.GetRecipeTx(ctx, tx, tenantID, dish.RecipeID)
		if err != nil {
			return err
		}
		recipeCostCents := recipeSnapshot.CostPerServingCents

		lines, err := s.repo.ListRecipeIngredients(ctx, dish.RecipeID)
		if err != nil {
			return err
		}

		for _, line := range lines {
			required := line.Quantity.Mul(saleQty)
			if err := s.consumeFIFO(ctx, tx, tenantID, line, required); err != nil {
				return err
			}
		}

		sale = domain.NewDishSale(kernel.NewDishSaleID(), tenantID, in.DishID, userID, in.Quantity, in.SellingPriceCents, recipeCostCents, saleTime())
		return s.repo.CreateDishSaleTx(ctx, tx, &sale)
	})
	if err != nil {
		if s.metrics != nil && errors.Is(err, kernel.ErrInsufficientStock) {
			s.metrics.InsufficientStock.WithLabelValues(tenantID.String()).Inc()
		}
		return nil, err
	}

	s.log.Info().Str("dish_id", in.DishID.String()).Int("quantity", in.Quantity).Msg("dish sale recorded")
	return &sale, nil
}

// consumeFIFO deducts required from the ingredient's consumable batches in
// FIFO order, zeroing each batch it drains. It never partially applies a
// deduction across ingredients: a shortfall returns InsufficientStock and
// the caller's transaction rolls back everything recorded so far.
func (s *DishService) consumeFIFO(ctx context.Context, tx pgx.Tx, tenantID kernel.TenantID, line domain.RecipeIngredient, required kernel.Quantity) error {
	batches, err := s.repo.ListConsumableBatchesForUpdate(ctx, tx, tenantID, line.CatalogIngredientID)
	if err != nil {
		return err
	}

	available := kernel.Zero
	for _, batch := range batches {
		available = available.Add(batch.Quantity)
	}

	remaining := required
	for _, batch := range batches {
		if !remaining.IsPositive() {
			break
		}
		deduct := batch.Quantity
		if remaining.LessThan(deduct) {
			deduct = remaining
		}
		if err := s.repo.ConsumeBatchQuantityTx(ctx, tx, batch.ID, batch.Quantity.Sub(deduct)); err != nil {
			return err
		}
		remaining = remaining.Sub(deduct)
	}

	if remaining.IsPositive() {
		return kernel.InsufficientStockError(line.NameSnapshot, required, available)
	}
	return nil
}
