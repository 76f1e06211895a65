package httpapi

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/recipe"
)

// DishHandlers serves sellable dishes and the sale-recording endpoint that
// drives the FIFO inventory deduction core.
type DishHandlers struct {
	service *recipe.DishService
	log     zerolog.Logger
}

func NewDishHandlers(service *recipe.DishService, log zerolog.Logger) *DishHandlers {
	return &DishHandlers{service: service, log: log}
}

type createDishRequest struct {
	RecipeID          string `json:"recipe_id"`
	Name              string `json:"name"`
	SellingPriceCents int64  `json:"selling_price_cents"`
}

func (h *DishHandlers) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())
	userID, _ := UserID(r.Context())

	var req createDishRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}
	recipeID, err := parseRecipeID(req.RecipeID)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	dish := &domain.Dish{
		ID:                kernel.NewDishID(),
		TenantID:          tenantID,
		UserID:            userID,
		RecipeID:          recipeID,
		Name:              req.Name,
		SellingPriceCents: kernel.MoneyFromCents(req.SellingPriceCents),
	}
	if err := h.service.Create(r.Context(), dish); err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusCreated, dish)
}

func (h *DishHandlers) List(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())
	dishes, err := h.service.List(r.Context(), tenantID)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, dishes)
}

func (h *DishHandlers) Get(w http.ResponseWriter, r *http.Request, idParam string) {
	tenantID, _ := TenantID(r.Context())
	id, err := parseDishID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	dish, err := h.service.Get(r.Context(), tenantID, id)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, dish)
}

func (h *DishHandlers) Deactivate(w http.ResponseWriter, r *http.Request, idParam string) {
	tenantID, _ := TenantID(r.Context())
	id, err := parseDishID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	if err := h.service.Deactivate(r.Context(), tenantID, id); err != nil {
		Error(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type recordSaleRequest struct {
	DishID            string `json:"dish_id"`
	Quantity          int    `json:"quantity"`
	SellingPriceCents int64  `json:"selling_price_cents"`
	// RecipeCostCents is accepted for client compatibility but the service
	// ignores it, recomputing cost from the recipe's own snapshot.
	RecipeCostCents int64 `json:"recipe_cost_cents"`
}

// RecordSale is POST /api/menu-engineering/sales: validates the dish,
// consumes its recipe's ingredients FIFO within one serializable
// transaction, and either commits a DishSale row or fails the whole
// request with InsufficientStock, leaving inventory untouched.
func (h *DishHandlers) RecordSale(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())
	userID, _ := UserID(r.Context())

	var req recordSaleRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}
	dishID, err := parseDishID(req.DishID)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	sale, err := h.service.RecordSale(r.Context(), tenantID, userID, recipe.SaleInput{
		DishID:            dishID,
		Quantity:          req.Quantity,
		SellingPriceCents: kernel.MoneyFromCents(req.SellingPriceCents),
		RecipeCostCents:   kernel.MoneyFromCents(req.RecipeCostCents),
	})
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, sale)
}
