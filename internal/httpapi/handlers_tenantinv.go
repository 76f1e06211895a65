package httpapi

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/tenantinv"
)

// TenantIngredientHandlers serves a tenant's adoption of catalog
// ingredients: their own price, supplier, and unit/shelf-life overrides.
type TenantIngredientHandlers struct {
	service *tenantinv.IngredientService
	log     zerolog.Logger
}

func NewTenantIngredientHandlers(service *tenantinv.IngredientService, log zerolog.Logger) *TenantIngredientHandlers {
	return &TenantIngredientHandlers{service: service, log: log}
}

type adoptIngredientRequest struct {
	CatalogIngredientID string  `json:"catalog_ingredient_id"`
	PriceCents          *int64  `json:"price_cents,omitempty"`
	Supplier            *string `json:"supplier,omitempty"`
	CustomUnit          *string `json:"custom_unit,omitempty"`
	CustomShelfLifeDays *int    `json:"custom_shelf_life_days,omitempty"`
	Notes               *string `json:"notes,omitempty"`
}

func (h *TenantIngredientHandlers) Adopt(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())

	var req adoptIngredientRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}

	catalogID, err := parseCatalogIngredientID(req.CatalogIngredientID)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	ti := &domain.TenantIngredient{
		ID:                  kernel.NewTenantIngredientID(),
		TenantID:            tenantID,
		CatalogIngredientID: catalogID,
		Supplier:            req.Supplier,
		CustomShelfLifeDays: req.CustomShelfLifeDays,
		Notes:               req.Notes,
		IsActive:            true,
	}
	if req.PriceCents != nil {
		m := kernel.MoneyFromCents(*req.PriceCents)
		ti.PriceCents = &m
	}
	if req.CustomUnit != nil {
		u := domain.ParseUnitLoose(*req.CustomUnit)
		ti.CustomUnit = &u
	}

	if err := h.service.Adopt(r.Context(), ti); err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusCreated, ti)
}

func (h *TenantIngredientHandlers) List(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())
	list, err := h.service.List(r.Context(), tenantID)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, list)
}

func (h *TenantIngredientHandlers) Get(w http.ResponseWriter, r *http.Request, idParam string) {
	tenantID, _ := TenantID(r.Context())
	id, err := parseTenantIngredientID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	ti, err := h.service.Get(r.Context(), tenantID, id)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, ti)
}

func (h *TenantIngredientHandlers) Update(w http.ResponseWriter, r *http.Request, idParam string) {
	tenantID, _ := TenantID(r.Context())
	id, err := parseTenantIngredientID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	var ti domain.TenantIngredient
	if err := DecodeJSON(w, r, &ti); err != nil {
		Error(w, h.log, err)
		return
	}
	ti.ID = id
	ti.TenantID = tenantID

	if err := h.service.Update(r.Context(), &ti); err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, ti)
}

func (h *TenantIngredientHandlers) Delete(w http.ResponseWriter, r *http.Request, idParam string) {
	tenantID, _ := TenantID(r.Context())
	id, err := parseTenantIngredientID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	if err := h.service.Delete(r.Context(), tenantID, id); err != nil {
		Error(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BatchHandlers serves inventory batch receiving, adjustment, status, the
// expiration sweep, and the derived loss/health reports.
type BatchHandlers struct {
	service *tenantinv.BatchService
	log     zerolog.Logger
}

func NewBatchHandlers(service *tenantinv.BatchService, log zerolog.Logger) *BatchHandlers {
	return &BatchHandlers{service: service, log: log}
}

type receiveBatchRequest struct {
	CatalogIngredientID string     `json:"catalog_ingredient_id"`
	PricePerUnitCents   int64      `json:"price_per_unit_cents"`
	Quantity            string     `json:"quantity"`
	ReceivedAt          *time.Time `json:"received_at,omitempty"`
	ExpiresAt           *time.Time `json:"expires_at,omitempty"`
}

func (h *BatchHandlers) Receive(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())
	userID, _ := UserID(r.Context())

	var req receiveBatchRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}

	catalogID, err := parseCatalogIngredientID(req.CatalogIngredientID)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	qty, err := kernel.QuantityFromString(req.Quantity)
	if err != nil {
		Error(w, h.log, kernel.ValidationError("invalid quantity"))
		return
	}

	receivedAt := time.Now().UTC()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	batch := &domain.InventoryBatch{
		ID:                  kernel.NewInventoryBatchID(),
		TenantID:            tenantID,
		UserID:              userID,
		CatalogIngredientID: catalogID,
		PricePerUnitCents:   kernel.MoneyFromCents(req.PricePerUnitCents),
		Quantity:            qty,
		ReceivedAt:          receivedAt,
		ExpiresAt:           req.ExpiresAt,
	}
	if err := h.service.Receive(r.Context(), batch); err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusCreated, batch)
}

func (h *BatchHandlers) List(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())
	catalogID, err := optionalCatalogIngredientID(r)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	batches, err := h.service.List(r.Context(), tenantID, catalogID)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, batches)
}

func (h *BatchHandlers) Get(w http.ResponseWriter, r *http.Request, idParam string) {
	tenantID, _ := TenantID(r.Context())
	id, err := parseInventoryBatchID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	batch, err := h.service.Get(r.Context(), tenantID, id)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, batch)
}

func (h *BatchHandlers) Update(w http.ResponseWriter, r *http.Request, idParam string) {
	tenantID, _ := TenantID(r.Context())
	id, err := parseInventoryBatchID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	var batch domain.InventoryBatch
	if err := DecodeJSON(w, r, &batch); err != nil {
		Error(w, h.log, err)
		return
	}
	batch.ID = id
	batch.TenantID = tenantID

	if err := h.service.Update(r.Context(), &batch); err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, batch)
}

// optionalCatalogIngredientID reads the catalog_ingredient_id query
// parameter when present; an absent or blank value means "every
// ingredient", the tenant-wide inventory view §4.4 requires.
func optionalCatalogIngredientID(r *http.Request) (kernel.CatalogIngredientID, error) {
	raw := r.URL.Query().Get("catalog_ingredient_id")
	if raw == "" {
		return kernel.CatalogIngredientID{}, nil
	}
	return parseCatalogIngredientID(raw)
}

func (h *BatchHandlers) Delete(w http.ResponseWriter, r *http.Request, idParam string) {
	tenantID, _ := TenantID(r.Context())
	id, err := parseInventoryBatchID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	if err := h.service.Delete(r.Context(), tenantID, id); err != nil {
		Error(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BatchHandlers) Status(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())
	catalogID, err := optionalCatalogIngredientID(r)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	withinDays, err := QueryInt(r, "within_days", 3)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	status, err := h.service.Status(r.Context(), tenantID, catalogID, time.Now().UTC(), withinDays)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, status)
}

func (h *BatchHandlers) ProcessExpirations(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())
	count, err := h.service.ProcessExpirations(r.Context(), tenantID, time.Now().UTC())
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, struct {
		ExpiredCount int `json:"expired_count"`
	}{ExpiredCount: count})
}

func (h *BatchHandlers) LossReport(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())
	days, err := QueryInt(r, "period_days", 30)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	report, err := h.service.LossReport(r.Context(), tenantID, since)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, report)
}

func (h *BatchHandlers) HealthScore(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())
	catalogID, err := optionalCatalogIngredientID(r)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	score, err := h.service.HealthScore(r.Context(), tenantID, catalogID, time.Now().UTC())
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, struct {
		Score int `json:"score"`
	}{Score: score})
}

// bulkIDsRequest is the shared wire shape for every bulk-delete endpoint: a
// flat list of ids, tenant-scoped like the single-entity delete it wraps.
type bulkIDsRequest struct {
	IDs []string `json:"ids"`
}

type bulkDeleteResult struct {
	DeletedCount int      `json:"deleted_count"`
	Failed       []string `json:"failed,omitempty"`
}

// BulkDelete removes several tenant_ingredient rows in one call, a thin
// convenience wrapper over the per-row delete that still enforces
// tenant-scoping on every id.
func (h *TenantIngredientHandlers) BulkDelete(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())

	var req bulkIDsRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}

	result := bulkDeleteResult{}
	for _, raw := range req.IDs {
		id, err := parseTenantIngredientID(raw)
		if err != nil {
			result.Failed = append(result.Failed, raw)
			continue
		}
		if err := h.service.Delete(r.Context(), tenantID, id); err != nil {
			result.Failed = append(result.Failed, raw)
			continue
		}
		result.DeletedCount++
	}
	RespondJSON(w, http.StatusOK, result)
}

// BulkDelete removes several inventory batches in one call.
func (h *BatchHandlers) BulkDelete(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())

	var req bulkIDsRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}

	result := bulkDeleteResult{}
	for _, raw := range req.IDs {
		id, err := parseInventoryBatchID(raw)
		if err != nil {
			result.Failed = append(result.Failed, raw)
			continue
		}
		if err := h.service.Delete(r.Context(), tenantID, id); err != nil {
			result.Failed = append(result.Failed, raw)
			continue
		}
		result.DeletedCount++
	}
	RespondJSON(w, http.StatusOK, result)
}
