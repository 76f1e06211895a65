package httpapi

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/catalog"
	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// CatalogHandlers serves the tenant-facing, read-only canonical catalog:
// category browsing and the multi-language ingredient search.
type CatalogHandlers struct {
	service *catalog.Service
	log     zerolog.Logger
}

func NewCatalogHandlers(service *catalog.Service, log zerolog.Logger) *CatalogHandlers {
	return &CatalogHandlers{service: service, log: log}
}

func (h *CatalogHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, categories)
}

// SearchIngredients answers GET /api/catalog/ingredients?q=; q matches
// against any of the four localized name columns so a query in any
// supported language finds the same canonical row.
func (h *CatalogHandlers) SearchIngredients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	ingredients, err := h.service.Search(r.Context(), query)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, ingredients)
}

// AdminCatalogHandlers serves the platform-admin curation surface: category
// management and the universal-input ingredient onboarding pipeline.
type AdminCatalogHandlers struct {
	service *catalog.AdminService
	log     zerolog.Logger
}

func NewAdminCatalogHandlers(service *catalog.AdminService, log zerolog.Logger) *AdminCatalogHandlers {
	return &AdminCatalogHandlers{service: service, log: log}
}

type createCategoryRequest struct {
	Slug      string `json:"slug"`
	SortOrder int    `json:"sort_order"`
	NameEN    string `json:"name_en"`
	NamePL    string `json:"name_pl"`
	NameRU    string `json:"name_ru"`
	NameUK    string `json:"name_uk"`
}

func (h *AdminCatalogHandlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}

	category := &domain.CatalogCategory{
		ID:        kernel.NewCatalogCategoryID(),
		Slug:      req.Slug,
		SortOrder: req.SortOrder,
		NameEN:    req.NameEN,
		NamePL:    req.NamePL,
		NameRU:    req.NameRU,
		NameUK:    req.NameUK,
	}
	if err := h.service.CreateCategory(r.Context(), category); err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusCreated, category)
}

func (h *AdminCatalogHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, categories)
}

func (h *AdminCatalogHandlers) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.service.ListIngredients(r.Context())
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, ingredients)
}

type onboardIngredientRequest struct {
	NameInput     string  `json:"name_input"`
	AutoTranslate bool    `json:"auto_translate"`
	CategoryID    *string `json:"category_id,omitempty"`
	Unit          *string `json:"unit,omitempty"`
	NameEN        *string `json:"name_en,omitempty"`
	NamePL        *string `json:"name_pl,omitempty"`
	NameRU        *string `json:"name_ru,omitempty"`
	NameUK        *string `json:"name_uk,omitempty"`
}

// OnboardIngredient is the universal-input pipeline entry point: POST
// /api/admin/products, exercising normalize → dedup → translate → classify
// end to end for a single freeform name.
func (h *AdminCatalogHandlers) OnboardIngredient(w http.ResponseWriter, r *http.Request) {
	var req onboardIngredientRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}

	in := catalog.OnboardIngredientInput{
		NameInput:     req.NameInput,
		AutoTranslate: req.AutoTranslate,
		NameEN:        req.NameEN,
		NamePL:        req.NamePL,
		NameRU:        req.NameRU,
		NameUK:        req.NameUK,
	}
	if req.CategoryID != nil {
		id, err := parseCatalogCategoryID(*req.CategoryID)
		if err != nil {
			Error(w, h.log, err)
			return
		}
		in.CategoryID = &id
	}
	if req.Unit != nil {
		u := domain.ParseUnitLoose(*req.Unit)
		in.Unit = &u
	}

	ingredient, err := h.service.OnboardIngredient(r.Context(), in)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusCreated, ingredient)
}

func (h *AdminCatalogHandlers) UpdateIngredient(w http.ResponseWriter, r *http.Request, idParam string) {
	id, err := parseCatalogIngredientID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	var ing domain.CatalogIngredient
	if err := DecodeJSON(w, r, &ing); err != nil {
		Error(w, h.log, err)
		return
	}
	ing.ID = id

	if err := h.service.UpdateIngredient(r.Context(), &ing); err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, ing)
}

func (h *AdminCatalogHandlers) DeactivateIngredient(w http.ResponseWriter, r *http.Request, idParam string) {
	id, err := parseCatalogIngredientID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	if err := h.service.DeactivateIngredient(r.Context(), id); err != nil {
		Error(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminCatalogHandlers) UploadImage(w http.ResponseWriter, r *http.Request, idParam string) {
	id, err := parseCatalogIngredientID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		Error(w, h.log, kernel.ValidationError("invalid multipart upload"))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		Error(w, h.log, kernel.ValidationError("missing image file"))
		return
	}
	defer file.Close()

	url, err := h.service.UploadImage(r.Context(), id, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, struct {
		ImageURL string `json:"image_url"`
	}{ImageURL: url})
}

func (h *AdminCatalogHandlers) DeleteImage(w http.ResponseWriter, r *http.Request, idParam string) {
	id, err := parseCatalogIngredientID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	if err := h.service.DeleteImage(r.Context(), id); err != nil {
		Error(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
