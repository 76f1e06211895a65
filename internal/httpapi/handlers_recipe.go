package httpapi

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/recipe"
)

// RecipeHandlers serves recipe authoring, the cost-at-authoring-time
// snapshot, and the publish/archive lifecycle.
type RecipeHandlers struct {
	service *recipe.Service
	log     zerolog.Logger
}

func NewRecipeHandlers(service *recipe.Service, log zerolog.Logger) *RecipeHandlers {
	return &RecipeHandlers{service: service, log: log}
}

type recipeIngredientLineRequest struct {
	CatalogIngredientID string `json:"catalog_ingredient_id"`
	Quantity            string `json:"quantity"`
	Unit                string `json:"unit"`
}

type recipeRequest struct {
	NameDefault         string                        `json:"name_default"`
	InstructionsDefault string                        `json:"instructions_default"`
	LanguageDefault     string                        `json:"language_default"`
	Servings            int                           `json:"servings"`
	PrepTimeMinutes     *int                          `json:"prep_time_minutes,omitempty"`
	CookTimeMinutes     *int                           `json:"cook_time_minutes,omitempty"`
	IsPublic            bool                          `json:"is_public"`
	AutoTranslate       bool                          `json:"auto_translate"`
	Ingredients         []recipeIngredientLineRequest `json:"ingredients"`
}

func (req recipeRequest) toLines() ([]recipe.IngredientLineInput, error) {
	lines := make([]recipe.IngredientLineInput, 0, len(req.Ingredients))
	for _, l := range req.Ingredients {
		catalogID, err := parseCatalogIngredientID(l.CatalogIngredientID)
		if err != nil {
			return nil, err
		}
		qty, err := kernel.QuantityFromString(l.Quantity)
		if err != nil {
			return nil, kernel.ValidationError("invalid ingredient quantity")
		}
		lines = append(lines, recipe.IngredientLineInput{
			CatalogIngredientID: catalogID,
			Quantity:            qty,
			Unit:                domain.ParseUnitLoose(l.Unit),
		})
	}
	return lines, nil
}

func (h *RecipeHandlers) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())
	userID, _ := UserID(r.Context())

	var req recipeRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}
	lines, err := req.toLines()
	if err != nil {
		Error(w, h.log, err)
		return
	}

	lang := kernel.LanguageEN
	if req.LanguageDefault != "" {
		parsed, err := kernel.ParseLanguage(req.LanguageDefault)
		if err != nil {
			Error(w, h.log, kernel.ValidationError("unsupported language"))
			return
		}
		lang = parsed
	}

	rec := &domain.Recipe{
		ID:                  kernel.NewRecipeID(),
		TenantID:            tenantID,
		UserID:              userID,
		NameDefault:         req.NameDefault,
		InstructionsDefault: req.InstructionsDefault,
		LanguageDefault:     lang,
		Servings:            req.Servings,
		PrepTimeMinutes:     req.PrepTimeMinutes,
		CookTimeMinutes:     req.CookTimeMinutes,
		IsPublic:            req.IsPublic,
	}

	created, err := h.service.Create(r.Context(), rec, lines, req.AutoTranslate)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusCreated, created)
}

func (h *RecipeHandlers) Get(w http.ResponseWriter, r *http.Request, idParam string) {
	tenantID, _ := TenantID(r.Context())
	id, err := parseRecipeID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	rec, err := h.service.Get(r.Context(), tenantID, id)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	lines, err := h.service.Ingredients(r.Context(), id)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	translations, err := h.service.Translations(r.Context(), id)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	RespondJSON(w, http.StatusOK, struct {
		*domain.Recipe
		Ingredients  []domain.RecipeIngredient   `json:"ingredients"`
		Translations []domain.RecipeTranslation `json:"translations"`
	}{Recipe: rec, Ingredients: lines, Translations: translations})
}

func (h *RecipeHandlers) List(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())
	recipes, err := h.service.List(r.Context(), tenantID)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandlers) Update(w http.ResponseWriter, r *http.Request, idParam string) {
	tenantID, _ := TenantID(r.Context())
	id, err := parseRecipeID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	var req recipeRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}
	lines, err := req.toLines()
	if err != nil {
		Error(w, h.log, err)
		return
	}

	lang := kernel.LanguageEN
	if req.LanguageDefault != "" {
		parsed, err := kernel.ParseLanguage(req.LanguageDefault)
		if err != nil {
			Error(w, h.log, kernel.ValidationError("unsupported language"))
			return
		}
		lang = parsed
	}

	existing, err := h.service.Get(r.Context(), tenantID, id)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	existing.NameDefault = req.NameDefault
	existing.InstructionsDefault = req.InstructionsDefault
	existing.LanguageDefault = lang
	existing.Servings = req.Servings
	existing.PrepTimeMinutes = req.PrepTimeMinutes
	existing.CookTimeMinutes = req.CookTimeMinutes
	existing.IsPublic = req.IsPublic

	updated, err := h.service.Update(r.Context(), existing, lines, req.AutoTranslate)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, updated)
}

type publishRequest struct {
	AutoTranslate bool `json:"auto_translate"`
}

func (h *RecipeHandlers) Publish(w http.ResponseWriter, r *http.Request, idParam string) {
	tenantID, _ := TenantID(r.Context())
	id, err := parseRecipeID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	var req publishRequest
	if r.ContentLength > 0 {
		if err := DecodeJSON(w, r, &req); err != nil {
			Error(w, h.log, err)
			return
		}
	}

	published, err := h.service.Publish(r.Context(), tenantID, id, req.AutoTranslate)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, published)
}

func (h *RecipeHandlers) Archive(w http.ResponseWriter, r *http.Request, idParam string) {
	tenantID, _ := TenantID(r.Context())
	id, err := parseRecipeID(idParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	if err := h.service.Archive(r.Context(), tenantID, id); err != nil {
		Error(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkDelete archives several recipes in one call — recipes are
// soft-deleted via Archive (§3's Recipe lifecycle), never hard-deleted,
// so bulk delete is a loop over the same archive path Archive uses.
func (h *RecipeHandlers) BulkDelete(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())

	var req bulkIDsRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}

	result := bulkDeleteResult{}
	for _, raw := range req.IDs {
		id, err := parseRecipeID(raw)
		if err != nil {
			result.Failed = append(result.Failed, raw)
			continue
		}
		if err := h.service.Archive(r.Context(), tenantID, id); err != nil {
			result.Failed = append(result.Failed, raw)
			continue
		}
		result.DeletedCount++
	}
	RespondJSON(w, http.StatusOK, result)
}
