package httpapi

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/aiinsights"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// AIInsightsHandlers serves the recipe-insights read/generate/refresh
// surface. Generation is fire-and-forget from the handler's point of view:
// Generate spawns a detached background job and the handler responds before
// it completes, the documented 202-style contract of §4.6.
type AIInsightsHandlers struct {
	service *aiinsights.Service
	log     zerolog.Logger
}

func NewAIInsightsHandlers(service *aiinsights.Service, log zerolog.Logger) *AIInsightsHandlers {
	return &AIInsightsHandlers{service: service, log: log}
}

// Get answers GET /api/recipes/v2/:id/insights/:lang: the latest stored
// insight for one language, or a POST-and-come-back-later 404 if generation
// hasn't run yet.
func (h *AIInsightsHandlers) Get(w http.ResponseWriter, r *http.Request, recipeIDParam, langParam string) {
	tenantID, _ := TenantID(r.Context())
	recipeID, err := parseRecipeID(recipeIDParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	lang, err := kernel.ParseLanguage(langParam)
	if err != nil {
		Error(w, h.log, kernel.ValidationError("unsupported language"))
		return
	}

	insights, err := h.service.Get(r.Context(), tenantID, recipeID, lang)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, insights)
}

// ListAllLanguages answers the per-recipe, all-languages read.
func (h *AIInsightsHandlers) ListAllLanguages(w http.ResponseWriter, r *http.Request, recipeIDParam string) {
	tenantID, _ := TenantID(r.Context())
	recipeID, err := parseRecipeID(recipeIDParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	list, err := h.service.ListAllLanguages(r.Context(), tenantID, recipeID)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, list)
}

// Generate answers POST /api/recipes/v2/:id/insights/:lang: first-time
// generation. 202 if a job was spawned, 200 if insights already existed and
// nothing new was queued.
func (h *AIInsightsHandlers) Generate(w http.ResponseWriter, r *http.Request, recipeIDParam, langParam string) {
	h.generate(w, r, recipeIDParam, langParam, false)
}

// Refresh answers POST /api/recipes/v2/:id/insights/:lang/refresh: forces
// regeneration even if an insight already exists.
func (h *AIInsightsHandlers) Refresh(w http.ResponseWriter, r *http.Request, recipeIDParam, langParam string) {
	h.generate(w, r, recipeIDParam, langParam, true)
}

func (h *AIInsightsHandlers) generate(w http.ResponseWriter, r *http.Request, recipeIDParam, langParam string, force bool) {
	tenantID, _ := TenantID(r.Context())
	recipeID, err := parseRecipeID(recipeIDParam)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	lang, err := kernel.ParseLanguage(langParam)
	if err != nil {
		Error(w, h.log, kernel.ValidationError("unsupported language"))
		return
	}

	spawned, err := h.service.Generate(r.Context(), tenantID, recipeID, lang, force)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	if spawned {
		RespondJSON(w, http.StatusAccepted, struct {
			Status string `json:"status"`
		}{Status: "generating"})
		return
	}
	RespondJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
	}{Status: "already_available"})
}
