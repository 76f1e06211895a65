package httpapi

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/menueng"
)

// MenuEngineeringHandlers serves the BCG/ABC classification report. Sale
// recording itself lives on DishHandlers.RecordSale — this handler is
// read-only analysis over the sales ledger.
type MenuEngineeringHandlers struct {
	service *menueng.Service
	log     zerolog.Logger
}

func NewMenuEngineeringHandlers(service *menueng.Service, log zerolog.Logger) *MenuEngineeringHandlers {
	return &MenuEngineeringHandlers{service: service, log: log}
}

// Analysis answers GET /api/menu-engineering/analysis?period_days=N&language=...
func (h *MenuEngineeringHandlers) Analysis(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())
	lang, _ := Language(r.Context())

	periodDays, err := QueryInt(r, "period_days", 30)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	if raw := r.URL.Query().Get("language"); raw != "" {
		parsed, err := kernel.ParseLanguage(raw)
		if err != nil {
			Error(w, h.log, kernel.ValidationError("unsupported language"))
			return
		}
		lang = parsed
	}

	analysis, err := h.service.Analyze(r.Context(), tenantID, periodDays, lang)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	RespondJSON(w, http.StatusOK, analysis)
}
