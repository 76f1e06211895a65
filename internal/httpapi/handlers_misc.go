package httpapi

import (
	"net/http"

	"github.com/iogar-platform/kitchenledger/internal/domain"
)

// unitOption is one entry in the measurement-units listing, the thin
// convenience endpoint client dropdowns use instead of hardcoding the
// enumerated Unit set from §3.
type unitOption struct {
	Value   domain.Unit `json:"value"`
	Aliases []string    `json:"aliases"`
}

var unitOptions = []unitOption{
	{Value: domain.UnitPiece, Aliases: []string{"piece", "pieces", "unit", "units", "un", "pc"}},
	{Value: domain.UnitGram, Aliases: []string{"g", "gram", "grams", "gramo"}},
	{Value: domain.UnitKilogram, Aliases: []string{"kg", "kilo", "kilogram", "kilograms"}},
	{Value: domain.UnitMilliliter, Aliases: []string{"ml", "milliliter", "milliliters", "mililitro"}},
	{Value: domain.UnitLiter, Aliases: []string{"l", "liter", "liters", "litre"}},
}

// ListUnits answers GET /api/units: the enumerated Unit set plus the
// tolerant aliases ParseUnitLoose accepts at input.
func ListUnits(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, unitOptions)
}

// Health answers GET /health: liveness only, no dependency checks — readiness
// against the database/redis/minio pool lives behind a separate deploy-time
// check the spec treats as out of scope.
func Health(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
	}{Status: "ok"})
}
