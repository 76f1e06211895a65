package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/auth"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// ErrorResponse is the wire shape for every non-2xx response, stable ASCII
// codes for client branching plus a message that may be localized.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details any               `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorOption customizes an error response beyond the message/status pair.
type ErrorOption func(*ErrorResponse)

// WithDetails attaches structured detail, e.g. InsufficientStock's
// ingredient/needed/have triple.
func WithDetails(details any) ErrorOption {
	return func(r *ErrorResponse) { r.Details = details }
}

// WithFields attaches per-field validation messages.
func WithFields(fields map[string]string) ErrorOption {
	return func(r *ErrorResponse) { r.Fields = fields }
}

// JSON writes payload as a status-coded JSON response.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondJSON is an alias of JSON kept for call-site readability at 2xx
// sites, mirroring the teacher's httputil naming.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	JSON(w, status, payload)
}

func statusCode(code string) string {
	return "HTTP_" + code
}

// RespondError writes a status-coded ErrorResponse, filling in a stable
// Code derived from the status unless an option already set one.
func RespondError(w http.ResponseWriter, status int, message string, opts ...ErrorOption) {
	resp := ErrorResponse{Error: message, Code: statusCode(http.StatusText(status))}
	for _, opt := range opts {
		opt(&resp)
	}
	JSON(w, status, resp)
}

// InsufficientStockDetails is the {ingredient, needed, have} triple the
// specification requires on a 409 InsufficientStock response.
type InsufficientStockDetails struct {
	Ingredient string `json:"ingredient"`
	Needed     string `json:"needed"`
	Have       string `json:"have"`
}

// Error maps a service-layer error onto an HTTP status and writes it. This
// is the one place in the whole codebase that turns an error kind into a
// status code; everything above the HTTP boundary speaks in kernel errors.
func Error(w http.ResponseWriter, log zerolog.Logger, err error) {
	if err == nil {
		RespondError(w, http.StatusInternalServerError, "unknown error")
		return
	}

	switch {
	case errors.Is(err, kernel.ErrValidation):
		RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, kernel.ErrAuthentication), errors.Is(err, auth.ErrInvalidToken):
		RespondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, kernel.ErrAuthorization):
		RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, kernel.ErrNotFound):
		RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, kernel.ErrInsufficientStock):
		var stockErr *kernel.InsufficientStockErr
		if errors.As(err, &stockErr) {
			RespondError(w, http.StatusConflict, err.Error(), WithDetails(InsufficientStockDetails{
				Ingredient: stockErr.Ingredient,
				Needed:     stockErr.Needed.String(),
				Have:       stockErr.Have.String(),
			}))
			return
		}
		RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, kernel.ErrConflict):
		RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, kernel.ErrUpstreamTimeout):
		RespondError(w, http.StatusGatewayTimeout, "upstream service timed out")
	case errors.Is(err, kernel.ErrUpstreamError):
		RespondError(w, http.StatusBadGateway, "upstream service error")
	case errors.Is(err, kernel.ErrInternal):
		log.Error().Err(err).Msg("internal error")
		RespondError(w, http.StatusInternalServerError, "internal server error")
	default:
		log.Error().Err(err).Msg("unclassified error")
		RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
