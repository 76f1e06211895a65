package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

func TestErrorMapsKernelErrorKindsToStatus(t *testing.T) {
	log := zerolog.New(io.Discard)
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", kernel.ValidationError("bad input"), http.StatusBadRequest},
		{"authentication", kernel.AuthenticationError("no token"), http.StatusUnauthorized},
		{"authorization", kernel.AuthorizationError("wrong tenant"), http.StatusForbidden},
		{"not found", kernel.NotFoundError("recipe"), http.StatusNotFound},
		{"conflict", kernel.ConflictError("duplicate"), http.StatusConflict},
		{"insufficient stock", kernel.InsufficientStockError("Milk", kernel.QuantityFromFloat(1), kernel.QuantityFromFloat(0.5)), http.StatusConflict},
		{"upstream timeout", kernel.UpstreamTimeoutError("llm"), http.StatusGatewayTimeout},
		{"upstream error", kernel.UpstreamErrorf("llm", "bad response"), http.StatusBadGateway},
		{"internal", kernel.InternalErrorf("bug"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, log, tc.err)
			if rec.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestErrorAttachesInsufficientStockDetails(t *testing.T) {
	log := zerolog.New(io.Discard)
	rec := httptest.NewRecorder()
	err := kernel.InsufficientStockError("Milk", kernel.QuantityFromFloat(1), kernel.QuantityFromFloat(0.5))

	Error(rec, log, err)

	var body ErrorResponse
	if decodeErr := json.NewDecoder(rec.Body).Decode(&body); decodeErr != nil {
		t.Fatalf("decode response: %v", decodeErr)
	}
	details, ok := body.Details.(map[string]any)
	if !ok {
		t.Fatalf("expected details to decode as an object, got %T", body.Details)
	}
	if details["ingredient"] != "Milk" {
		t.Fatalf("expected ingredient Milk, got %v", details["ingredient"])
	}
	if details["needed"] != "1" {
		t.Fatalf("expected needed 1, got %v", details["needed"])
	}
	if details["have"] != "0.5" {
		t.Fatalf("expected have 0.5, got %v", details["have"])
	}
}

func TestErrorOnUnclassifiedErrorDefaultsTo500(t *testing.T) {
	log := zerolog.New(io.Discard)
	rec := httptest.NewRecorder()
	Error(rec, log, io.ErrUnexpectedEOF)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unclassified error, got %d", rec.Code)
	}
}

func TestRespondJSONWritesStatusAndBody(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]string{"ok": "true"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json content type, got %q", ct)
	}
}
