package httpapi

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/auth"
)

// AdminAuthHandlers serves the platform-admin login surface. Admins never
// register over HTTP and hold no refresh session — see auth.AdminService.
type AdminAuthHandlers struct {
	service *auth.AdminService
	log     zerolog.Logger
}

func NewAdminAuthHandlers(service *auth.AdminService, log zerolog.Logger) *AdminAuthHandlers {
	return &AdminAuthHandlers{service: service, log: log}
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

func (h *AdminAuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}

	admin, token, expiry, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	RespondJSON(w, http.StatusOK, struct {
		Admin any                `json:"admin"`
		Token adminTokenResponse `json:"token"`
	}{
		Admin: admin,
		Token: adminTokenResponse{
			AccessToken: token,
			ExpiresAt:   expiry.Format("2006-01-02T15:04:05Z07:00"),
		},
	})
}
