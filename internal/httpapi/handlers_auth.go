package httpapi

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/auth"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/repository"
)

// AuthHandlers exposes the unauthenticated registration/login/refresh
// surface plus the forgot/reset-password flow.
type AuthHandlers struct {
	service      *auth.Service
	resetService *auth.PasswordResetService
	repo         *repository.Store
	log          zerolog.Logger
}

func NewAuthHandlers(service *auth.Service, resetService *auth.PasswordResetService, repo *repository.Store, log zerolog.Logger) *AuthHandlers {
	return &AuthHandlers{service: service, resetService: resetService, repo: repo, log: log}
}

type registerRequest struct {
	RestaurantName string `json:"restaurant_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Language       string `json:"language"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}

	lang := kernel.LanguageEN
	if req.Language != "" {
		parsed, err := kernel.ParseLanguage(req.Language)
		if err != nil {
			Error(w, h.log, kernel.ValidationError("unsupported language"))
			return
		}
		lang = parsed
	}

	user, tokens, err := h.service.Register(r.Context(), auth.RegisterInput{
		TenantName: req.RestaurantName,
		Email:      req.Email,
		Password:   req.Password,
		Language:   lang,
	})
	if err != nil {
		Error(w, h.log, err)
		return
	}

	RespondJSON(w, http.StatusCreated, struct {
		User  any           `json:"user"`
		Token tokenResponse `json:"tokens"`
	}{
		User: user,
		Token: tokenResponse{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			ExpiresAt:    tokens.AccessExpiry.Format("2006-01-02T15:04:05Z07:00"),
		},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}

	user, tokens, err := h.service.Login(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		Error(w, h.log, err)
		return
	}

	RespondJSON(w, http.StatusOK, struct {
		User  any           `json:"user"`
		Token tokenResponse `json:"tokens"`
	}{
		User: user,
		Token: tokenResponse{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			ExpiresAt:    tokens.AccessExpiry.Format("2006-01-02T15:04:05Z07:00"),
		},
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}

	_, tokens, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	RespondJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.AccessExpiry.Format("2006-01-02T15:04:05Z07:00"),
	})
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}
	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		Error(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword never reveals whether the email exists: a known and an
// unknown email both get a 202. A malformed body or a storage failure still
// yields an error status.
func (h *AuthHandlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}
	if _, err := h.resetService.IssueToken(r.Context(), req.Email); err != nil {
		Error(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, h.log, err)
		return
	}
	if err := h.resetService.Complete(r.Context(), req.Token, req.Password); err != nil {
		Error(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated caller's own user and tenant, the
// `GET /api/me` endpoint exercised directly after login in the spec's
// end-to-end register scenario.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantID(r.Context())
	userID, _ := UserID(r.Context())

	user, err := h.repo.GetUserByID(r.Context(), tenantID, userID)
	if err != nil {
		Error(w, h.log, err)
		return
	}
	tenant, err := h.repo.GetTenantByID(r.Context(), tenantID)
	if err != nil {
		Error(w, h.log, err)
		return
	}

	RespondJSON(w, http.StatusOK, struct {
		User   any `json:"user"`
		Tenant any `json:"tenant"`
	}{User: user, Tenant: tenant})
}
