package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/auth"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/metrics"
	"github.com/iogar-platform/kitchenledger/internal/rate"
	"github.com/iogar-platform/kitchenledger/internal/repository"
)

// TenantAuth validates a tenant user's access token, then loads that user's
// current language from the database rather than trusting the token's
// issue-time snapshot — a language change the user makes takes effect on
// their very next request instead of waiting for a fresh login.
func TenantAuth(log zerolog.Logger, manager *auth.Manager, repo *repository.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				RespondError(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			tenantID := kernel.TenantIDFrom(claims.TenantID)
			userID := kernel.UserIDFrom(claims.UserID)

			user, err := repo.GetUserByID(r.Context(), tenantID, userID)
			if err != nil {
				RespondError(w, http.StatusUnauthorized, "account no longer active")
				return
			}

			ctx := withTenantID(r.Context(), tenantID)
			ctx = withUserID(ctx, userID)
			ctx = withRole(ctx, claims.Role)
			ctx = withLanguage(ctx, user.Language)

			log.Debug().Str("tenant_id", tenantID.String()).Str("user_id", userID.String()).Str("path", r.URL.Path).Msg("authenticated request")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth validates a platform admin's access token. Admin tokens carry no
// tenant id and must never satisfy a tenant-scoped check.
func AdminAuth(log zerolog.Logger, manager *auth.AdminManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				RespondError(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			adminID := kernel.AdminIDFrom(claims.AdminID)
			ctx := withAdminID(r.Context(), adminID)
			ctx = withRole(ctx, claims.Role)

			log.Debug().Str("admin_id", adminID.String()).Str("path", r.URL.Path).Msg("authenticated admin request")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose authenticated role isn't in allowed. It
// reads the role TenantAuth puts on the context, so it only works wrapped
// inside TenantAuth; the router does not apply it to any route.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := Role(r.Context())
			if !ok {
				RespondError(w, http.StatusForbidden, "role required")
				return
			}
			for _, a := range allowed {
				if role == a {
					next.ServeHTTP(w, r)
					return
				}
			}
			RespondError(w, http.StatusForbidden, "insufficient role for this action")
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimPrefix(header, prefix)
	if token == "" {
		return "", false
	}
	return token, true
}

// CORS applies a configurable allowed-origin list. A single "*" entry
// permits any origin; otherwise the request's Origin header must match one
// of the configured values exactly.
func CORS(origins []string) func(http.Handler) http.Handler {
	wildcard := len(origins) == 1 && origins[0] == "*"
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (wildcard || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit throttles requests per client IP using the same Redis-backed
// fixed window as login throttling, for consistency across every
// multi-instance deployment of the service rather than an in-process
// limiter that resets per pod.
func RateLimit(limiter *rate.Limiter, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			allowed, err := limiter.Allow(r.Context(), "http:"+key, limit, window)
			if err != nil {
				// Fail open: a rate limiter outage must not take the whole API down.
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				RespondError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		return host[:idx]
	}
	return host
}

// Logger logs method/path/status/duration for every request at info level
// and, when reg is non-nil, records the same observation as the
// http_requests_total/http_request_duration_seconds metrics.
func Logger(log zerolog.Logger, reg *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration", elapsed).
				Msg("request")

			if reg != nil {
				status := strconv.Itoa(rec.status)
				reg.HTTPRequests.WithLabelValues(r.Method, r.URL.Path, status).Inc()
				reg.HTTPLatency.WithLabelValues(r.Method, r.URL.Path).Observe(elapsed.Seconds())
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// RecoverPanic converts a panic in any downstream handler into a 500
// instead of crashing the process, logging the recovered value.
func RecoverPanic(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("recovered from panic")
					RespondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders sets the conventional hardening header set.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		h.Set("Content-Security-Policy", "default-src 'self'")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
