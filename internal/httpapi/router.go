package httpapi

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/auth"
	"github.com/iogar-platform/kitchenledger/internal/metrics"
	"github.com/iogar-platform/kitchenledger/internal/rate"
	"github.com/iogar-platform/kitchenledger/internal/repository"
)

// Handlers bundles every handler group the router wires up. One field per
// bounded concern, mirroring the package layout under internal/.
type Handlers struct {
	Auth            *AuthHandlers
	AdminAuth       *AdminAuthHandlers
	Catalog         *CatalogHandlers
	AdminCatalog    *AdminCatalogHandlers
	TenantIngredient *TenantIngredientHandlers
	Batch           *BatchHandlers
	Recipe          *RecipeHandlers
	Dish            *DishHandlers
	MenuEngineering *MenuEngineeringHandlers
	AIInsights      *AIInsightsHandlers
}

// Config contains every dependency the router needs to build its two
// middleware-wrapped sub-muxes (tenant-authenticated and admin-authenticated)
// plus the unauthenticated surface.
type Config struct {
	Logger         zerolog.Logger
	TokenManager   *auth.Manager
	AdminTokens    *auth.AdminManager
	Store          *repository.Store
	Handlers       Handlers
	Metrics        *metrics.Registry
	RateLimiter    *rate.Limiter
	HTTPRateLimit  int
	HTTPRateWindow time.Duration
	AllowedOrigins []string
}

// Router composes the full route tree behind the logging/recovery/CORS/
// security-header middleware stack, the same layering the teacher's
// internal/http/router applies.
type Router struct {
	mux *http.ServeMux
}

// New builds the fully wired router. Route registration mirrors the
// representative route surface in the spec's external-interfaces table,
// plus the supplemented bulk-delete/units endpoints.
func New(cfg Config) *Router {
	root := http.NewServeMux()

	root.HandleFunc("GET /health", Health)
	root.Handle("GET /metrics", promhttp.Handler())

	root.HandleFunc("POST /api/auth/register", cfg.Handlers.Auth.Register)
	root.HandleFunc("POST /api/auth/login", cfg.Handlers.Auth.Login)
	root.HandleFunc("POST /api/auth/refresh", cfg.Handlers.Auth.Refresh)
	root.HandleFunc("POST /api/auth/logout", cfg.Handlers.Auth.Logout)
	root.HandleFunc("POST /api/auth/forgot-password", cfg.Handlers.Auth.ForgotPassword)
	root.HandleFunc("POST /api/auth/reset-password", cfg.Handlers.Auth.ResetPassword)
	root.HandleFunc("POST /api/admin/auth/login", cfg.Handlers.AdminAuth.Login)

	tenantMux := http.NewServeMux()
	registerTenantRoutes(tenantMux, cfg.Handlers)
	tenantChain := TenantAuth(cfg.Logger, cfg.TokenManager, cfg.Store)(tenantMux)
	root.Handle("/api/me", tenantChain)
	root.Handle("/api/catalog/", tenantChain)
	root.Handle("/api/tenant/", tenantChain)
	root.Handle("/api/inventory/", tenantChain)
	root.Handle("/api/recipes/", tenantChain)
	root.Handle("/api/dishes", tenantChain)
	root.Handle("/api/dishes/", tenantChain)
	root.Handle("/api/menu-engineering/", tenantChain)
	root.Handle("/api/units", tenantChain)

	adminMux := http.NewServeMux()
	registerAdminRoutes(adminMux, cfg.Handlers)
	adminChain := AdminAuth(cfg.Logger, cfg.AdminTokens)(adminMux)
	root.Handle("/api/admin/categories", adminChain)
	root.Handle("/api/admin/products", adminChain)
	root.Handle("/api/admin/products/", adminChain)

	handler := SecurityHeaders(
		CORS(cfg.AllowedOrigins)(
			RecoverPanic(cfg.Logger)(
				Logger(cfg.Logger, cfg.Metrics)(
					RateLimit(cfg.RateLimiter, cfg.HTTPRateLimit, cfg.HTTPRateWindow)(root),
				),
			),
		),
	)

	return &Router{mux: httpMux(handler)}
}

// httpMux adapts a plain http.Handler into something ServeHTTP can return
// directly, keeping Router.Handler's signature stable if more
// process-wide wrapping is added later.
func httpMux(h http.Handler) *http.ServeMux {
	m := http.NewServeMux()
	m.Handle("/", h)
	return m
}

func registerTenantRoutes(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("GET /api/me", h.Auth.Me)

	mux.HandleFunc("GET /api/catalog/categories", h.Catalog.ListCategories)
	mux.HandleFunc("GET /api/catalog/ingredients", h.Catalog.SearchIngredients)

	mux.HandleFunc("GET /api/units", ListUnits)

	mux.HandleFunc("POST /api/tenant/ingredients", h.TenantIngredient.Adopt)
	mux.HandleFunc("GET /api/tenant/ingredients", h.TenantIngredient.List)
	mux.HandleFunc("GET /api/tenant/ingredients/{id}", withID(h.TenantIngredient.Get))
	mux.HandleFunc("PUT /api/tenant/ingredients/{id}", withID(h.TenantIngredient.Update))
	mux.HandleFunc("DELETE /api/tenant/ingredients/{id}", withID(h.TenantIngredient.Delete))
	mux.HandleFunc("POST /api/tenant/ingredients/bulk-delete", h.TenantIngredient.BulkDelete)

	mux.HandleFunc("POST /api/inventory/products", h.Batch.Receive)
	mux.HandleFunc("GET /api/inventory/products", h.Batch.List)
	mux.HandleFunc("GET /api/inventory/products/{id}", withID(h.Batch.Get))
	mux.HandleFunc("PUT /api/inventory/products/{id}", withID(h.Batch.Update))
	mux.HandleFunc("DELETE /api/inventory/products/{id}", withID(h.Batch.Delete))
	mux.HandleFunc("POST /api/inventory/products/bulk-delete", h.Batch.BulkDelete)
	mux.HandleFunc("GET /api/inventory/status", h.Batch.Status)
	mux.HandleFunc("POST /api/inventory/process-expirations", h.Batch.ProcessExpirations)
	mux.HandleFunc("GET /api/inventory/reports/loss", h.Batch.LossReport)
	mux.HandleFunc("GET /api/inventory/health", h.Batch.HealthScore)

	mux.HandleFunc("POST /api/recipes/v2", h.Recipe.Create)
	mux.HandleFunc("GET /api/recipes/v2", h.Recipe.List)
	mux.HandleFunc("GET /api/recipes/v2/{id}", withID(h.Recipe.Get))
	mux.HandleFunc("PUT /api/recipes/v2/{id}", withID(h.Recipe.Update))
	mux.HandleFunc("DELETE /api/recipes/v2/{id}", withID(h.Recipe.Archive))
	mux.HandleFunc("POST /api/recipes/v2/{id}/publish", withID(h.Recipe.Publish))
	mux.HandleFunc("POST /api/recipes/v2/bulk-delete", h.Recipe.BulkDelete)

	mux.HandleFunc("GET /api/recipes/v2/{id}/insights", withID(h.AIInsights.ListAllLanguages))
	mux.HandleFunc("GET /api/recipes/v2/{id}/insights/{lang}", withIDLang(h.AIInsights.Get))
	mux.HandleFunc("POST /api/recipes/v2/{id}/insights/{lang}", withIDLang(h.AIInsights.Generate))
	mux.HandleFunc("POST /api/recipes/v2/{id}/insights/{lang}/refresh", withIDLang(h.AIInsights.Refresh))

	mux.HandleFunc("POST /api/dishes", h.Dish.Create)
	mux.HandleFunc("GET /api/dishes", h.Dish.List)
	mux.HandleFunc("GET /api/dishes/{id}", withID(h.Dish.Get))
	mux.HandleFunc("DELETE /api/dishes/{id}", withID(h.Dish.Deactivate))

	mux.HandleFunc("POST /api/menu-engineering/sales", h.Dish.RecordSale)
	mux.HandleFunc("GET /api/menu-engineering/analysis", h.MenuEngineering.Analysis)
}

func registerAdminRoutes(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("GET /api/admin/categories", h.AdminCatalog.ListCategories)
	mux.HandleFunc("POST /api/admin/categories", h.AdminCatalog.CreateCategory)

	mux.HandleFunc("POST /api/admin/products", h.AdminCatalog.OnboardIngredient)
	mux.HandleFunc("GET /api/admin/products", h.AdminCatalog.ListIngredients)
	mux.HandleFunc("PUT /api/admin/products/{id}", withID(h.AdminCatalog.UpdateIngredient))
	mux.HandleFunc("DELETE /api/admin/products/{id}", withID(h.AdminCatalog.DeactivateIngredient))
	mux.HandleFunc("POST /api/admin/products/{id}/image", withID(h.AdminCatalog.UploadImage))
	mux.HandleFunc("DELETE /api/admin/products/{id}/image", withID(h.AdminCatalog.DeleteImage))
}

// withID adapts a handler that needs one path parameter to the plain
// http.HandlerFunc shape ServeMux wants.
func withID(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, r.PathValue("id"))
	}
}

// withIDLang adapts a handler that needs the recipe id plus a language path
// parameter, used by the per-(recipe,language) AI insights surface.
func withIDLang(fn func(http.ResponseWriter, *http.Request, string, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, r.PathValue("id"), r.PathValue("lang"))
	}
}

// ServeHTTP implements http.Handler.
func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router.mux.ServeHTTP(w, r)
}

// Handler returns the router as a plain http.Handler for http.Server.
func (router *Router) Handler() http.Handler {
	return router
}
