package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iogar-platform/kitchenledger/internal/aiinsights"
	"github.com/iogar-platform/kitchenledger/internal/auth"
	"github.com/iogar-platform/kitchenledger/internal/cache"
	"github.com/iogar-platform/kitchenledger/internal/catalog"
	"github.com/iogar-platform/kitchenledger/internal/config"
	"github.com/iogar-platform/kitchenledger/internal/database"
	"github.com/iogar-platform/kitchenledger/internal/httpapi"
	"github.com/iogar-platform/kitchenledger/internal/llm"
	"github.com/iogar-platform/kitchenledger/internal/logger"
	"github.com/iogar-platform/kitchenledger/internal/mailer"
	"github.com/iogar-platform/kitchenledger/internal/menueng"
	"github.com/iogar-platform/kitchenledger/internal/metrics"
	"github.com/iogar-platform/kitchenledger/internal/rate"
	"github.com/iogar-platform/kitchenledger/internal/recipe"
	"github.com/iogar-platform/kitchenledger/internal/repository"
	"github.com/iogar-platform/kitchenledger/internal/storage"
	"github.com/iogar-platform/kitchenledger/internal/tenantinv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found or failed to load; using system environment variables if present")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.App.Env)
	log.Info().Msgf("starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	allowedOrigins := cfg.CORSOrigins()
	if len(allowedOrigins) == 0 {
		log.Warn().Msg("no CORS origins configured; only same-origin requests will be accepted")
	} else {
		log.Info().Strs("cors_allowed_origins", allowedOrigins).Msg("CORS configured")
	}

	ctx := context.Background()

	log.Info().Msg("connecting to PostgreSQL")
	pool, err := database.Connect(ctx, cfg.PostgresDSN(), 25)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	log.Info().Msg("connecting to Redis")
	redisClient, err := cache.New(cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TLSEnabled)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("Redis connected")

	log.Info().Msg("connecting to MinIO")
	storageClient, err := storage.New(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.Region, cfg.MinIO.UseSSL, cfg.MinIO.PresignTTL)
	if err != nil {
		return fmt.Errorf("connect to minio: %w", err)
	}
	if err := storageClient.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("ensure minio bucket: %w", err)
	}
	log.Info().Msg("MinIO connected")

	mailClient := mailer.NewSMTPClient(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.FromAddress, cfg.SMTP.TLSRequired)

	var metricsRegistry *metrics.Registry
	if cfg.Observability.PrometheusEnabled {
		metricsRegistry = metrics.NewRegistry()
	}

	log.Info().Msg("connecting to the LLM provider")
	llmClient, err := llm.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.RequestTimeout, cfg.LLM.TaskTimeout, log, metricsRegistry)
	if err != nil {
		return fmt.Errorf("init llm client: %w", err)
	}

	tokenManager := auth.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenDuration)
	adminTokenManager := auth.NewAdminManager(cfg.JWT.AdminSecret, cfg.JWT.Issuer, cfg.JWT.AccessTokenDuration)

	limiter := rate.NewLimiter(redisClient)

	store := repository.New(pool)

	authService := auth.NewService(store, tokenManager, cfg.JWT.PasswordPepper, cfg.JWT.RefreshTokenDuration, limiter, cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow, log)
	adminAuthService := auth.NewAdminService(store, adminTokenManager, cfg.JWT.PasswordPepper, log)
	passwordResetService := auth.NewPasswordResetService(store, mailClient, cfg.JWT.PasswordPepper, cfg.App.ExternalURL, log)

	catalogService := catalog.NewService(store, log)
	adminCatalogService := catalog.NewAdminService(store, llmClient, storageClient, log)

	tenantIngredientService := tenantinv.NewIngredientService(store, log)
	batchService := tenantinv.NewBatchService(store, log)

	recipeService := recipe.NewService(store, llmClient, log)
	dishService := recipe.NewDishService(store, log, metricsRegistry)

	menuEngineeringService := menueng.NewService(store)
	aiInsightsService := aiinsights.NewService(store, llmClient, cfg.LLM.Model, log)

	handlers := httpapi.Handlers{
		Auth:             httpapi.NewAuthHandlers(authService, passwordResetService, store, log),
		AdminAuth:        httpapi.NewAdminAuthHandlers(adminAuthService, log),
		Catalog:          httpapi.NewCatalogHandlers(catalogService, log),
		AdminCatalog:     httpapi.NewAdminCatalogHandlers(adminCatalogService, log),
		TenantIngredient: httpapi.NewTenantIngredientHandlers(tenantIngredientService, log),
		Batch:            httpapi.NewBatchHandlers(batchService, log),
		Recipe:           httpapi.NewRecipeHandlers(recipeService, log),
		Dish:             httpapi.NewDishHandlers(dishService, log),
		MenuEngineering:  httpapi.NewMenuEngineeringHandlers(menuEngineeringService, log),
		AIInsights:       httpapi.NewAIInsightsHandlers(aiInsightsService, log),
	}

	router := httpapi.New(httpapi.Config{
		Logger:         log,
		TokenManager:   tokenManager,
		AdminTokens:    adminTokenManager,
		Store:          store,
		Handlers:       handlers,
		Metrics:        metricsRegistry,
		RateLimiter:    limiter,
		HTTPRateLimit:  cfg.RateLimit.HTTPRequests,
		HTTPRateWindow: cfg.RateLimit.HTTPWindow,
		AllowedOrigins: allowedOrigins,
	})

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Msgf("HTTP server listening on %s", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		log.Info().Msgf("shutdown signal received: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error during graceful shutdown")
			return err
		}

		log.Info().Msg("server shut down cleanly")
	}

	return nil
}
