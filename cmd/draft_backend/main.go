package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/journal_draft_app/internal/adapters/database/memory"
	"github.com/SscSPs/journal_draft_app/internal/adapters/database/pgsql"
	"github.com/SscSPs/journal_draft_app/internal/adapters/graphql"
	portsrepo "github.com/SscSPs/journal_draft_app/internal/core/ports/repositories"
	"github.com/SscSPs/journal_draft_app/internal/core/services"
	"github.com/SscSPs/journal_draft_app/internal/handlers"
	"github.com/SscSPs/journal_draft_app/internal/middleware"
	"github.com/SscSPs/journal_draft_app/internal/platform/config"
	"github.com/SscSPs/journal_draft_app/internal/utils"
	"github.com/SscSPs/journal_draft_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// @title Journal Draft API
// @version 1.0
// @description Drafts of double-entry journal entries: line edits, balance checks and submission to the accounting gateway.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drafts, closeStore, err := newDraftStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize draft store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	gateway := newGatewayClient(ctx, cfg)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	container := services.NewServiceContainer(cfg, drafts, gateway, posthogClient)

	var lim *limiter.Limiter
	if cfg.RateLimit != "" {
		lim, err = middleware.NewRateLimiter(cfg.RateLimit)
		if err != nil {
			logger.Error("Invalid RATE_LIMIT", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS for the browser editor)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, lim)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

// newDraftStore picks the pgsql store when a database is configured and the
// in-memory store otherwise. The returned func releases its resources.
func newDraftStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.DraftRepositoryFacade, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("Using in-memory draft store", slog.Duration("idle_ttl", cfg.DraftIdleTTL))
		return memory.NewDraftRepository(cfg.DraftIdleTTL), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations", logger); err != nil {
		dbPool.Close()
		return nil, nil, err
	}

	repo := pgsql.NewDraftRepository(dbPool)
	go services.RunDraftJanitor(ctx, repo, cfg.DraftIdleTTL, 0, logger)

	return repo, func() { database.ClosePgxPool(dbPool) }, nil
}

func newGatewayClient(ctx context.Context, cfg *config.Config) *graphql.Client {
	var opts []graphql.Option
	switch {
	case cfg.UsesClientCredentials():
		opts = append(opts, graphql.WithTokenSource(
			graphql.NewClientCredentialsTokenSource(ctx, cfg.GraphQLClientID, cfg.GraphQLClientSecret, cfg.GraphQLTokenURL),
		))
	case cfg.GraphQLAPIToken != "":
		opts = append(opts, graphql.WithStaticToken(cfg.GraphQLAPIToken))
	}
	return graphql.NewClient(cfg.GraphQLEndpoint, graphql.NewHTTPClient(cfg.GraphQLTimeout), opts...)
}
