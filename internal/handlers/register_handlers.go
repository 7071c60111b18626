package handlers

import (
	"github.com/SscSPs/journal_draft_app/cmd/docs"
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	portssvc "github.com/SscSPs/journal_draft_app/internal/core/ports/services"
	"github.com/SscSPs/journal_draft_app/internal/middleware"
	"github.com/SscSPs/journal_draft_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	lim *limiter.Limiter,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, lim)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	lim *limiter.Limiter,
) {
	// Auth runs first so the limiter can key on the user
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	if lim != nil {
		v1.Use(middleware.RateLimit(lim))
	}

	company := v1.Group("/companies/:companyID")
	RegisterReferenceRoutes(company, service.Reference)
	RegisterDraftRoutes(company, service.Draft)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// registerBindingValidators adds the custom binding tags used by the DTOs.
func registerBindingValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("side", validateSide)
	}
}

func validateSide(fl validator.FieldLevel) bool {
	_, err := domain.ParseSide(fl.Field().String())
	return err == nil
}
