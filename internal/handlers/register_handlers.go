package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/SscSPs/fuel_credit_app/cmd/docs"
	portssvc "github.com/SscSPs/fuel_credit_app/internal/core/ports/services"
	"github.com/SscSPs/fuel_credit_app/internal/middleware"
	"github.com/SscSPs/fuel_credit_app/internal/platform/config"
	"github.com/SscSPs/fuel_credit_app/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter builds the gin engine with the global middleware chain and every
// route registered.
func NewRouter(
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	analytics *utils.PosthogClientWrapper,
	logger *slog.Logger,
) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(corsConfig(cfg.CORSAllowedOrigins)),
		middleware.PosthogMiddleware(analytics),
	)
	if cfg.GlobalRateLimit != "" {
		globalLimiter, err := middleware.NewMemoryLimiter(cfg.GlobalRateLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to create global rate limiter: %w", err)
		}
		r.Use(middleware.RateLimit(globalLimiter, middleware.MsgTooManyRequests))
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	if err := RegisterRoutes(r, cfg, services); err != nil {
		return nil, err
	}
	return r, nil
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	authLimiter, err := middleware.NewMemoryLimiter(cfg.AuthRateLimit)
	if err != nil {
		return fmt.Errorf("failed to create auth rate limiter: %w", err)
	}
	requireAuth := middleware.AuthMiddleware(services.TokenService, services.User)

	registerHomeRoutes(r)

	auth := r.Group("/api/auth")
	registerAuthRoutes(auth, services, requireAuth, middleware.RateLimit(authLimiter, middleware.MsgTooManyAuthAttempts))
	registerUserRoutes(auth, services.User, requireAuth)

	setupSwaggerRoutes(r, cfg)
	return nil
}

func corsConfig(origins []string) cors.Config {
	conf := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = origins
	}
	return conf
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
