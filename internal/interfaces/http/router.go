package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/clubgate/clubgate/internal/infrastructure/config"
	"github.com/clubgate/clubgate/internal/infrastructure/ratelimit"
	"github.com/clubgate/clubgate/internal/interfaces/http/handlers"
	"github.com/clubgate/clubgate/internal/interfaces/http/middleware"
	"github.com/clubgate/clubgate/internal/shared/logger"

	_ "github.com/clubgate/clubgate/docs"
)

// Router represents the HTTP router configuration
type Router struct {
	engine              *gin.Engine
	healthHandler       *handlers.HealthHandler
	paymentHandler      *handlers.PaymentHandler
	subscriptionHandler *handlers.SubscriptionHandler
	webhookHandler      *handlers.WebhookHandler
	adminHandler        *handlers.AdminHandler
	rateLimiter         ratelimit.RateLimiter
	cfg                 *config.Config
	logger              logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(
	healthHandler *handlers.HealthHandler,
	paymentHandler *handlers.PaymentHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	webhookHandler *handlers.WebhookHandler,
	adminHandler *handlers.AdminHandler,
	rateLimiter ratelimit.RateLimiter,
	cfg *config.Config,
	log logger.Interface,
) *Router {
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	return &Router{
		engine:              engine,
		healthHandler:       healthHandler,
		paymentHandler:      paymentHandler,
		subscriptionHandler: subscriptionHandler,
		webhookHandler:      webhookHandler,
		adminHandler:        adminHandler,
		rateLimiter:         rateLimiter,
		cfg:                 cfg,
		logger:              log,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery(r.logger))

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.engine.GET("/health", r.healthHandler.Check)

	webhookLimit := ratelimit.RateLimitConfig{
		RequestsPerMinute: r.cfg.RateLimit.RequestsPerMinute,
		RequestsPerHour:   r.cfg.RateLimit.RequestsPerHour,
	}
	r.engine.POST("/webhook/yookassa",
		middleware.IPRateLimit(r.rateLimiter, webhookLimit),
		r.webhookHandler.HandleNotification)

	api := r.engine.Group("/api/v1")
	{
		api.POST("/payments", r.paymentHandler.CreatePayment)
		api.GET("/subscriptions/:telegram_id", r.subscriptionHandler.GetStatus)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminToken(r.cfg.Admin.APIToken))
		{
			admin.POST("/promo/reset", r.adminHandler.ResetPromo)
		}
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
