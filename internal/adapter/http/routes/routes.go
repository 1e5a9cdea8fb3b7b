package routes

import (
	"github.com/gin-gonic/gin"

	"itemtracker/internal/adapter/http/handler"
	"itemtracker/internal/adapter/http/middleware"
	"itemtracker/internal/core/port"
	"itemtracker/internal/core/telemetry"
	"itemtracker/pkg/config"
	"itemtracker/pkg/logger"
)

const APIPrefix = "/api/v1"

type HandlersConfig struct {
	AuthHandler   *handler.AuthHandler
	ItemHandler   *handler.ItemHandler
	StatsHandler  *handler.StatsHandler
	HealthHandler *handler.HealthHandler

	Tokens      port.TokenIssuer
	Users       port.UserService
	RateLimiter *middleware.RateLimiter
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, log *logger.LokiLogger, cfg *config.AppConfig) *gin.Engine {
	router := gin.New()

	middleware.SetupGinMiddleware(router, cfg, metrics, log)

	if handlers.HealthHandler != nil {
		router.GET("/healthz", handlers.HealthHandler.Healthz)
	}

	api := router.Group(APIPrefix)

	public := api.Group("")
	protected := api.Group("", middleware.Authenticated(handlers.Tokens, handlers.Users))

	if handlers.RateLimiter != nil {
		limit := handlers.RateLimiter.RateLimitMiddleware()

		public.Use(limit)
		protected.Use(limit)
	}

	if handlers.AuthHandler != nil {
		setupAuthRoutes(public, handlers.AuthHandler)
	}

	if handlers.StatsHandler != nil {
		setupStatsRoutes(public, handlers.StatsHandler)
	}

	if handlers.ItemHandler != nil {
		setupItemRoutes(public, protected, handlers.ItemHandler)
	}

	return router
}

func setupAuthRoutes(public *gin.RouterGroup, authHandler *handler.AuthHandler) {
	public.POST("/signup", authHandler.RegisterByEmailAndPassword)
	public.POST("/auth", authHandler.AuthByEmailAndPassword)
}

func setupStatsRoutes(public *gin.RouterGroup, statsHandler *handler.StatsHandler) {
	public.GET("/items/completed-count", statsHandler.CompletedCount)
	public.GET("/items/average_per_user", statsHandler.AveragePerUser)
	public.GET("/items/average_duration_completed", statsHandler.AverageDurationCompleted)
	public.GET("/items/totals", statsHandler.Totals)
	public.GET("/items/average-duration/:id", statsHandler.AverageDurationMinutes)
}

func setupItemRoutes(public, protected *gin.RouterGroup, itemHandler *handler.ItemHandler) {
	public.GET("/items/get_all", itemHandler.GetAll)

	protected.GET("/items", itemHandler.List)
	protected.POST("/items", itemHandler.Create)
	protected.GET("/items/:id", itemHandler.Get)
	protected.PUT("/items/:id", itemHandler.Update)
	protected.DELETE("/items/:id", itemHandler.Delete)
}
