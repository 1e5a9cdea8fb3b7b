package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"itemtracker/internal/core/telemetry"
	"itemtracker/pkg/config"
	"itemtracker/pkg/logger"
)

// SetupGinMiddleware installs the global chain. Rate limiting is attached
// per route group since user rules need the authenticated id.
func SetupGinMiddleware(router *gin.Engine, cfg *config.AppConfig, metrics *telemetry.AppMetrics, log *logger.LokiLogger) {
	router.Use(NewHTTPSEnforcer(cfg.Security.EnforceHTTPS, log.Zap()).HTTPSMiddleware())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(CurrentMiddleware())
	router.Use(LoggingMiddleware(log))

	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}

	router.Use(gin.Recovery())
	router.Use(CORSMiddleware(cfg.Security.AllowedOrigins))
}
