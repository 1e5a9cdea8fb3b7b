package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"itemtracker/internal/adapter/http/routes"
	"itemtracker/internal/core/telemetry"
	"itemtracker/pkg/config"
	"itemtracker/pkg/logger"
)

type Server struct {
	httpServer *http.Server
	config     *config.AppConfig
	logger     *logger.LokiLogger
}

func NewServer(container *Container, metrics *telemetry.AppMetrics, log *logger.LokiLogger, cfg *config.AppConfig) *Server {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	router := routes.SetupRouterWithConfig(container.Handlers(), metrics, log, cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		config: cfg,
		logger: log,
	}
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)

	if err != nil {
		return err
	}

	s.logger.Zap().Info("Server starting",
		zap.String("addr", listener.Addr().String()),
		zap.String("environment", s.config.Environment),
		zap.String("database_driver", s.config.Database.Driver),
		zap.Bool("rate_limit_enabled", s.config.RateLimit.Enabled),
		zap.Bool("https_enforced", s.config.Security.EnforceHTTPS))

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- s.httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	s.logger.Zap().Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
