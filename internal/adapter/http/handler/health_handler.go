package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"itemtracker/internal/core/port"
	"itemtracker/pkg/logger"
)

type HealthHandler struct {
	store  port.Store
	Logger *logger.LokiLogger
}

func NewHealthHandler(store port.Store, log *logger.LokiLogger) *HealthHandler {
	if log == nil {
		log = logger.Nop()
	}

	return &HealthHandler{store: store, Logger: log}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.Logger.Ctx(ctx).Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
