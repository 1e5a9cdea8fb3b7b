package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	. "itemtracker/internal/adapter/http/helper"
	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/model/response"
	"itemtracker/internal/core/port"
	"itemtracker/pkg/logger"
)

type StatsHandler struct {
	svc    port.StatsService
	Logger *logger.LokiLogger
}

func NewStatsHandler(svc port.StatsService, log *logger.LokiLogger) *StatsHandler {
	if log == nil {
		log = logger.Nop()
	}

	return &StatsHandler{svc: svc, Logger: log}
}

func (h *StatsHandler) CompletedCount(c *gin.Context) {
	ctx, span := startHandlerSpan(c, "handler.stats.CompletedCount")
	defer span.End()

	count, err := h.svc.CompletedCount(ctx)

	if err != nil {
		fail(ctx, c, span, h.Logger, "Error counting completed items", err)
		return
	}

	SendSuccess(c, http.StatusOK, count)
}

func (h *StatsHandler) AveragePerUser(c *gin.Context) {
	ctx, span := startHandlerSpan(c, "handler.stats.AveragePerUser")
	defer span.End()

	avg, err := h.svc.AveragePerUser(ctx)

	if err != nil {
		fail(ctx, c, span, h.Logger, "Error computing items per user", err)
		return
	}

	SendSuccess(c, http.StatusOK, response.AveragePerUserResponse{AveragePerUser: avg})
}

// AverageDurationCompleted sends a bare number, or null when no completed
// item has a duration.
func (h *StatsHandler) AverageDurationCompleted(c *gin.Context) {
	ctx, span := startHandlerSpan(c, "handler.stats.AverageDurationCompleted")
	defer span.End()

	avg, err := h.svc.AverageDurationCompleted(ctx)

	if err != nil {
		fail(ctx, c, span, h.Logger, "Error computing average duration", err)
		return
	}

	SendSuccess(c, http.StatusOK, avg)
}

func (h *StatsHandler) Totals(c *gin.Context) {
	ctx, span := startHandlerSpan(c, "handler.stats.Totals")
	defer span.End()

	totals, err := h.svc.Totals(ctx)

	if err != nil {
		fail(ctx, c, span, h.Logger, "Error computing totals", err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTotalsResponse(totals))
}

// AverageDurationMinutes keeps its old wire format: a missing item is a 200
// with {"error": "Item not found"}.
func (h *StatsHandler) AverageDurationMinutes(c *gin.Context) {
	ctx, span := startHandlerSpan(c, "handler.stats.AverageDurationMinutes")
	defer span.End()

	notFound := response.LegacyErrorResponse{Error: "Item not found"}

	id, ok := pathID(c)

	if !ok {
		SendSuccess(c, http.StatusOK, notFound)
		return
	}

	minutes, err := h.svc.AverageDurationMinutes(ctx, id)

	if errors.Is(err, domain.ErrItemNotFound) {
		SendSuccess(c, http.StatusOK, notFound)
		return
	}

	if err != nil {
		fail(ctx, c, span, h.Logger, "Error computing item duration", err)
		return
	}

	SendSuccess(c, http.StatusOK, response.AverageDurationMinutesResponse{AverageDurationMinutes: minutes})
}
