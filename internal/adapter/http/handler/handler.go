package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	. "itemtracker/internal/adapter/http/helper"
	"itemtracker/internal/adapter/http/middleware"
	"itemtracker/pkg/logger"
	. "itemtracker/pkg/tracing"
)

func startHandlerSpan(c *gin.Context, name string) (context.Context, trace.Span) {
	return StartSpan(c.Request.Context(), name,
		attribute.String("handler.operation", name),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	)
}

// pathID parses :id. Ids that are not positive integers cannot name a row.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))

	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

func userID(c *gin.Context) int {
	id, _ := middleware.CurrentUserID(c)
	return id
}

// fail sends the mapped domain error, or logs err and sends a generic 500.
func fail(ctx context.Context, c *gin.Context, span trace.Span, log *logger.LokiLogger, message string, err error) {
	AddSpanError(span, err)

	if SendDomainError(c, err) {
		return
	}

	log.Ctx(ctx).Error(message,
		zap.Error(err),
		zap.String("request_id", middleware.GetCurrent(c).RequestID),
	)

	_ = c.Error(err)
	SendInternalError(c, message)
}
