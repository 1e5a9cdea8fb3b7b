package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"itemtracker/pkg/logger"
)

func TestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer

	log, err := logger.New(logger.Options{ServiceName: "itemtracker", Output: zapcore.AddSync(&buf)})
	require.NoError(t, err)

	router := gin.New()
	router.Use(CurrentMiddleware())
	router.Use(LoggingMiddleware(log))
	router.GET("/items", func(c *gin.Context) {
		c.Set(UserIDKey, 9)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/items?range=[0,9]", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	router.ServeHTTP(httptest.NewRecorder(), req)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.NoError(t, log.Sync())

	var lines []map[string]any
	scanner := bufio.NewScanner(&buf)

	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}

	require.Len(t, lines, 2)

	assert.Equal(t, "HTTP Request", lines[0]["msg"])
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "/items?range=[0,9]", lines[0]["path"])
	assert.Equal(t, float64(200), lines[0]["status"])
	assert.Equal(t, "req-42", lines[0]["request_id"])
	assert.Equal(t, float64(9), lines[0]["user_id"])

	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, float64(404), lines[1]["status"])
}
