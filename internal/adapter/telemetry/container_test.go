package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestContainer_ServesMetrics(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()

	container, err := NewContainer(ctx, Config{
		ServiceName:    "itemtracker",
		ServiceVersion: "test",
		Environment:    "test",
		MetricsPort:    "0",
	}, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() { container.Shutdown(context.Background()) })

	probe := container.NewTelemetryProbe()
	probe.RecordServiceOperation(ctx, "item", "Create", 1, 0, nil)
	container.AppMetrics.RecordRequest(ctx, "GET", "/api/v1/items", "200", 0)

	w := httptest.NewRecorder()
	container.MetricsServer.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(w.Body)

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(string(body)).To(ContainSubstring(`http_requests_total{method="GET",path="/api/v1/items",status="200"} 1`))
	Expect(string(body)).To(ContainSubstring("go_goroutines"))
}
