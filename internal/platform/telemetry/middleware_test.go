package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jsamuelsen/quoteboard/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMiddleware_AddsTraceIDToRequestLogger(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	var buf bytes.Buffer

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		ctx, span := tp.Tracer("test").Start(c.Request.Context(), "request")
		defer span.End()

		ctx = logging.WithContext(ctx, slog.New(slog.NewJSONHandler(&buf, nil)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}, Middleware())
	engine.GET("/quotes", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("handled")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/quotes", nil))

	traceID := w.Header().Get("X-Trace-ID")
	require.NotEmpty(t, traceID)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "handled", entry["msg"])
	assert.Equal(t, traceID, entry["trace_id"])
}

func TestMiddleware_NoSpanLeavesLoggerAlone(t *testing.T) {
	var buf bytes.Buffer

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		ctx := logging.WithContext(c.Request.Context(), slog.New(slog.NewJSONHandler(&buf, nil)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}, Middleware())
	engine.GET("/quotes", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("handled")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/quotes", nil))

	assert.Empty(t, w.Header().Get("X-Trace-ID"))
	assert.NotContains(t, buf.String(), "trace_id")
}
