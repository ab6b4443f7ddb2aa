package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(prev)
	})
	return sr
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing(TracingConfig{Enabled: false}))
	router.GET("/quotes", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/quotes", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_NamesSpanAfterRoute(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing(TracingConfig{Enabled: true, ServiceName: "test"}))
	router.GET("/api/v1/quotes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/"+uuid.NewString(), nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/api/v1/quotes/:id")
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   codes.Code
	}{
		{"server error", http.StatusInternalServerError, codes.Error},
		{"dependency missing", http.StatusFailedDependency, codes.Unset},
		{"not found", http.StatusNotFound, codes.Unset},
		{"ok", http.StatusOK, codes.Unset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := setupTestTracer(t)

			router := gin.New()
			router.Use(Tracing(TracingConfig{Enabled: true}), SpanErrorMarker())
			router.GET("/x", func(c *gin.Context) { c.Status(tt.status) })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

			spans := sr.Ended()
			require.Len(t, spans, 1)
			if tt.want == codes.Error {
				assert.Equal(t, codes.Error, spans[0].Status().Code)
			} else {
				assert.NotEqual(t, codes.Error, spans[0].Status().Code)
			}
		})
	}
}

func TestSpanErrorMarker_WithoutSpan(t *testing.T) {
	router := gin.New()
	router.Use(SpanErrorMarker())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTracingAttributeInjector(t *testing.T) {
	sr := setupTestTracer(t)
	tenantID, userID := uuid.New(), uuid.New()

	router := gin.New()
	router.Use(
		Tracing(TracingConfig{Enabled: true}),
		logger.GinMiddleware(zap.NewNop()),
		func(c *gin.Context) {
			c.Set(TenantIDKey, tenantID)
			c.Set(UserIDKey, userID)
			c.Next()
		},
		TracingAttributeInjector(),
	)
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(logger.RequestIDHeader, strings.Repeat("r", MaxRequestIDLength+20))
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)

	v, ok := spanAttr(spans[0], "tenant_id")
	require.True(t, ok)
	assert.Equal(t, tenantID.String(), v.AsString())

	v, ok = spanAttr(spans[0], "user_id")
	require.True(t, ok)
	assert.Equal(t, userID.String(), v.AsString())

	v, ok = spanAttr(spans[0], "request_id")
	require.True(t, ok)
	assert.Len(t, v.AsString(), MaxRequestIDLength)
}

func TestTracingAttributeInjector_LoggerCarriesTraceIDs(t *testing.T) {
	sr := setupTestTracer(t)
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(
		Tracing(TracingConfig{Enabled: true}),
		logger.GinMiddleware(zap.New(core)),
		TracingAttributeInjector(),
	)
	router.GET("/x", func(c *gin.Context) {
		logger.FromContext(c.Request.Context()).Info("handled")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	traceID := spans[0].SpanContext().TraceID().String()
	assert.Equal(t, traceID, w.Header().Get(TraceIDHeader))

	logs := recorded.All()
	require.Len(t, logs, 2)
	for _, entry := range logs {
		fields := entry.ContextMap()
		assert.Equal(t, traceID, fields["trace_id"], entry.Message)
		assert.Equal(t, spans[0].SpanContext().SpanID().String(), fields["span_id"], entry.Message)
	}
}

func TestTracingAttributeInjector_NoIdentity(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing(TracingConfig{Enabled: true}), TracingAttributeInjector())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	_, ok := spanAttr(spans[0], "tenant_id")
	assert.False(t, ok)
}

func TestTracingAttributeInjector_WithoutSpan(t *testing.T) {
	router := gin.New()
	router.Use(TracingAttributeInjector())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(TraceIDHeader))
}
