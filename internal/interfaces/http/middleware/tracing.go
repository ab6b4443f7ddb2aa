package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printshop/backend/internal/infrastructure/logger"
	"github.com/printshop/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MaxRequestIDLength caps the request id copied onto spans.
const MaxRequestIDLength = 128

// TraceIDHeader returns the request trace id to the client.
const TraceIDHeader = "X-Trace-ID"

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing wraps otelgin. The span is named after the matched route, and 5xx
// responses mark it failed.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "printshop-backend"
	}

	return otelgin.Middleware(cfg.ServiceName)
}

// SpanErrorMarker marks the request span failed for server errors. Client
// errors only carry the status attribute otelgin already sets.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// TracingAttributeInjector copies the request id and the authenticated
// identity onto the request span, and the trace and span ids onto the request
// logger. It must run after Auth.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span := trace.SpanFromContext(ctx)
		if span.IsRecording() {
			span.SetAttributes(identityAttributes(c)...)
		}
		if traceID := telemetry.GetTraceID(ctx); traceID != "" {
			c.Header(TraceIDHeader, traceID)
			ctx = logger.With(ctx,
				zap.String("trace_id", traceID),
				zap.String("span_id", telemetry.GetSpanID(ctx)),
			)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func identityAttributes(c *gin.Context) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if id := logger.GetRequestID(c.Request.Context()); id != "" {
		if len(id) > MaxRequestIDLength {
			id = id[:MaxRequestIDLength]
		}
		attrs = append(attrs, attribute.String("request_id", id))
	}
	if tenantID, ok := GetTenantID(c); ok {
		attrs = append(attrs, attribute.String("tenant_id", tenantID.String()))
	}
	if userID, ok := GetUserID(c); ok {
		attrs = append(attrs, attribute.String("user_id", userID.String()))
	}
	return attrs
}
