package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/printshop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100"`
	CreatedAt time.Time
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

// useSpanRecorder installs a recording provider globally; otelgorm reads the
// global provider when the plugin is created.
func useSpanRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return tp, recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBTracingConfigFromTelemetry(t *testing.T) {
	cfg := DBTracingConfigFromTelemetry(config.TelemetryConfig{DBTraceEnabled: true})
	assert.False(t, cfg.Enabled, "db tracing needs telemetry enabled")

	cfg = DBTracingConfigFromTelemetry(config.TelemetryConfig{Enabled: true, DBTraceEnabled: true, DBLogFullSQL: true})
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.LogFullSQL)
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zaptest.NewLogger(t))
	require.NoError(t, plugin.RegisterOtelGorm(db))

	_, ok := db.Plugins["otelgorm"]
	assert.False(t, ok)
}

func TestDBTracingPlugin_AnnotatesSpans(t *testing.T) {
	tp, recorder := useSpanRecorder(t)
	db := setupTestDB(t)

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.SlowQueryThresh = time.Nanosecond
	require.NoError(t, NewDBTracingPlugin(cfg, zaptest.NewLogger(t)).RegisterOtelGorm(db))

	ctx, parent := tp.Tracer("test").Start(context.Background(), "quote.approve")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "flyers"}).Error)
	parent.End()

	var insert sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if v, ok := spanAttr(s, "db.sql.table"); ok && v.AsString() == "traced_rows" {
			insert = s
			break
		}
	}
	require.NotNil(t, insert, "expected a span annotated with the table name")

	rows, ok := spanAttr(insert, "db.rows_affected")
	require.True(t, ok)
	assert.Equal(t, int64(1), rows.AsInt64())

	slow, ok := spanAttr(insert, "db.slow_query")
	require.True(t, ok)
	assert.True(t, slow.AsBool())
}

func TestDBTracingPlugin_MarksErrors(t *testing.T) {
	_, recorder := useSpanRecorder(t)
	db := setupTestDB(t)

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	require.NoError(t, NewDBTracingPlugin(cfg, nil).RegisterOtelGorm(db))

	err := db.WithContext(context.Background()).Exec("DELETE FROM missing_table").Error
	require.Error(t, err)

	var failed bool
	for _, s := range recorder.Ended() {
		if s.Status().Code == codes.Error {
			failed = true
		}
	}
	assert.True(t, failed)
}

func TestDBTracingPlugin_RecordNotFoundIsNotAnError(t *testing.T) {
	_, recorder := useSpanRecorder(t)
	db := setupTestDB(t)

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	require.NoError(t, NewDBTracingPlugin(cfg, nil).RegisterOtelGorm(db))

	var row tracedRow
	err := db.WithContext(context.Background()).First(&row, 999).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for _, s := range recorder.Ended() {
		assert.NotEqual(t, codes.Error, s.Status().Code, s.Name())
	}
}
