package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	sql := func() (string, int64) { return "SELECT * FROM quotes", 3 }

	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		threshold time.Duration
		begin     time.Time
		err       error
		wantMsg   string
	}{
		{"error is logged", gormlogger.Error, 0, time.Now(), errors.New("deadlock"), "SQL Error"},
		{"record not found is skipped", gormlogger.Error, 0, time.Now(), gormlogger.ErrRecordNotFound, ""},
		{"slow query warns", gormlogger.Warn, time.Nanosecond, time.Now().Add(-time.Second), nil, "SLOW SQL"},
		{"info logs every query", gormlogger.Info, 0, time.Now(), nil, "SQL Query"},
		{"silent logs nothing", gormlogger.Silent, 0, time.Now(), errors.New("x"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			gl := NewGormLogger(zap.New(core), tt.level, tt.threshold)

			gl.Trace(context.Background(), tt.begin, sql, tt.err)

			if tt.wantMsg == "" {
				assert.Empty(t, recorded.All())
				return
			}
			logs := recorded.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.wantMsg, logs[0].Message)
			assert.Equal(t, "SELECT * FROM quotes", logs[0].ContextMap()["sql"])
		})
	}
}

func TestGormLogger_TraceCarriesRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, 0)
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-7")

	gl.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)

	require.Len(t, recorded.All(), 1)
	assert.Equal(t, "req-7", recorded.All()[0].ContextMap()["request_id"])
}

func TestGormLogger_LogMode(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Silent, 0)

	gl.LogMode(gormlogger.Info).Info(context.Background(), "migrated %d tables", 4)
	gl.Info(context.Background(), "suppressed")

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "migrated 4 tables", logs[0].Message)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}
