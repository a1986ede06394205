package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/host-booking/service-booking/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func observed() (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core)), logs
}

func statement() (string, int64) { return "SELECT 1", 1 }

func TestGormLogger_FailedQueryCarriesRequestID(t *testing.T) {
	l, logs := observed()
	ctx := logger.WithRequestID(context.Background(), "req-7")

	l.Trace(ctx, time.Now(), statement, errors.New("relation does not exist"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "query failed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "SELECT 1", fields["sql"])
}

func TestGormLogger_RecordNotFoundIsQuiet(t *testing.T) {
	l, logs := observed()

	l.Trace(context.Background(), time.Now(), statement, gorm.ErrRecordNotFound)

	assert.Zero(t, logs.Len())
}

func TestGormLogger_SlowQuery(t *testing.T) {
	l, logs := observed()

	l.Trace(context.Background(), time.Now().Add(-time.Second), statement, nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, "slow query", logs.All()[0].Message)
}

func TestGormLogger_LogMode(t *testing.T) {
	l, logs := observed()

	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), statement, errors.New("boom"))
	silent.Warn(context.Background(), "ignored %d", 1)
	assert.Zero(t, logs.Len())

	l.Warn(context.Background(), "pool at %d%%", 90)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "pool at 90%", logs.All()[0].Message)

	verbose := l.LogMode(gormlogger.Info)
	verbose.Trace(context.Background(), time.Now(), statement, nil)
	assert.Equal(t, 2, logs.Len())
}
