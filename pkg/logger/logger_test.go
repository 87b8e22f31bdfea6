package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := zapLogger
	zapLogger = newZapLogger(zap.New(core))
	t.Cleanup(func() { zapLogger = prev })
	return logs
}

func TestBuildConfig(t *testing.T) {
	prod := buildConfig("production", "")
	assert.Equal(t, "json", prod.Encoding)
	assert.Equal(t, zapcore.InfoLevel, prod.Level.Level())

	dev := buildConfig("dev", "warn")
	assert.Equal(t, "console", dev.Encoding)
	assert.Equal(t, zapcore.WarnLevel, dev.Level.Level())

	assert.Equal(t, zapcore.DebugLevel, buildConfig("", "loud").Level.Level())
}

func TestSetService(t *testing.T) {
	logs := observe(t)

	SetService("banking-test")
	Info("ledger ready", "accounts", 3)
	With("component", "alerts").Warn("alert delivered")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "ledger ready", entries[0].Message)
	assert.Equal(t, "banking-test", entries[0].ContextMap()["service"])
	assert.Equal(t, int64(3), entries[0].ContextMap()["accounts"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "banking-test", entries[1].ContextMap()["service"])
	assert.Equal(t, "alerts", entries[1].ContextMap()["component"])
}
