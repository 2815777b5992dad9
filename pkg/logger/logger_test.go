package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetAndHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	Debug("debug msg")
	Info("post_created", zap.String("post_id", "p1"))
	Warn("queue full")
	Error("boom")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "post_created", entries[1].Message)
	assert.Equal(t, "p1", entries[1].ContextMap()["post_id"])
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestInitFormats(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	require.NoError(t, Init("debug", "console"))
	assert.True(t, L().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Init("not-a-level", "json"))
	assert.False(t, L().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, L().Core().Enabled(zapcore.InfoLevel))
}
