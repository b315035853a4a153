package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "production", ""} {
		l, err := New(mode, "")
		require.NoError(t, err, mode)
		assert.NotNil(t, l.SugaredLogger)
	}
}

func TestNew_Level(t *testing.T) {
	l, err := New("prod", "warn")
	require.NoError(t, err)
	assert.False(t, l.SugaredLogger.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.SugaredLogger.Desugar().Core().Enabled(zapcore.WarnLevel))

	_, err = New("dev", "loud")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	l := Nop().With("component", "test")
	assert.NotPanics(t, func() {
		l.Debug("debug", "k", 1)
		l.Info("info")
		l.Warn("warn")
		l.Error("error")
		l.Sync()
	})
}

func TestLogger_LevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := (&Logger{SugaredLogger: zap.New(core).Sugar()}).With("component", "engine")

	l.Debug("d")
	l.Info("i", "final_type_id", 5)
	l.Warn("w")
	l.Error("e")

	entries := logs.All()
	require.Len(t, entries, 4)
	levels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, entry := range entries {
		assert.Equal(t, levels[i], entry.Level)
		assert.Equal(t, "engine", entry.ContextMap()["component"])
	}
	assert.Equal(t, int64(5), entries[1].ContextMap()["final_type_id"])
}
