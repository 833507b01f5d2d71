package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNopLoggerBeforeInitialize(t *testing.T) {
	require.NotNil(t, Logger)
	assert.NotPanics(t, func() {
		Infow("before initialize", FieldCount, 1)
		ComponentLogger("tl").Debugw("still safe")
	})
}

func TestInitializeWithVerbosity(t *testing.T) {
	t.Cleanup(func() { Logger = zap.NewNop().Sugar() })

	require.NoError(t, InitializeWithVerbosity(VerbosityDebug, false))
	assert.False(t, JSONOutput)
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, InitializeWithVerbosity(VerbosityUser, true))
	assert.True(t, JSONOutput)
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.WarnLevel))
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
		name      string
	}{
		{-1, zapcore.WarnLevel, "Unknown"},
		{0, zapcore.WarnLevel, "User"},
		{1, zapcore.InfoLevel, "Info (-v)"},
		{2, zapcore.DebugLevel, "Debug (-vv)"},
		{5, zapcore.DebugLevel, "Trace (-vvv)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity))
			assert.Equal(t, tt.name, LevelName(tt.verbosity))
		})
	}

	assert.False(t, ShouldLogTrace(2))
	assert.True(t, ShouldLogTrace(3))
}
