package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestNewAtomic_LevelCanChange(t *testing.T) {
	// Arrange
	log, level, err := NewAtomic(Config{Level: "info", Format: "console"})
	require.NoError(t, err)
	require.NotNil(t, log)

	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))

	// Act
	level.SetLevel(zapcore.DebugLevel)

	// Assert
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_RejectsUnopenablePath(t *testing.T) {
	_, err := New(Config{Level: "info", OutputPaths: []string{"/nonexistent-dir/app.log"}})

	assert.Error(t, err)
}
