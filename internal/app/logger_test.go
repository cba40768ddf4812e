package app

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerDevelopmentEnablesDebug(t *testing.T) {
	logger := NewLogger(&Config{AppEnv: "development", LogFormat: "pretty"})
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewLoggerProductionStaysAtInfo(t *testing.T) {
	logger := NewLogger(&Config{AppEnv: "production", LogFormat: "json"})
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestNewLoggerJSONFormatStaysAtInfo(t *testing.T) {
	logger := NewLogger(&Config{AppEnv: "development", LogFormat: "json"})
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
