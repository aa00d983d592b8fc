package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_WritesMessages(t *testing.T) {
	logger := New(Config{Level: "info"})

	var buf bytes.Buffer
	logger = logger.Output(&buf)
	logger.Info().Msg("test message")

	assert.Contains(t, buf.String(), "test message")
}

func TestNew_LevelParsing(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			New(Config{Level: tt.level})
			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}

func TestNew_TimestampFormat(t *testing.T) {
	New(Config{Level: "info"})
	assert.Equal(t, "2006-01-02T15:04:05Z07:00", zerolog.TimeFieldFormat)
}

func TestNew_PrettyOutput(t *testing.T) {
	logger := New(Config{Level: "info", Pretty: true})

	var buf bytes.Buffer
	logger = logger.Output(&buf)
	logger.Info().Msg("pretty message")

	assert.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), "pretty message")
}
