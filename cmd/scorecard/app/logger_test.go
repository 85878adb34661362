package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		want   string
	}{
		{"default", &Config{}, "info"},
		{"verbose", &Config{Verbose: true}, "debug"},
		{"quiet", &Config{Quiet: true}, "warn"},
		{"both flags prefer quiet", &Config{Verbose: true, Quiet: true}, "warn"},
		{"explicit overrides verbose", &Config{LogLevel: "error", Verbose: true}, "error"},
		{"explicit overrides quiet", &Config{LogLevel: "trace", Quiet: true}, "trace"},
		{"invalid falls back to info", &Config{LogLevel: "loud"}, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineLogLevel(tt.config))
		})
	}
}

func TestNewLoggerLevel(t *testing.T) {
	logger := NewLogger(&Config{Verbose: true, LogFormat: "json", LogOutput: "discard"})
	assert.Equal(t, "debug", logger.GetLevel().String())

	logger = NewLogger(&Config{LogLevel: "error", LogFormat: "json", LogOutput: "discard"})
	assert.Equal(t, "error", logger.GetLevel().String())
}
