package logging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/scorecard/pkg/logging"
)

func TestFromContext(t *testing.T) {
	t.Run("falls back to default", func(t *testing.T) {
		assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	})

	t.Run("returns attached logger", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		logging.FromContext(ctx).Info().Msg("hello")
		assert.True(t, tl.Contains(`"message":"hello"`))
	})
}

func TestWithScan(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithScan(ctx, "scan-123")
	ctx = logging.WithCourse(ctx, "course-9")

	logging.FromContext(ctx).Warn().Msg("fallback")

	require.Len(t, tl.Lines(), 1)
	assert.True(t, tl.Contains(`"scan_id":"scan-123"`))
	assert.True(t, tl.Contains(`"course_id":"course-9"`))
	assert.Equal(t, "scan-123", logging.ScanID(ctx))
	assert.Empty(t, logging.ScanID(context.Background()))
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)
	logging.Error().Err(errors.New("boom")).Msg("extraction failed")
	assert.True(t, tl.Contains("extraction failed"))
	assert.True(t, tl.Contains("boom"))
}

func TestNewLoggerFromConfig(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}

	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(oldLevel) })

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := logging.NewLoggerFromConfig(&logging.Config{Level: tt.level, Output: "discard", Format: "json"})
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}
