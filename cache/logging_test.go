package cache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return FromSlog(slog.New(handler), level), &buf
}

func TestLogger_Levels(t *testing.T) {
	ctx := context.Background()
	logger, buf := newBufferLogger(LogLevelWarn)

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestLogger_With(t *testing.T) {
	ctx := context.Background()
	logger, buf := newBufferLogger(LogLevelDebug)

	child := logger.WithOperation(OpPut).WithKey(Key{ScopeID: "A1B2", Name: "pkg.Type"})
	child.Info(ctx, "stored")
	logger.Info(ctx, "plain")

	out := buf.String()
	assert.Contains(t, out, "operation=put")
	assert.Contains(t, out, "scope=A1B2")
	assert.Contains(t, out, "artifact=pkg.Type")
	assert.Contains(t, out, "msg=plain\n")
}

func TestLogger_Nop(t *testing.T) {
	ctx := context.Background()
	var nilLogger *Logger

	assert.NotPanics(t, func() {
		NewNopLogger().With("k", "v").Error(ctx, "dropped")
		nilLogger.Info(ctx, "dropped")
		nilLogger.With("k", "v").Warn(ctx, "dropped")
		LogCacheHit(ctx, nil, Key{}, 0)
		LogCacheMiss(ctx, nil, Key{}, "")
		LogCacheError(ctx, nil, OpGet, Key{}, errors.New("x"))
		LogPerformanceMetrics(ctx, nil, MetricsSnapshot{})
	})
	assert.NotNil(t, FromSlog(nil, LogLevelInfo))
}

func TestLogCacheError(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)

	LogCacheError(context.Background(), logger, OpPut, Key{ScopeID: "A1B2", Name: "pkg.Type"}, errors.New("disk full"))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "key=A1B2@pkg.Type")
	assert.Contains(t, out, `error="disk full"`)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{in: "debug", want: LogLevelDebug},
		{in: "INFO", want: LogLevelInfo},
		{in: "", want: LogLevelInfo},
		{in: "warning", want: LogLevelWarn},
		{in: "error", want: LogLevelError},
		{in: "trace", want: LogLevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogLevel_Text(t *testing.T) {
	text, err := LogLevelWarn.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warn", string(text))

	var l LogLevel
	require.NoError(t, l.UnmarshalText([]byte("error")))
	assert.Equal(t, LogLevelError, l)
}
