package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents different logging levels
type LogLevel int

// Logging levels, lowest first.
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the lower-case name of the level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText lets LogLevel be read from environment variables and flags.
func (l *LogLevel) UnmarshalText(text []byte) error {
	level, err := ParseLogLevel(string(text))
	if err != nil {
		return err
	}
	*l = level
	return nil
}

// Logger provides structured logging for the cache.
// The zero value and a nil *Logger discard everything.
type Logger struct {
	logger *slog.Logger
	level  LogLevel
	fields []any
}

// LogConfig holds configuration for the cache logger.
type LogConfig struct {
	// Level sets the minimum log level (debug, info, warn, error)
	Level LogLevel
	// EnableCallerInfo includes file and line number in logs
	EnableCallerInfo bool
	// EnableCacheOperations enables logging of individual hits and misses
	EnableCacheOperations bool
}

// DefaultLogConfig returns a default logging configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:                 LogLevelInfo,
		EnableCallerInfo:      false,
		EnableCacheOperations: false, // one line per artifact is noise
	}
}

// NewLogger creates a logger writing text records to stderr.
func NewLogger(config LogConfig) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: config.EnableCallerInfo,
	})

	level := config.Level
	if !config.EnableCacheOperations && level < LogLevelInfo {
		level = LogLevelInfo
	}
	return &Logger{logger: slog.New(handler), level: level}
}

// FromSlog adapts an existing slog logger. Records below level are dropped
// before they reach the handler.
func FromSlog(logger *slog.Logger, level LogLevel) *Logger {
	if logger == nil {
		return NewNopLogger()
	}
	return &Logger{logger: logger, level: level}
}

// NewNopLogger creates a no-op logger that discards all log messages.
func NewNopLogger() *Logger {
	return &Logger{}
}

func (l *Logger) log(ctx context.Context, level LogLevel, msg string, args []any) {
	if l == nil || l.logger == nil || level < l.level {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	allArgs := make([]any, len(l.fields)+len(args))
	copy(allArgs, l.fields)
	copy(allArgs[len(l.fields):], args)
	l.logger.Log(ctx, level.slogLevel(), msg, allArgs...)
}

// Debug logs debug-level messages
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LogLevelDebug, msg, args)
}

// Info logs info-level messages
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LogLevelInfo, msg, args)
}

// Warn logs warning-level messages
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LogLevelWarn, msg, args)
}

// Error logs error-level messages
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LogLevelError, msg, args)
}

// With returns a logger with additional context fields
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.logger == nil {
		return l
	}

	fields := make([]any, len(l.fields)+len(args))
	copy(fields, l.fields)
	copy(fields[len(l.fields):], args)
	return &Logger{logger: l.logger, level: l.level, fields: fields}
}

// WithOperation returns a logger with operation context
func (l *Logger) WithOperation(operation Operation) *Logger {
	return l.With("operation", string(operation))
}

// WithKey returns a logger with the scope and artifact of key.
func (l *Logger) WithKey(key Key) *Logger {
	return l.With("scope", key.ScopeID, "artifact", key.Name)
}

// Operation names a cache operation in log records.
type Operation string

// Operation constants for cache operations
const (
	OpGet       Operation = "get"
	OpPut       Operation = "put"
	OpTransform Operation = "transform"
	OpInit      Operation = "init"
	OpCleanup   Operation = "cleanup"
)

// LogCacheHit logs a cache hit event.
func LogCacheHit(ctx context.Context, logger *Logger, key Key, size int) {
	if logger == nil {
		return
	}

	logger.Debug(ctx, "cache hit",
		"key", key.String(),
		"size", size,
		"result", "hit")
}

// LogCacheMiss logs a cache miss event.
func LogCacheMiss(ctx context.Context, logger *Logger, key Key, reason string) {
	if logger == nil {
		return
	}

	logger.Debug(ctx, "cache miss",
		"key", key.String(),
		"reason", reason,
		"result", "miss")
}

// LogCacheError logs a storage failure that was absorbed by the cache.
func LogCacheError(ctx context.Context, logger *Logger, operation Operation, key Key, err error) {
	if logger == nil {
		return
	}

	logger.Warn(ctx, "cache operation failed",
		"operation", string(operation),
		"key", key.String(),
		"error", err.Error())
}

// LogPerformanceMetrics logs a metrics snapshot.
func LogPerformanceMetrics(ctx context.Context, logger *Logger, snapshot MetricsSnapshot) {
	if logger == nil {
		return
	}

	logger.Info(ctx, "cache performance metrics",
		"hit_rate", fmt.Sprintf("%.2f", snapshot.HitRate),
		"hits", snapshot.Hits,
		"misses", snapshot.Misses,
		"stores", snapshot.Stores,
		"computations", snapshot.Computations,
		"pass_throughs", snapshot.PassThroughs,
		"read_errors", snapshot.ReadErrors,
		"write_errors", snapshot.WriteErrors,
		"uptime", snapshot.Uptime.String(),
	)
}

// ParseLogLevel parses a string log level into a LogLevel.
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LogLevelDebug, nil
	case "info", "":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}
