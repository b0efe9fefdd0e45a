package medialibrary

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
)

// LogLevel defines the level of logging
type LogLevel int

const (
	// LogLevelNone means no logging
	LogLevelNone LogLevel = iota
	// LogLevelError logs only errors
	LogLevelError
	// LogLevelWarning logs warnings and errors
	LogLevelWarning
	// LogLevelInfo logs info, warnings, and errors
	LogLevelInfo
	// LogLevelDebug logs everything
	LogLevelDebug
)

// ParseLogLevel maps a config value such as "debug" or "warn" to a LogLevel
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return LogLevelNone, nil
	case "error":
		return LogLevelError, nil
	case "warn", "warning":
		return LogLevelWarning, nil
	case "info", "":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger defines the interface for logging
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	SetLevel(level LogLevel)
	GetLevel() LogLevel
}

// DefaultLogger writes leveled lines through the standard library logger
type DefaultLogger struct {
	level  LogLevel
	logger *log.Logger
}

// NewDefaultLogger creates a new default logger with the specified log level
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return &DefaultLogger{
		level:  level,
		logger: log.New(os.Stdout, "itemmedia: ", log.LstdFlags),
	}
}

func (l *DefaultLogger) Debug(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		l.logger.Printf("[DEBUG] "+format, args...)
	}
}

func (l *DefaultLogger) Info(format string, args ...interface{}) {
	if l.level >= LogLevelInfo {
		l.logger.Printf("[INFO] "+format, args...)
	}
}

func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	if l.level >= LogLevelWarning {
		l.logger.Printf("[WARNING] "+format, args...)
	}
}

func (l *DefaultLogger) Error(format string, args ...interface{}) {
	if l.level >= LogLevelError {
		l.logger.Printf("[ERROR] "+format, args...)
	}
}

func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *DefaultLogger) GetLevel() LogLevel {
	return l.level
}

// SlogLogger forwards to a structured slog.Logger
type SlogLogger struct {
	level  LogLevel
	logger *slog.Logger
}

func NewSlogLogger(logger *slog.Logger, level LogLevel) *SlogLogger {
	return &SlogLogger{level: level, logger: logger}
}

func (l *SlogLogger) log(level LogLevel, slogLevel slog.Level, format string, args ...interface{}) {
	if l.level >= level {
		l.logger.Log(context.Background(), slogLevel, fmt.Sprintf(format, args...))
	}
}

func (l *SlogLogger) Debug(format string, args ...interface{}) {
	l.log(LogLevelDebug, slog.LevelDebug, format, args...)
}

func (l *SlogLogger) Info(format string, args ...interface{}) {
	l.log(LogLevelInfo, slog.LevelInfo, format, args...)
}

func (l *SlogLogger) Warning(format string, args ...interface{}) {
	l.log(LogLevelWarning, slog.LevelWarn, format, args...)
}

func (l *SlogLogger) Error(format string, args ...interface{}) {
	l.log(LogLevelError, slog.LevelError, format, args...)
}

func (l *SlogLogger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *SlogLogger) GetLevel() LogLevel {
	return l.level
}

var (
	_ Logger = (*DefaultLogger)(nil)
	_ Logger = (*SlogLogger)(nil)
)
