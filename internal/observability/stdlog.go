package observability

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// StdLogger adapts the standard library logger to the Logger interface.
type StdLogger struct {
	logger *log.Logger
	level  Level
}

// Level controls the minimum severity emitted by StdLogger.
type Level int

const (
	// LevelDebug emits all log entries.
	LevelDebug Level = iota
	// LevelInfo suppresses debug entries.
	LevelInfo
	// LevelWarn suppresses debug and info entries.
	LevelWarn
	// LevelError emits only error entries.
	LevelError
)

// NewStdLogger wraps the provided standard logger; a nil logger uses the
// process default.
func NewStdLogger(logger *log.Logger, level Level) *StdLogger {
	if logger == nil {
		logger = log.Default()
	}
	return &StdLogger{logger: logger, level: level}
}

// Debug logs a debug-severity entry.
func (l *StdLogger) Debug(msg string, fields ...Field) { l.emit(LevelDebug, "DEBUG", msg, fields) }

// Info logs an info-severity entry.
func (l *StdLogger) Info(msg string, fields ...Field) { l.emit(LevelInfo, "INFO", msg, fields) }

// Warn logs a warn-severity entry.
func (l *StdLogger) Warn(msg string, fields ...Field) { l.emit(LevelWarn, "WARN", msg, fields) }

// Error logs an error-severity entry.
func (l *StdLogger) Error(msg string, fields ...Field) { l.emit(LevelError, "ERROR", msg, fields) }

func (l *StdLogger) emit(level Level, tag, msg string, fields []Field) {
	if level < l.level {
		return
	}
	if len(fields) == 0 {
		l.logger.Printf("%s %s", tag, msg)
		return
	}
	pairs := make([]string, 0, len(fields))
	for _, f := range fields {
		key := strings.TrimSpace(f.Key)
		if key == "" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s=%v", key, f.Value))
	}
	sort.Strings(pairs)
	l.logger.Printf("%s %s %s", tag, msg, strings.Join(pairs, " "))
}
