// Package stdlogger adapts the global zerolog logger to printf style logging interfaces,
// such as the one gorm's logger writes to.
package stdlogger

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger forwards printf style calls to the global zerolog logger.
type Logger struct {
	// PrintLevel is the level used by Printf.
	PrintLevel zerolog.Level
	// Component is added as the "component" field when set.
	Component string
}

// New returns a Logger printing at debug level.
func New() *Logger {
	return &Logger{PrintLevel: zerolog.DebugLevel}
}

func (l *Logger) emit(level zerolog.Level, format string, args ...any) {
	e := log.WithLevel(level)
	if l.Component != "" {
		e = e.Str("component", l.Component)
	}

	e.Msgf(strings.TrimSpace(format), args...)
}

// Printf implements gorm's logger.Writer.
func (l *Logger) Printf(format string, args ...any) {
	l.emit(l.PrintLevel, format, args...)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.emit(zerolog.DebugLevel, format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.emit(zerolog.InfoLevel, format, args...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, args ...any) {
	l.emit(zerolog.WarnLevel, format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.emit(zerolog.ErrorLevel, format, args...)
}
