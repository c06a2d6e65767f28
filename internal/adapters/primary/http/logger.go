package http

import (
	"log"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

// HTTPLogger provides structured logging for the editor bridge
type HTTPLogger struct {
	component string
	verbose   bool
	level     entities.LogLevel
}

// NewHTTPLogger creates a new HTTP logger instance
func NewHTTPLogger(component string, verbose bool) *HTTPLogger {
	return NewHTTPLoggerWithLevel(component, verbose, entities.LogLevelInfo)
}

// NewHTTPLoggerWithLevel creates a new HTTP logger instance with specific level
func NewHTTPLoggerWithLevel(component string, verbose bool, level entities.LogLevel) *HTTPLogger {
	if verbose {
		level = entities.LogLevelDebug
	}
	return &HTTPLogger{
		component: component,
		verbose:   verbose,
		level:     level,
	}
}

// NewHTTPLoggerFromConfig creates a logger honoring the logging section of the config
func NewHTTPLoggerFromConfig(component string, cfg *entities.LoggingConfig) *HTTPLogger {
	if cfg == nil {
		return NewHTTPLogger(component, false)
	}
	return NewHTTPLoggerWithLevel(component, cfg.Verbose, cfg.GetLevel())
}

// WithComponent returns a logger sharing the level under another component name
func (l *HTTPLogger) WithComponent(component string) *HTTPLogger {
	return &HTTPLogger{
		component: component,
		verbose:   l.verbose,
		level:     l.level,
	}
}

// shouldLog checks if the message should be logged based on level
func (l *HTTPLogger) shouldLog(msgLevel entities.LogLevel) bool {
	levelMap := map[entities.LogLevel]int{
		entities.LogLevelDebug: 0,
		entities.LogLevelInfo:  1,
		entities.LogLevelWarn:  2,
		entities.LogLevelError: 3,
	}

	currentLevel := levelMap[l.level]
	messageLevel := levelMap[msgLevel]

	return messageLevel >= currentLevel
}

// Debug logs debug messages (only if debug level is enabled)
func (l *HTTPLogger) Debug(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelDebug) {
		log.Printf("[DEBUG] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// Info logs informational messages
func (l *HTTPLogger) Info(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) {
		log.Printf("[INFO] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// Warn logs warning messages
func (l *HTTPLogger) Warn(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelWarn) {
		log.Printf("[WARN] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// Error logs error messages (always logged)
func (l *HTTPLogger) Error(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelError) {
		log.Printf("[ERROR] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// Success logs success messages (only if info level or higher is enabled)
func (l *HTTPLogger) Success(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) {
		log.Printf("[SUCCESS] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// SetLevel updates the logging level
func (l *HTTPLogger) SetLevel(level entities.LogLevel) {
	l.level = level
}

// Level returns the current logging level
func (l *HTTPLogger) Level() entities.LogLevel {
	return l.level
}

var _ ports.Logger = (*HTTPLogger)(nil)
