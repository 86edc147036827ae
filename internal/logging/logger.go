package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level is a log severity.
type Level int

const (
	TRACE Level = iota
	DEBUG
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string onto a Level. Unknown names are an error.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TRACE, nil
	case "debug":
		return DEBUG, nil
	case "", "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}

// Logger writes leveled lines for one component.
type Logger struct {
	component string
}

var (
	mu       sync.RWMutex
	minLevel = INFO
	output   = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
)

// Setup sets the process-wide destination and threshold.
func Setup(w io.Writer, level Level) {
	mu.Lock()
	defer mu.Unlock()
	output = log.New(w, "", log.LstdFlags|log.Lmicroseconds)
	minLevel = level
}

// SetLevel changes the threshold without touching the destination.
func SetLevel(level Level) {
	mu.Lock()
	minLevel = level
	mu.Unlock()
}

// Discard silences all loggers; tests use it to keep output clean.
func Discard() {
	Setup(io.Discard, ERROR+1)
}

// For returns a logger that prefixes lines with the component name.
func For(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if level < minLevel {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l == nil || l.component == "" {
		output.Printf("[%s] %s", level, msg)
		return
	}
	output.Printf("[%s] %s: %s", level, l.component, msg)
}

// Enabled reports whether a line at level would be written.
func (l *Logger) Enabled(level Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return level >= minLevel
}

func (l *Logger) Trace(format string, args ...interface{}) { l.logf(TRACE, format, args...) }
func (l *Logger) Debug(format string, args ...interface{}) { l.logf(DEBUG, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.logf(INFO, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.logf(WARN, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.logf(ERROR, format, args...) }
