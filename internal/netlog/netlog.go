// Package netlog provides the leveled, prefix-tagged logging used by the
// cmd/ entry points. The core packages themselves never log — they return
// structured *rerr.Error values — this exists only for the user-visible
// [INF]/[WRN]/[ERR]/[DBG] console output a CLI caller expects.
package netlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

const (
	colorReset  = "\x1b[0m"
	colorInfo   = "\x1b[36m"
	colorWarn   = "\x1b[33m"
	colorError  = "\x1b[31m"
	colorDebug  = "\x1b[90m"
)

// Logger wraps a standard log.Logger with the four level prefixes.
type Logger struct {
	out   *log.Logger
	debug bool
}

// New creates a Logger writing to w. If debug is false, Debugf is a no-op.
func New(w io.Writer, debug bool) *Logger {
	return &Logger{out: log.New(w, "", 0), debug: debug}
}

// Default returns a Logger writing to stderr with debug logging disabled.
func Default() *Logger {
	return New(os.Stderr, false)
}

func (l *Logger) line(color, tag, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	ts := time.Now().Format("15:04:05.000")
	l.out.Printf("%s[%s]%s %s %s", color, tag, colorReset, ts, msg)
}

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...any) { l.line(colorInfo, "INF", format, args...) }

// Warnf logs a warning.
func (l *Logger) Warnf(format string, args ...any) { l.line(colorWarn, "WRN", format, args...) }

// Errorf logs an error.
func (l *Logger) Errorf(format string, args ...any) { l.line(colorError, "ERR", format, args...) }

// Debugf logs a debug message, only when debug logging is enabled.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.debug {
		return
	}
	l.line(colorDebug, "DBG", format, args...)
}
