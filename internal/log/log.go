// Package log wraps the standard library logger with named, leveled loggers.
//
// Each component asks for its own logger once:
//
//	l := log.ForService("controller")
//	l.Infof("issued request %d", seq)
//	l.Debugf("stale response %d", seq) // only when debug is on for "controller" or globally
//
// Output goes to stderr until SetOutput is called. The terminal UI points it at a
// file because bubbletea owns the screen.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// Level names
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelDebug = "DEBUG"
)

// Logger is a named logger
type Logger struct {
	name string
	std  *log.Logger
}

// writerHolder keeps atomic.Value storing one concrete type
type writerHolder struct {
	w io.Writer
}

var (
	globalDebug  atomic.Bool
	serviceDebug sync.Map // name -> *atomic.Bool
	loggers      sync.Map // name -> *Logger
	output       atomic.Value
)

func init() {
	output.Store(writerHolder{w: os.Stderr})
}

// ForService returns the memoized logger for name
func ForService(name string) *Logger {
	if name == "" {
		name = "unknown"
	}
	if l, ok := loggers.Load(name); ok {
		return l.(*Logger)
	}
	w := output.Load().(writerHolder).w
	l := &Logger{name: name, std: log.New(w, "", log.LstdFlags|log.Lmicroseconds)}
	actual, _ := loggers.LoadOrStore(name, l)
	return actual.(*Logger)
}

// SetOutput redirects every existing and future logger to w
func SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	output.Store(writerHolder{w: w})
	loggers.Range(func(_, v any) bool {
		v.(*Logger).std.SetOutput(w)
		return true
	})
}

// SetGlobalDebug turns debug output on or off for all loggers
func SetGlobalDebug(enabled bool) {
	globalDebug.Store(enabled)
}

// EnableDebugFor turns on debug output for one logger
func EnableDebugFor(name string) {
	if name == "" {
		return
	}
	v, _ := serviceDebug.LoadOrStore(name, &atomic.Bool{})
	v.(*atomic.Bool).Store(true)
}

// DisableDebugFor turns off debug output for one logger
func DisableDebugFor(name string) {
	if v, ok := serviceDebug.Load(name); ok {
		v.(*atomic.Bool).Store(false)
	}
}

// DebugEnabledFor reports whether debug lines of name are printed
func DebugEnabledFor(name string) bool {
	if globalDebug.Load() {
		return true
	}
	if v, ok := serviceDebug.Load(name); ok {
		return v.(*atomic.Bool).Load()
	}
	return false
}

func (l *Logger) write(level, msg string) {
	l.std.Println(level + " [" + l.name + "] " + msg)
}

// Infof logs at INFO
func (l *Logger) Infof(format string, args ...any) {
	l.write(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs at WARN
func (l *Logger) Warnf(format string, args ...any) {
	l.write(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs at ERROR
func (l *Logger) Errorf(format string, args ...any) {
	l.write(LevelError, fmt.Sprintf(format, args...))
}

// Debugf logs at DEBUG when enabled for this logger
func (l *Logger) Debugf(format string, args ...any) {
	if !DebugEnabledFor(l.name) {
		return
	}
	l.write(LevelDebug, fmt.Sprintf(format, args...))
}
