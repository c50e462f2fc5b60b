// Package logger writes Nelson's debug log.
//
// The TUI owns the terminal, so nothing may be printed to stdout or stderr
// while it runs. Everything goes to a slog text handler backed by a file
// under /tmp instead.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DefaultLogPath is the log file used when Init is never called.
const DefaultLogPath = "/tmp/nelson-debug.log"

// logGlob matches every log file Nelson may have written.
const logGlob = "/tmp/nelson-*.log"

var (
	mu       sync.Mutex
	base     *slog.Logger
	levelVar = new(slog.LevelVar)
	logFile  *os.File
	logPath  string
	debug    bool
)

// SetDebug toggles debug level output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debug = enabled
	levelVar.Set(level())
}

func level() slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Init opens path for appending and routes all logging there.
// Calling Init again without Reset is a no-op.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if base != nil {
		return nil
	}
	return open(path)
}

func open(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	logFile = f
	logPath = path
	levelVar.Set(level())
	base = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	base.Info("Logger initialized", "path", path)
	return nil
}

// get returns the process logger, opening the default file on first use.
// Callers must hold mu.
func get() *slog.Logger {
	if base == nil {
		if err := open(DefaultLogPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			base = slog.New(slog.DiscardHandler)
		}
	}
	return base
}

func logf(lvl slog.Level, format string, args ...interface{}) {
	mu.Lock()
	l := get()
	mu.Unlock()

	if !l.Enabled(context.Background(), lvl) {
		return
	}
	l.Log(context.Background(), lvl, fmt.Sprintf(format, args...))
}

// Debug logs at debug level using printf-style formatting.
func Debug(format string, args ...interface{}) { logf(slog.LevelDebug, format, args...) }

// Info logs at info level using printf-style formatting.
func Info(format string, args ...interface{}) { logf(slog.LevelInfo, format, args...) }

// Warn logs at warn level using printf-style formatting.
func Warn(format string, args ...interface{}) { logf(slog.LevelWarn, format, args...) }

// Error logs at error level using printf-style formatting.
func Error(format string, args ...interface{}) { logf(slog.LevelError, format, args...) }

// WithComponent returns a structured logger tagged with a component name.
//
//	log := logger.WithComponent("auth")
//	log.Info("session restored", "userID", u.ID)
func WithComponent(component string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return get().With(slog.String("component", component))
}

// WithChat returns a structured logger tagged with a chat ID.
func WithChat(chatID string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return get().With(slog.String("chatID", chatID))
}

// Path returns the file currently being written, or "" before first use.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	base = slog.New(slog.DiscardHandler)
}

// Reset returns the package to its initial state so Init can be called again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	base = nil
	logPath = ""
}

// ClearLogs removes Nelson log files from /tmp and reports how many were deleted.
func ClearLogs() (int, error) {
	paths, err := filepath.Glob(logGlob)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, p := range paths {
		if err := os.Remove(p); err == nil {
			count++
		} else if !os.IsNotExist(err) {
			return count, err
		}
	}
	return count, nil
}

// Files lists Nelson log files on disk, the active log first.
func Files() ([]string, error) {
	paths, err := filepath.Glob(logGlob)
	if err != nil {
		return nil, err
	}
	active := Path()
	if active == "" {
		active = DefaultLogPath
	}
	out := make([]string, 0, len(paths)+1)
	if _, err := os.Stat(active); err == nil {
		out = append(out, active)
	}
	for _, p := range paths {
		if p != active {
			out = append(out, p)
		}
	}
	return out, nil
}
