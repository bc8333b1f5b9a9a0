// Package logger installs the process-wide slog handler. Importing it for
// side effects is enough; the console additionally redirects it with ToFile
// because the terminal belongs to the TUI.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	slogmulti "github.com/samber/slog-multi"
)

var (
	mu   sync.Mutex
	base slog.Handler
)

func init() {
	install(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: getLogLevel(),
	}))
}

func getLogLevel() slog.Level {
	levelStr := os.Getenv("LOG_LEVEL")
	switch levelStr {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo // Default to Info if not set or invalid
	}
}

func install(h slog.Handler) {
	mu.Lock()
	defer mu.Unlock()

	base = h
	slog.SetDefault(slog.New(h))
}

// ToFile sends the JSON log to path, appending. An empty path discards
// everything. The returned closer must be closed on exit.
func ToFile(path string) (io.Closer, error) {
	if path == "" {
		install(slog.DiscardHandler)
		return io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	install(slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: getLogLevel(),
	}))

	return f, nil
}

// Tee makes the default logger write to h as well as to the current handler.
func Tee(h slog.Handler) {
	mu.Lock()
	current := base
	mu.Unlock()

	install(slogmulti.Fanout(current, h))
}
