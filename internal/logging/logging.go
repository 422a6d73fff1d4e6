package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultMaxSizeMB = 10
	defaultMaxFiles  = 5
)

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// Config says where log lines go and how much is kept.
type Config struct {
	Level string
	// FilePath empty means JSON to stderr and no rotation.
	FilePath      string
	MaxSizeMB     int
	MaxFiles      int
	WriteToStderr bool
}

// FileConfig logs at level into the shared log file and nowhere else. The
// MCP server needs this because stdout carries JSON-RPC.
func FileConfig(level string) Config {
	return Config{
		Level:     level,
		FilePath:  DefaultLogPath(),
		MaxSizeMB: defaultMaxSizeMB,
		MaxFiles:  defaultMaxFiles,
	}
}

// Setup builds a JSON logger for cfg. The returned func flushes and closes
// the log file.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: LevelFromString(cfg.Level)}
	if cfg.FilePath == "" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	rw, err := NewRotatingWriter(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = rw
	if cfg.WriteToStderr {
		w = io.MultiWriter(rw, os.Stderr)
	}
	closeFn := func() {
		_ = rw.Sync()
		_ = rw.Close()
	}
	return slog.New(slog.NewJSONHandler(w, opts)), closeFn, nil
}

// Install makes a logger for cfg the slog default and records a
// "logging_started" entry carrying attrs. The returned func logs
// "logging_stopped" and closes the file.
func Install(cfg Config, attrs ...any) (func(), error) {
	logger, closeFn, err := Setup(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	start := append([]any{
		slog.String("log_file", cfg.FilePath),
		slog.String("level", LevelFromString(cfg.Level).String()),
	}, attrs...)
	logger.Info("logging_started", start...)

	return func() {
		logger.Info("logging_stopped")
		closeFn()
	}, nil
}

// Quiet returns a stderr text logger that only reports warnings and above.
// It is the CLI default when --debug is not set.
func Quiet(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// LevelFromString converts a level name to slog.Level, defaulting to info.
func LevelFromString(level string) slog.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return slog.LevelInfo
}

// ValidLevel reports whether level names a supported level.
func ValidLevel(level string) bool {
	_, ok := levels[strings.ToLower(strings.TrimSpace(level))]
	return ok
}
