package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"student-data-system/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	instance *slog.Logger
	once     sync.Once
)

// Get returns the process-wide logger. Release mode writes JSON to a
// rotating file when a path is configured, debug mode writes text to
// stdout.
func Get() *slog.Logger {
	once.Do(func() {
		cfg := config.Get()
		opts := &slog.HandlerOptions{
			AddSource: cfg.Mode == config.ModeRelease,
			Level:     getLogLevel(cfg.Log.Level),
		}

		var handler slog.Handler
		if cfg.Mode == config.ModeRelease && cfg.Log.FilePath != "" {
			lumberjackLogger := &lumberjack.Logger{
				Filename:   cfg.Log.FilePath,
				MaxSize:    cfg.Log.MaxSize,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAge:     cfg.Log.MaxAge,
				Compress:   cfg.Log.Compress,
			}
			handler = slog.NewJSONHandler(lumberjackLogger, opts)
		} else {
			handler = slog.NewTextHandler(os.Stdout, opts)
		}

		instance = slog.New(handler).With(
			"app_name", "student-data-system",
			"env", string(cfg.Mode),
		)
	})
	return instance
}

// New returns a logger tagged with a module field.
func New(module string) *slog.Logger {
	return Get().With("module", module)
}

func getLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
