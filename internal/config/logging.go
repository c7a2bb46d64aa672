package config

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging configures the global slog logger based on args.
// Returns the rotating log file (caller must close it) or nil if logging to stderr.
func SetupLogging(args Args) (io.Closer, error) {
	var output io.Writer = os.Stderr
	var logFile *lumberjack.Logger

	if args.Log != "" {
		// Probe output owns stdout, so a log file replaces stderr entirely
		logFile = &lumberjack.Logger{
			Filename:   args.Log,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		// Fail early on an unwritable path instead of on the first log line
		f, err := os.OpenFile(args.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		f.Close()
		output = logFile
	}

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(args.LogLevel),
	}
	if opts.Level == slog.LevelDebug {
		opts.AddSource = true
	}

	var handler slog.Handler
	if args.Json {
		// JSON mode gets JSON-formatted logs
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	slog.SetDefault(slog.New(handler))

	if logFile == nil {
		return nil, nil
	}
	return logFile, nil
}

// parseLogLevel converts string to slog.Level
func parseLogLevel(level string) slog.Level {
	switch level {
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
