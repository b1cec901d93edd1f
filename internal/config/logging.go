package config

import (
	"io"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"
)

// Logging holds the diagnostic logging options shared by both tools
type Logging struct {
	Log       string // log file path, empty means stderr only
	LogLevel  string // log level: debug, info, warn, error
	LogFormat string // log format: auto, text, json
}

func registerLoggingFlags(l *Logging, envPrefix string) {
	flag.StringVarP(&l.Log, "log", "l", "", "Also write diagnostic logs to this file")
	flag.StringVar(&l.LogLevel, "log-level", getEnv(envPrefix+"_LOG_LEVEL", "warn"), "Log level: debug, info, warn, error")
	flag.StringVar(&l.LogFormat, "log-format", getEnv(envPrefix+"_LOG_FORMAT", "auto"), "Log format: auto, text or json")
}

// SetupLogging configures the global slog logger based on l
// Returns the log file handle (caller must close it) or nil if no file
func SetupLogging(l Logging) (*os.File, error) {
	writers := []io.Writer{os.Stderr}
	var logFile *os.File

	if l.Log != "" {
		f, err := os.OpenFile(l.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		logFile = f
		writers = append(writers, f)
	}

	var output io.Writer
	if len(writers) == 1 {
		output = writers[0]
	} else {
		output = io.MultiWriter(writers...)
	}

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(l.LogLevel),
	}
	if opts.Level == slog.LevelDebug {
		opts.AddSource = true
	}

	var handler slog.Handler
	if resolveLogFormat(l.LogFormat, term.IsTerminal(int(os.Stderr.Fd()))) == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	slog.SetDefault(slog.New(handler))

	return logFile, nil
}

// resolveLogFormat maps "auto" to text on a terminal and json otherwise
func resolveLogFormat(format string, isTerminal bool) string {
	switch format {
	case "text", "json":
		return format
	}
	if isTerminal {
		return "text"
	}
	return "json"
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
