package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// parseLogLevel maps a level name onto a slog.Level. The empty name is info.
func parseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", name)
	}
}

func checkLogFormat(format string) error {
	switch strings.ToLower(format) {
	case "text", "json", "":
		return nil
	default:
		return fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", format)
	}
}

// newLogger creates an isolated slog.Logger writing to outW. The returned
// logger is always usable; on error it runs at info level with text output.
func newLogger(levelStr, formatStr string, outW io.Writer) (*slog.Logger, error) {
	level, levelErr := parseLogLevel(levelStr)
	formatErr := checkLogFormat(formatStr)

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatErr == nil && strings.EqualFold(formatStr, "json") {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	if levelErr != nil {
		return slog.New(handler), levelErr
	}
	return slog.New(handler), formatErr
}
