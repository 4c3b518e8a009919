package acclaim

import (
	"context"
	"log/slog"

	"github.com/handiism/universally-acclaimed/internal/collect"
)

// Progress levels, re-exported for callers that only import this package.
const (
	LevelInfo    = collect.LevelInfo
	LevelVerbose = collect.LevelVerbose
	LevelWarning = collect.LevelWarning
	LevelError   = collect.LevelError
	LevelSuccess = collect.LevelSuccess
)

// LogEvents returns a progress callback that writes events to log.
//
// Verbose events are logged at debug level.
func LogEvents(log *slog.Logger) func(collect.ProgressEvent) {
	return func(event collect.ProgressEvent) {
		log.Log(context.Background(), slogLevel(event.Level), event.Message)
	}
}

func slogLevel(level collect.ProgressLevel) slog.Level {
	switch level {
	case collect.LevelVerbose:
		return slog.LevelDebug
	case collect.LevelWarning:
		return slog.LevelWarn
	case collect.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
