package logger

import (
	"go.uber.org/zap"

	"github.com/teranos/starmatch/sym"
)

// Symbol-aware logging helpers.
// These log with the segment glyph as a structured field, not in the message,
// which keeps messages clean and logs queryable by segment.
//
//	logger.FeedInfow(log, "Connected", logger.FieldURL, url)

// FeedInfow logs an info message with the Feed symbol (꩜)
func FeedInfow(log *zap.SugaredLogger, msg string, keysAndValues ...interface{}) {
	withSymbol(log, sym.Feed).Infow(msg, keysAndValues...)
}

// FeedWarnw logs a warning message with the Feed symbol (꩜)
func FeedWarnw(log *zap.SugaredLogger, msg string, keysAndValues ...interface{}) {
	withSymbol(log, sym.Feed).Warnw(msg, keysAndValues...)
}

// IngestInfow logs an info message with the IX symbol (⨳)
func IngestInfow(log *zap.SugaredLogger, msg string, keysAndValues ...interface{}) {
	withSymbol(log, sym.IX).Infow(msg, keysAndValues...)
}

// StarInfow logs an info message with the Star symbol (✦)
func StarInfow(log *zap.SugaredLogger, msg string, keysAndValues ...interface{}) {
	withSymbol(log, sym.Star).Infow(msg, keysAndValues...)
}

// StarDebugw logs a debug message with the Star symbol (✦)
func StarDebugw(log *zap.SugaredLogger, msg string, keysAndValues ...interface{}) {
	withSymbol(log, sym.Star).Debugw(msg, keysAndValues...)
}

func withSymbol(log *zap.SugaredLogger, glyph string) *zap.SugaredLogger {
	if log == nil {
		log = Logger
	}
	return log.With(FieldSymbol, glyph)
}
