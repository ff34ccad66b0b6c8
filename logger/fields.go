package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings.
const (
	// Components
	FieldComponent = "component"
	FieldSymbol    = "symbol"

	// Operations
	FieldOperation = "operation"
	FieldPath      = "path"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount      = "count"
	FieldSkipped    = "skipped"
	FieldTotalCount = "total_count"
	FieldQueueSize  = "queue_size"

	// Network
	FieldAddress = "address"
	FieldURL     = "url"

	// Star systems
	FieldSystem   = "system"   // system name as observed
	FieldRegion   = "region"   // sector name
	FieldCoords   = "coords"   // region coordinate
	FieldID       = "id"       // packed star identifier
	FieldEDSMID   = "edsm_id"  // catalogue A id
	FieldEDDBID   = "eddb_id"  // catalogue B id
	FieldPosition = "position" // galactic position in ly
	FieldOutcome  = "outcome"  // resolution outcome
	FieldEvent    = "event"    // journal event name
	FieldSchema   = "schema"   // feed schema reference
)

type contextKey string

const (
	componentKey contextKey = "logger_component"
	sourceKey    contextKey = "logger_source"
)

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// WithSource records which dump file or feed URL the work in ctx came from.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}
	if source, ok := ctx.Value(sourceKey).(string); ok && source != "" {
		fields = append(fields, FieldPath, source)
	}

	return fields
}

// LoggerFromContext returns the global logger with fields extracted from ctx.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	reg := registry.New(registry.WithLogger(logger.ComponentLogger("registry")))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
