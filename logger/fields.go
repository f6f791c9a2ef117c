package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings.
const (
	// Identity and context
	FieldConversionID = "conversion_id"
	FieldUserID       = "user_id"
	FieldDocument     = "document"
	FieldComponent    = "component"

	// Records
	FieldLine       = "line"
	FieldRecordID   = "record_id"
	FieldRecordKind = "record_kind"
	FieldToken      = "token"

	// Normalization
	FieldDBName   = "db_name"
	FieldEntityID = "entity_id"
	FieldScope    = "scope"

	// Files, endpoints and timing
	FieldFile       = "file"
	FieldPath       = "path"
	FieldEndpoint   = "endpoint"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"

	// Counts
	FieldCount   = "count"
	FieldSkipped = "skipped"

	// Errors
	FieldError = "error"
)

type contextKey string

const (
	conversionIDKey contextKey = "logger_conversion_id"
	documentKey     contextKey = "logger_document"
)

// WithConversionID adds a conversion ID to the context for logging
func WithConversionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, conversionIDKey, id)
}

// WithDocument adds a document name to the context for logging
func WithDocument(ctx context.Context, document string) context.Context {
	return context.WithValue(ctx, documentKey, document)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if id, ok := ctx.Value(conversionIDKey).(string); ok && id != "" {
		fields = append(fields, FieldConversionID, id)
	}
	if document, ok := ctx.Value(documentKey).(string); ok && document != "" {
		fields = append(fields, FieldDocument, document)
	}

	return fields
}

// FromContext returns parent (or the global logger when nil) with fields extracted from ctx.
func FromContext(ctx context.Context, parent *zap.SugaredLogger) *zap.SugaredLogger {
	if parent == nil {
		parent = Logger
	}
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return parent
	}
	return parent.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	func NewConverter() *Converter {
//	    return &Converter{
//	        logger: logger.ComponentLogger("convert"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
