package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across casegen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldRunID     = "run_id"

	// Sources
	FieldFile = "file"
	FieldLine = "line"
	FieldPath = "path"

	// Declarations and artifacts
	FieldType      = "type"
	FieldNamespace = "namespace"
	FieldHint      = "hint"
	FieldArtifact  = "artifact"

	// Counts and timing
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"
)

// ComponentLogger returns a named logger for a specific component.
//
// Example:
//
//	type Generator struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewGenerator() *Generator {
//	    return &Generator{logger: logger.ComponentLogger("casegen.driver")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
