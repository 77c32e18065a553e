package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldComponent names the engine component that emitted the entry.
	FieldComponent = "engine_component"
	// FieldCallSite names the consumer policy (recommend, similar, scan...) behind the call.
	FieldCallSite = "engine_call_site"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, falling back to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// EngineFields returns the component and call site fields. Empty values are skipped.
func EngineFields(component, callSite string) []zap.Field {
	return StringFields(
		StringField{Key: FieldComponent, Value: component},
		StringField{Key: FieldCallSite, Value: callSite},
	)
}

// WithEngineFields tags the logger with the emitting component.
func WithEngineFields(logger *zap.Logger, component string) *zap.Logger {
	return WithFields(logger, EngineFields(component, "")...)
}

// WithCallSite tags the logger with both the component and the consumer policy.
func WithCallSite(logger *zap.Logger, component, callSite string) *zap.Logger {
	return WithFields(logger, EngineFields(component, callSite)...)
}
