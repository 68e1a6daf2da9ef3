package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	apperrors "github.com/SAP-F-2025/frame-player/internal/errors"
)

// LogLevel represents different log levels for service operations
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service     string
	Component   string
	EnableDebug bool
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// Logger exposes the component logger
func (l *ServiceLogger) Logger() *slog.Logger {
	return l.logger
}

// ===== OPERATION LOGGING =====

func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, resourceID string, resourceType string, duration time.Duration, err error) {
	logLevel := LogLevelInfo
	status := "success"

	if err != nil {
		logLevel = LogLevelError
		status = "error"

		// Adjust log level based on error type
		switch {
		case IsDataFormat(err) || IsValidation(err) || IsBusinessRule(err):
			logLevel = LogLevelWarn
			status = "validation_error"
		case IsAssetResolution(err):
			logLevel = LogLevelWarn
			status = "asset_error"
		case IsNotFound(err):
			logLevel = LogLevelInfo
			status = "not_found"
		case IsConflict(err):
			logLevel = LogLevelInfo
			status = "conflict"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("resource_id", resourceID),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var dfe *apperrors.DataFormatError
		var ae *apperrors.AssetError
		var bre *BusinessRuleError
		switch {
		case errors.As(err, &dfe):
			attrs = append(attrs, slog.Int("validation_errors_count", len(dfe.Fields)))
		case errors.As(err, &ae):
			attrs = append(attrs, slog.String("image", ae.Image), slog.Int("frame_index", ae.FrameIndex))
		case errors.As(err, &bre):
			attrs = append(attrs, slog.String("business_rule", bre.Rule))
		}
	}

	// Add caller information for unexpected errors
	if logLevel == LogLevelError {
		if pc, file, line, ok := runtime.Caller(2); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				attrs = append(attrs,
					slog.String("caller_func", fn.Name()),
					slog.String("caller_file", file),
					slog.Int("caller_line", line),
				)
			}
		}
	}

	message := fmt.Sprintf("%s operation %s", operation, status)

	switch logLevel {
	case LogLevelDebug:
		if l.config.EnableDebug {
			l.logger.LogAttrs(ctx, slog.LevelDebug, message, attrs...)
		}
	case LogLevelInfo:
		l.logger.LogAttrs(ctx, slog.LevelInfo, message, attrs...)
	case LogLevelWarn:
		l.logger.LogAttrs(ctx, slog.LevelWarn, message, attrs...)
	case LogLevelError:
		l.logger.LogAttrs(ctx, slog.LevelError, message, attrs...)
	}
}

func (l *ServiceLogger) LogValidationError(ctx context.Context, operation string, validationErrors ValidationErrors) {
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.Int("error_count", len(validationErrors)),
	}

	for i, err := range validationErrors {
		if i < 5 { // Limit to first 5 errors to avoid log spam
			attrs = append(attrs, slog.Group(fmt.Sprintf("error_%d", i+1),
				slog.String("field", err.Field),
				slog.String("message", err.Message),
				slog.Any("value", err.Value),
			))
		}
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Validation failed", attrs...)
}

func (l *ServiceLogger) LogRecovery(ctx context.Context, operation string, recovered interface{}, stack []byte) {
	l.logger.LogAttrs(ctx, slog.LevelError, "Panic recovered",
		slog.String("operation", operation),
		slog.Any("panic_value", recovered),
		slog.String("stack_trace", string(stack)),
	)
}

// ===== MIDDLEWARE AND HELPERS =====

// ContextualLogger wraps operations with automatic logging
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) LogResult(resourceID string, resourceType string, err error) {
	duration := time.Since(cl.startTime)
	cl.logger.LogOperation(cl.ctx, cl.operation, resourceID, resourceType, duration, err)

	var dfe *apperrors.DataFormatError
	if errors.As(err, &dfe) && len(dfe.Fields) > 0 {
		cl.logger.LogValidationError(cl.ctx, cl.operation, dfe.Fields)
	}
}

// ===== ERROR FORMATTING HELPERS =====

func FormatError(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	result := map[string]interface{}{
		"message": err.Error(),
		"type":    "unknown",
	}

	var dfe *apperrors.DataFormatError
	var ae *apperrors.AssetError
	var bre *BusinessRuleError
	switch {
	case errors.As(err, &dfe):
		result["type"] = "data_format"
		result["reason"] = dfe.Reason
		if len(dfe.Fields) > 0 {
			result["errors"] = formatFields(dfe.Fields)
		}
	case errors.As(err, &ae):
		result["type"] = "asset"
		result["image"] = ae.Image
		result["frame_index"] = ae.FrameIndex
	case errors.As(err, &bre):
		result["type"] = "business_rule"
		result["rule"] = bre.Rule
		result["context"] = bre.Context
	case IsNotFound(err):
		result["type"] = "not_found"
	case IsConflict(err):
		result["type"] = "conflict"
	case IsValidation(err):
		result["type"] = "validation"
	}

	return result
}

func formatFields(errs ValidationErrors) []map[string]interface{} {
	fields := make([]map[string]interface{}, len(errs))
	for i, e := range errs {
		fields[i] = map[string]interface{}{
			"field":   e.Field,
			"message": e.Message,
			"value":   e.Value,
		}
	}
	return fields
}
