package http

import (
	"context"
	"log/slog"
)

const serviceName = "auth-service"

func httpLogger() *slog.Logger {
	return slog.Default().With(
		"service", serviceName,
		"module", "http",
		"layer", "adapter",
	)
}

// logHTTPOperationError records a failed operation at warn below 500 and
// error at 500+. The logged error carries the internal detail the response
// body omits.
func logHTTPOperationError(ctx context.Context, operation string, statusCode int, code, message string, err error) {
	fields := []any{
		"operation", operation,
		"outcome", "failure",
		"status_code", statusCode,
		"error_code", code,
		"message", message,
		"request_id", requestIDFromContext(ctx),
	}
	if err != nil {
		fields = append(fields, "error", err.Error())
	}
	logger := httpLogger()
	if statusCode >= 500 {
		logger.ErrorContext(ctx, "http operation failed", fields...)
		return
	}
	logger.WarnContext(ctx, "http operation failed", fields...)
}
