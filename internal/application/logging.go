package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/attendance-tracker/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// Error kind labels shared by logs, metrics and the HTTP layer.
const (
	KindInvalidInput    = "invalid_input"
	KindNotFound        = "not_found"
	KindDuplicateKey    = "duplicate_key"
	KindDuplicateRecord = "duplicate_record"
	KindUnexpected      = "unexpected"
)

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateKey):
		return KindDuplicateKey
	case errors.Is(err, ErrDuplicateRecord):
		return KindDuplicateRecord
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return KindInvalidInput
	}

	return KindUnexpected
}
