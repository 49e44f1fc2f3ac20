package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/broady/rawr"
)

// Logging creates an interceptor that logs calls using slog.
// It logs the start and end of each call, including duration and error status.
func Logging(logger *slog.Logger) rawr.UnaryInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, call *rawr.Call, next rawr.HandlerFunc) (any, error) {
		start := time.Now()
		endpoint := call.Service + "." + call.Method

		logger.InfoContext(ctx, "request started",
			slog.String("endpoint", endpoint),
			slog.Uint64("id", uint64(call.ID)),
		)

		res, err := next(ctx, call)
		duration := time.Since(start)

		if err != nil {
			logger.ErrorContext(ctx, "request failed",
				slog.String("endpoint", endpoint),
				slog.Uint64("id", uint64(call.ID)),
				slog.Duration("duration", duration),
				slog.Any("error", err),
			)
		} else {
			logger.InfoContext(ctx, "request completed",
				slog.String("endpoint", endpoint),
				slog.Uint64("id", uint64(call.ID)),
				slog.Duration("duration", duration),
			)
		}

		return res, err
	}
}
