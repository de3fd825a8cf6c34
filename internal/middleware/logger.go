package middleware

import (
	"context"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type contextKey string

// RequestIDKey holds the per-request id assigned by RequestLogger.
const RequestIDKey contextKey = "request_id"

// RequestLogger returns a chi middleware that assigns each request an id and
// logs method, path, status and duration once the handler returns.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			start := time.Now()
			defer func() {
				logger.Info("request completed",
					slog.String("request_id", requestID),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", ww.Status()),
					slog.Duration("duration", time.Since(start)),
				)
			}()

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}

// RequestID returns the id assigned by RequestLogger, or "" when the request
// did not pass through it.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
