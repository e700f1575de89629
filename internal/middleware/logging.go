package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// logCtxKey stores the request-scoped logger in the context.
type logCtxKey struct{}

// sensitiveHeaders lists headers masked in debug logs (lowercase).
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"x-api-key":     true,
}

// NewStructuredLogger logs one line per request and places a
// request-scoped slog.Logger in the context.
func NewStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			t1 := time.Now()
			requestID := middleware.GetReqID(r.Context())

			reqLogger := logger.With(slog.String("request_id", requestID))
			ctx := context.WithValue(r.Context(), logCtxKey{}, reqLogger)

			defer func() {
				level := slog.LevelInfo
				if ww.Status() >= 500 {
					level = slog.LevelError
				} else if ww.Status() >= 400 {
					level = slog.LevelWarn
				}

				latency := time.Since(t1)
				reqLogger.LogAttrs(ctx, level, "Request completed",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", ww.Status()),
					slog.Int("bytes_out", ww.BytesWritten()),
					slog.Duration("latency", latency),
				)
			}()

			if reqLogger.Enabled(ctx, slog.LevelDebug) {
				reqLogger.Debug("Request detail",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"headers", formatHeaders(r.Header),
				)
			}

			next.ServeHTTP(ww, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// GetLogger returns the request-scoped logger, or the default logger
// outside a request.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(logCtxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// formatHeaders masks sensitive values for debug output.
func formatHeaders(headers http.Header) map[string]string {
	result := make(map[string]string)
	for key, values := range headers {
		if sensitiveHeaders[strings.ToLower(key)] {
			result[key] = "[SENSITIVE]"
		} else {
			result[key] = strings.Join(values, ", ")
		}
	}
	return result
}
