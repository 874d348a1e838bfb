package slogx

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aussiebroadwan/findit/pkg/idx"
)

const maxRequestIDLen = 128

// requestSummary collects attributes that inner handlers want on the final
// http_request line.
type requestSummary struct {
	mu    sync.Mutex
	attrs []any
}

type summaryKey struct{}

// Annotate adds key/value pairs to the request-scoped logger in ctx and to
// the http_request line HTTPMiddleware writes when the request finishes.
// Outside a request it only enriches the logger.
func Annotate(ctx context.Context, args ...any) context.Context {
	if s, ok := ctx.Value(summaryKey{}).(*requestSummary); ok {
		s.mu.Lock()
		s.attrs = append(s.attrs, args...)
		s.mu.Unlock()
	}
	return WithContext(ctx, FromContext(ctx).With(args...))
}

// HTTPMiddleware attaches a request logger carrying the request ID and logs
// one http_request line per request. Server errors log at error level and
// client errors at warn.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" || len(reqID) > maxRequestIDLen {
				reqID = idx.New().String()
			}
			rw.Header().Set("X-Request-ID", reqID)

			logger := base.With(
				"req_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			summary := &requestSummary{}
			ctx := context.WithValue(r.Context(), summaryKey{}, summary)
			r = r.WithContext(WithContext(ctx, logger))

			next.ServeHTTP(rw, r)

			level := slog.LevelInfo
			switch {
			case rw.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case rw.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			summary.mu.Lock()
			attrs := append([]any{
				"status", rw.status,
				"bytes", rw.written,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
			}, summary.attrs...)
			summary.mu.Unlock()

			logger.Log(r.Context(), level, "http_request", attrs...)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter

	status  int
	written int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
