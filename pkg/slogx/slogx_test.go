package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/findit/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, slogx.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, slogx.ParseLevel("warning"))
	require.Equal(t, slog.LevelError, slogx.ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, slogx.ParseLevel("whatever"))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	require.Equal(t, slog.Default(), slogx.FromContext(context.Background()))
}

func TestHTTPMiddlewareAttachesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "portal-test", Env: "test", Format: "json", Output: &buf})

	var seen *slog.Logger
	h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = slogx.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.NotNil(t, seen)
	require.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, "http_request", line["msg"])
	require.Equal(t, "req-123", line["req_id"])
	require.Equal(t, "portal-test", line["service"])
	require.EqualValues(t, http.StatusTeapot, line["status"])
	require.Equal(t, "WARN", line["level"])
}

func TestHTTPMiddlewareSummaryLine(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "portal-test", Env: "test", Format: "json", Output: &buf})

	h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := slogx.Annotate(r.Context(), "identity_id", "01JX0000000000000000000000")
		slogx.FromContext(ctx).Info("handler ran")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("oops"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 500))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	reqID := rec.Header().Get("X-Request-ID")
	require.Len(t, reqID, 26, "oversized request IDs are replaced")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inner, summary map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &summary))

	require.Equal(t, "handler ran", inner["msg"])
	require.Equal(t, "01JX0000000000000000000000", inner["identity_id"])
	require.Equal(t, reqID, inner["req_id"])

	require.Equal(t, "http_request", summary["msg"])
	require.Equal(t, "ERROR", summary["level"])
	require.Equal(t, "01JX0000000000000000000000", summary["identity_id"])
	require.EqualValues(t, 4, summary["bytes"])
	require.EqualValues(t, http.StatusInternalServerError, summary["status"])
}

func TestAnnotateOutsideRequest(t *testing.T) {
	ctx := slogx.Annotate(context.Background(), "job", "sweep")
	require.NotEqual(t, slog.Default(), slogx.FromContext(ctx))
}
