package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/aussiebroadwan/findit/pkg/slogx"
	"github.com/getsentry/sentry-go"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies mws to h so that the first middleware is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Recover turns a handler panic into a 500, logging it and reporting it to
// Sentry. Sentry calls are no-ops when no client has been initialised.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			sentry.WithScope(func(scope *sentry.Scope) {
				scope.SetRequest(r)
				scope.SetExtra("panic", rec)
				scope.SetExtra("stack", string(debug.Stack()))
				sentry.CaptureMessage("panic in request")
			})

			slogx.FromContext(r.Context()).Error("panic recovered",
				"path", r.URL.Path,
				"method", r.Method,
				"panic", rec,
			)

			WriteJSON(w, http.StatusInternalServerError, map[string]string{
				"error":             "server_error",
				"error_description": "internal server error",
			})
		}()

		next.ServeHTTP(w, r)
	})
}
