package app

import (
	"context"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/getsentry/sentry-go"
)

// initSentry is a no-op without a DSN; the sentry package then drops every
// capture.
func initSentry(dsn, env, release string) error {
	if dsn == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          release,
		AttachStacktrace: true,
	})
}

func flushSentry() {
	sentry.Flush(2 * time.Second)
}

// reportAuditFailure sends a lost audit record to Sentry. The audit log
// has already logged it.
func reportAuditFailure(_ context.Context, err error, e domain.AuditEntry) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "audit")
		scope.SetTag("audit_action", e.Action)
		if e.ActorID != "" {
			scope.SetUser(sentry.User{ID: e.ActorID})
		}
		scope.SetExtra("detail", e.Detail)
		sentry.CaptureException(err)
	})
}
