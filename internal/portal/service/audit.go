package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/store"
	"github.com/aussiebroadwan/findit/pkg/idx"
	"github.com/aussiebroadwan/findit/pkg/slogx"
)

// Reporter is told about audit entries that could not be persisted.
type Reporter func(ctx context.Context, err error, entry domain.AuditEntry)

// AuditLog appends audit records. Recording never fails the caller: a write
// that cannot be persisted is logged and handed to Report instead.
type AuditLog struct {
	Store  store.Store
	Clock  Clock
	Report Reporter
}

// Record appends e. Unknown action labels are stored as "other" with the
// label folded into the detail. Safe to call on a nil *AuditLog.
func (a *AuditLog) Record(ctx context.Context, e domain.AuditEntry) {
	if a == nil || a.Store == nil {
		return
	}
	// The primary operation may already have finished its request.
	ctx = context.WithoutCancel(ctx)

	now := a.Clock.now()
	action, detail := domain.ParseAction(e.Action, e.Detail)
	rec := domain.AuditRecord{
		ID:        idx.NewAt(now).String(),
		ActorID:   optional(e.ActorID),
		Action:    action,
		Detail:    detail,
		Origin:    optional(e.Origin),
		UserAgent: optional(e.UserAgent),
		CreatedAt: now,
	}

	err := a.create(ctx, rec)
	if err == nil {
		return
	}

	slogx.FromContext(ctx).Error("audit record not persisted",
		slog.String("action", string(action)),
		slog.String("actor_id", e.ActorID),
		slog.Any("err", err))
	if a.Report != nil {
		a.Report(ctx, err, e)
	}
}

func (a *AuditLog) create(ctx context.Context, rec domain.AuditRecord) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("audit store panic: %v", r)
		}
	}()
	return a.Store.Audit().CreateAuditRecord(ctx, rec)
}

// Recent returns audit records, most recent first.
func (a *AuditLog) Recent(ctx context.Context, q store.AuditQuery) ([]domain.AuditRecord, error) {
	recs, err := a.Store.Audit().ListAuditRecords(ctx, q)
	if err != nil {
		return nil, persistence("list audit records", err)
	}
	return recs, nil
}

// CountSince counts records of one action created at or after since.
func (a *AuditLog) CountSince(ctx context.Context, action domain.Action, since time.Time) (int, error) {
	n, err := a.Store.Audit().CountAuditRecordsSince(ctx, action, since)
	if err != nil {
		return 0, persistence("count audit records", err)
	}
	return n, nil
}

// LoginsToday counts successful logins since midnight UTC.
func (a *AuditLog) LoginsToday(ctx context.Context) (int, error) {
	now := a.Clock.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return a.CountSince(ctx, domain.ActionLogin, midnight)
}
