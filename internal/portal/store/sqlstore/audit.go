package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/store"
)

const defaultAuditLimit = 50

type auditRepo struct {
	q *queries
}

func (r *auditRepo) CreateAuditRecord(ctx context.Context, rec domain.AuditRecord) error {
	var actor, origin, ua sql.NullString
	if rec.ActorID != nil {
		actor = sql.NullString{String: *rec.ActorID, Valid: true}
	}
	if rec.Origin != nil {
		origin = sql.NullString{String: *rec.Origin, Valid: true}
	}
	if rec.UserAgent != nil {
		ua = sql.NullString{String: *rec.UserAgent, Valid: true}
	}
	_, err := r.q.exec(ctx, `INSERT INTO audit_records (id, actor_id, action, detail, origin, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, actor, string(rec.Action), rec.Detail, origin, ua, rec.CreatedAt.UTC())
	return err
}

func (r *auditRepo) ListAuditRecords(ctx context.Context, q store.AuditQuery) ([]domain.AuditRecord, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	query := `SELECT id, actor_id, action, detail, origin, user_agent, created_at FROM audit_records`
	args := []any{}
	if q.ActorID != "" {
		query += ` WHERE actor_id = ?`
		args = append(args, q.ActorID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.q.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditRecord
	for rows.Next() {
		var (
			rec               domain.AuditRecord
			action            string
			actor, origin, ua sql.NullString
		)
		if err := rows.Scan(&rec.ID, &actor, &action, &rec.Detail, &origin, &ua, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Action = domain.Action(action)
		rec.ActorID = mapNullStringPtr(actor)
		rec.Origin = mapNullStringPtr(origin)
		rec.UserAgent = mapNullStringPtr(ua)
		rec.CreatedAt = rec.CreatedAt.UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *auditRepo) CountAuditRecordsSince(ctx context.Context, action domain.Action, since time.Time) (int, error) {
	var n int
	err := r.q.queryRow(ctx, `SELECT COUNT(*) FROM audit_records WHERE action = ? AND created_at >= ?`,
		string(action), since.UTC()).Scan(&n)
	return n, err
}
