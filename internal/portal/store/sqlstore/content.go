package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
)

const contentColumns = `id, family, payload, is_active, created_at, updated_at`

type contentRepo struct {
	q          *queries
	lockFamily func(ctx context.Context, db DBTX, family string) error
}

func scanContent(row rowScanner) (domain.ContentRecord, error) {
	var (
		rec     domain.ContentRecord
		family  string
		payload []byte
	)
	if err := row.Scan(&rec.ID, &family, &payload, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return domain.ContentRecord{}, err
	}
	if err := json.Unmarshal(payload, &rec.Payload); err != nil {
		return domain.ContentRecord{}, fmt.Errorf("decode payload of %s: %w", rec.ID, err)
	}
	rec.Family = domain.Family(family)
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}

func (r *contentRepo) LockFamily(ctx context.Context, family domain.Family) error {
	if r.lockFamily == nil {
		return nil
	}
	return r.lockFamily(ctx, r.q.db, string(family))
}

func (r *contentRepo) GetContent(ctx context.Context, id string) (domain.ContentRecord, error) {
	rec, err := scanContent(r.q.queryRow(ctx, `SELECT `+contentColumns+` FROM content_records WHERE id = ?`, id))
	return rec, mapNotFound(err)
}

func (r *contentRepo) GetActiveContent(ctx context.Context, family domain.Family) (domain.ContentRecord, error) {
	rec, err := scanContent(r.q.queryRow(ctx,
		`SELECT `+contentColumns+` FROM content_records WHERE family = ? AND is_active = ?`, string(family), true))
	return rec, mapNotFound(err)
}

func (r *contentRepo) ListContent(ctx context.Context, family domain.Family) ([]domain.ContentRecord, error) {
	rows, err := r.q.query(ctx, `SELECT `+contentColumns+` FROM content_records
		WHERE family = ? ORDER BY created_at DESC, id DESC`, string(family))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ContentRecord
	for rows.Next() {
		rec, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *contentRepo) CreateContent(ctx context.Context, rec domain.ContentRecord) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return err
	}
	_, err = r.q.exec(ctx, `INSERT INTO content_records (`+contentColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Family), string(payload), rec.IsActive, rec.CreatedAt.UTC(), rec.UpdatedAt.UTC())
	return err
}

func (r *contentRepo) UpdateContent(ctx context.Context, rec domain.ContentRecord) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return err
	}
	return requireOneRow(r.q.exec(ctx,
		`UPDATE content_records SET payload = ?, is_active = ?, updated_at = ? WHERE id = ? AND family = ?`,
		string(payload), rec.IsActive, rec.UpdatedAt.UTC(), rec.ID, string(rec.Family)))
}

func (r *contentRepo) DeactivateFamily(ctx context.Context, family domain.Family, exceptID string, at time.Time) (int64, error) {
	res, err := r.q.exec(ctx, `UPDATE content_records SET is_active = ?, updated_at = ?
		WHERE family = ? AND is_active = ? AND id <> ?`, false, at.UTC(), string(family), true, exceptID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
