package sqlstore

import (
	"context"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
)

type preferencesRepo struct {
	q *queries
}

func (r *preferencesRepo) GetPreferences(ctx context.Context, identityID string) (domain.Preferences, error) {
	var p domain.Preferences
	err := r.q.queryRow(ctx, `SELECT identity_id, theme, font_size, dashboard_layout, accent_color, created_at, updated_at
		FROM preferences WHERE identity_id = ?`, identityID).
		Scan(&p.IdentityID, &p.Theme, &p.FontSize, &p.DashboardLayout, &p.AccentColor, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Preferences{}, mapNotFound(err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (r *preferencesRepo) CreatePreferences(ctx context.Context, p domain.Preferences) error {
	_, err := r.q.exec(ctx, `INSERT INTO preferences
		(identity_id, theme, font_size, dashboard_layout, accent_color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.IdentityID, p.Theme, p.FontSize, p.DashboardLayout, p.AccentColor, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	return err
}

func (r *preferencesRepo) UpdatePreferences(ctx context.Context, p domain.Preferences) error {
	return requireOneRow(r.q.exec(ctx, `UPDATE preferences SET
			theme = ?, font_size = ?, dashboard_layout = ?, accent_color = ?, updated_at = ?
		WHERE identity_id = ?`,
		p.Theme, p.FontSize, p.DashboardLayout, p.AccentColor, p.UpdatedAt.UTC(), p.IdentityID))
}
