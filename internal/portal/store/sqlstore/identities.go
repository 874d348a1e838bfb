package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/store"
)

const identityColumns = `id, handle, email, display_name, password_hash, role, is_staff, is_active,
	lrn, grade_section, employee_id, department,
	failed_attempt_count, last_failed_at, locked_until,
	last_password_change, last_login_ip, last_login_at, created_at, updated_at`

type identitiesRepo struct {
	q         *queries
	forUpdate string
	unique    func(error) bool
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (domain.Identity, error) {
	var (
		id                                   domain.Identity
		role                                 string
		lrn, gradeSection, employeeID, dept  sql.NullString
		lastLoginIP                          sql.NullString
		lastFailedAt, lockedUntil, lastLogin sql.NullTime
	)
	err := row.Scan(
		&id.ID, &id.Handle, &id.Email, &id.DisplayName, &id.PasswordHash, &role, &id.Staff, &id.Active,
		&lrn, &gradeSection, &employeeID, &dept,
		&id.FailedAttemptCount, &lastFailedAt, &lockedUntil,
		&id.LastPasswordChange, &lastLoginIP, &lastLogin, &id.CreatedAt, &id.UpdatedAt,
	)
	if err != nil {
		return domain.Identity{}, err
	}

	id.Role = domain.Role(role)
	id.LRN = mapNullString(lrn)
	id.GradeSection = mapNullString(gradeSection)
	id.EmployeeID = mapNullString(employeeID)
	id.Department = mapNullString(dept)
	id.LastFailedAt = mapNullTimePtr(lastFailedAt)
	id.LockedUntil = mapNullTimePtr(lockedUntil)
	id.LastLoginIP = mapNullString(lastLoginIP)
	id.LastLoginAt = mapNullTimePtr(lastLogin)
	id.LastPasswordChange = id.LastPasswordChange.UTC()
	id.CreatedAt = id.CreatedAt.UTC()
	id.UpdatedAt = id.UpdatedAt.UTC()
	return id, nil
}

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	row := r.q.queryRow(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = ?`, id)
	ident, err := scanIdentity(row)
	return ident, mapNotFound(err)
}

func (r *identitiesRepo) GetIdentityForUpdate(ctx context.Context, id string) (domain.Identity, error) {
	row := r.q.queryRow(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = ?`+r.forUpdate, id)
	ident, err := scanIdentity(row)
	return ident, mapNotFound(err)
}

func (r *identitiesRepo) FindByIdentifier(ctx context.Context, key string) ([]domain.Identity, error) {
	key = domain.LookupKey(key)
	rows, err := r.q.query(ctx, `SELECT `+identityColumns+` FROM identities
		WHERE handle_key = ? OR email_key = ?
		ORDER BY created_at, id`, key, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Identity
	for rows.Next() {
		ident, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ident)
	}
	return out, rows.Err()
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, id domain.Identity) error {
	_, err := r.q.exec(ctx, `INSERT INTO identities (
			id, handle, handle_key, email, email_key, display_name, password_hash, role, is_staff, is_active,
			lrn, grade_section, employee_id, department,
			failed_attempt_count, last_password_change, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		id.ID, id.Handle, domain.LookupKey(id.Handle), id.Email, domain.LookupKey(id.Email),
		id.DisplayName, id.PasswordHash, string(id.Role), id.Staff, id.Active,
		mapStringNull(id.LRN), mapStringNull(id.GradeSection),
		mapStringNull(id.EmployeeID), mapStringNull(id.Department),
		id.LastPasswordChange.UTC(), id.CreatedAt.UTC(), id.UpdatedAt.UTC(),
	)
	if err != nil && r.unique != nil && r.unique(err) {
		return fmt.Errorf("%w: %w", store.ErrAlreadyExists, err)
	}
	return err
}

func (r *identitiesRepo) UpdateLockout(ctx context.Context, id domain.Identity) error {
	return requireOneRow(r.q.exec(ctx, `UPDATE identities SET
			failed_attempt_count = ?, last_failed_at = ?, locked_until = ?,
			last_login_ip = ?, last_login_at = ?, updated_at = ?
		WHERE id = ?`,
		id.FailedAttemptCount, mapOptionalTime(id.LastFailedAt), mapOptionalTime(id.LockedUntil),
		mapStringNull(id.LastLoginIP), mapOptionalTime(id.LastLoginAt), id.UpdatedAt.UTC(),
		id.ID,
	))
}

func (r *identitiesRepo) UpdatePasswordHash(ctx context.Context, id, hash string, changedAt time.Time) error {
	return requireOneRow(r.q.exec(ctx, `UPDATE identities SET
			password_hash = ?, last_password_change = ?, updated_at = ?
		WHERE id = ?`, hash, changedAt.UTC(), changedAt.UTC(), id))
}

func (r *identitiesRepo) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	return requireOneRow(r.q.exec(ctx,
		`UPDATE identities SET is_active = ?, updated_at = ? WHERE id = ?`, active, at.UTC(), id))
}

func (r *identitiesRepo) DeleteIdentity(ctx context.Context, id string) error {
	return requireOneRow(r.q.exec(ctx, `DELETE FROM identities WHERE id = ?`, id))
}
