package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/store"
)

type Store struct {
	db      *sql.DB
	dialect *Dialect
	q       *queries
}

// New wraps an open database. The Store takes ownership of db.
func New(db *sql.DB, d *Dialect) *Store {
	return &Store{
		db:      db,
		dialect: d,
		q:       &queries{db: db, d: d},
	}
}

// DB exposes the underlying handle for driver-level setup and tests.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) ApplyMigrations() error {
	if s.dialect.Migrate == nil {
		return errors.New("sqlstore: no migrations for dialect " + s.dialect.Name)
	}
	return s.dialect.Migrate(s.db)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txStore{tx: tx, dialect: s.dialect, q: &queries{db: tx, d: s.dialect}}, nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Identities() store.Identities {
	return &identitiesRepo{q: s.q, forUpdate: s.dialect.ForUpdate, unique: s.dialect.IsUniqueViolation}
}
func (s *Store) Preferences() store.Preferences { return &preferencesRepo{q: s.q} }
func (s *Store) Content() store.Content {
	return &contentRepo{q: s.q, lockFamily: s.dialect.LockFamily}
}
func (s *Store) Audit() store.AuditRecords { return &auditRepo{q: s.q} }

type txStore struct {
	tx      *sql.Tx
	dialect *Dialect
	q       *queries
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error         { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }
func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Identities() store.Identities {
	return &identitiesRepo{q: t.q, forUpdate: t.dialect.ForUpdate, unique: t.dialect.IsUniqueViolation}
}
func (t *txStore) Preferences() store.Preferences { return &preferencesRepo{q: t.q} }
func (t *txStore) Content() store.Content {
	return &contentRepo{q: t.q, lockFamily: t.dialect.LockFamily}
}
func (t *txStore) Audit() store.AuditRecords { return &auditRepo{q: t.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func requireOneRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		v := ns.String
		return &v
	}
	return nil
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		v := nt.Time.UTC()
		return &v
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
