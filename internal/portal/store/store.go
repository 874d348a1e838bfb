package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface, implemented by the sqlite and
// postgres drivers. Repositories hang off it so a Tx-scoped Store exposes
// the same surface and nested transactions are impossible by construction.
type Store interface {
	Identities() Identities
	Preferences() Preferences
	Content() Content
	Audit() AuditRecords

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Identities interface {
	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)

	// GetIdentityForUpdate re-reads an identity inside a transaction and
	// holds its row lock (FOR UPDATE on postgres; sqlite write transactions
	// already hold the database lock) until the transaction ends.
	GetIdentityForUpdate(ctx context.Context, id string) (domain.Identity, error)

	// FindByIdentifier returns every identity whose handle or email matches
	// key under case-insensitive comparison, oldest first.
	FindByIdentifier(ctx context.Context, key string) ([]domain.Identity, error)

	// CreateIdentity inserts a new identity. A handle or email that collides
	// case-insensitively returns ErrAlreadyExists.
	CreateIdentity(ctx context.Context, id domain.Identity) error

	// UpdateLockout persists the lockout and last-login fields. Only the
	// lockout guard calls this.
	UpdateLockout(ctx context.Context, id domain.Identity) error

	UpdatePasswordHash(ctx context.Context, id, hash string, changedAt time.Time) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error

	// DeleteIdentity cascades to preferences; audit records keep the row
	// with their actor cleared.
	DeleteIdentity(ctx context.Context, id string) error
}

type Preferences interface {
	GetPreferences(ctx context.Context, identityID string) (domain.Preferences, error)
	CreatePreferences(ctx context.Context, p domain.Preferences) error
	UpdatePreferences(ctx context.Context, p domain.Preferences) error
}

type Content interface {
	// LockFamily serialises activation writers of one family until the
	// surrounding transaction ends.
	LockFamily(ctx context.Context, family domain.Family) error

	GetContent(ctx context.Context, id string) (domain.ContentRecord, error)
	GetActiveContent(ctx context.Context, family domain.Family) (domain.ContentRecord, error)

	// ListContent returns a family's records, newest first.
	ListContent(ctx context.Context, family domain.Family) ([]domain.ContentRecord, error)

	CreateContent(ctx context.Context, rec domain.ContentRecord) error
	UpdateContent(ctx context.Context, rec domain.ContentRecord) error

	// DeactivateFamily clears is_active on every record of family except
	// exceptID and returns how many rows changed.
	DeactivateFamily(ctx context.Context, family domain.Family, exceptID string, at time.Time) (int64, error)
}

// AuditQuery filters audit reads. An empty ActorID matches every actor.
type AuditQuery struct {
	ActorID string
	Limit   int
}

type AuditRecords interface {
	CreateAuditRecord(ctx context.Context, rec domain.AuditRecord) error

	// ListAuditRecords returns records newest first.
	ListAuditRecords(ctx context.Context, q AuditQuery) ([]domain.AuditRecord, error)

	CountAuditRecordsSince(ctx context.Context, action domain.Action, since time.Time) (int, error)
}
