// Package storetest is a conformance suite run against every store driver.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/store"
	"github.com/aussiebroadwan/findit/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, migrated store. It should register its own cleanup.
type Factory func(t *testing.T) store.Store

var epoch = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

// Run executes the suite.
func Run(t *testing.T, newStore Factory) {
	t.Run("IdentityLookupIsCaseInsensitive", func(t *testing.T) { testIdentityLookup(t, newStore(t)) })
	t.Run("IdentityUniqueness", func(t *testing.T) { testIdentityUniqueness(t, newStore(t)) })
	t.Run("LockoutRoundTrip", func(t *testing.T) { testLockoutRoundTrip(t, newStore(t)) })
	t.Run("DeleteCascadesAndKeepsAudit", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("OneActivePerFamily", func(t *testing.T) { testOneActive(t, newStore(t)) })
	t.Run("TxRollback", func(t *testing.T) { testTxRollback(t, newStore(t)) })
	t.Run("AuditQueries", func(t *testing.T) { testAudit(t, newStore(t)) })
}

// NewIdentity builds a valid identity for tests.
func NewIdentity(handle, email string, createdAt time.Time) domain.Identity {
	return domain.Identity{
		ID:                 idx.NewAt(createdAt).String(),
		Handle:             handle,
		Email:              email,
		DisplayName:        handle,
		PasswordHash:       "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Role:               domain.RoleStudent,
		Active:             true,
		LastPasswordChange: createdAt,
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
}

func testIdentityLookup(t *testing.T, s store.Store) {
	ctx := context.Background()
	id := NewIdentity("Jdoe", "J.Doe@Example.com", epoch)
	require.NoError(t, s.Identities().CreateIdentity(ctx, id))

	for _, key := range []string{"jdoe", "JDOE", "j.doe@example.com", " J.DOE@EXAMPLE.COM "} {
		got, err := s.Identities().FindByIdentifier(ctx, key)
		require.NoError(t, err, key)
		require.Len(t, got, 1, key)
		require.Equal(t, id.ID, got[0].ID)
		require.Equal(t, "Jdoe", got[0].Handle, "display case is preserved")
	}

	got, err := s.Identities().FindByIdentifier(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = s.Identities().GetIdentityByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testIdentityUniqueness(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Identities().CreateIdentity(ctx, NewIdentity("jdoe", "jdoe@example.com", epoch)))

	err := s.Identities().CreateIdentity(ctx, NewIdentity("JDoe", "other@example.com", epoch.Add(time.Second)))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	err = s.Identities().CreateIdentity(ctx, NewIdentity("other", "JDOE@example.com", epoch.Add(2*time.Second)))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func testLockoutRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	id := NewIdentity("locky", "locky@example.com", epoch)
	require.NoError(t, s.Identities().CreateIdentity(ctx, id))

	now := epoch.Add(time.Hour)
	for range domain.DefaultLockoutPolicy.MaxFailures {
		id.RecordFailure(now, domain.DefaultLockoutPolicy)
	}
	id.UpdatedAt = now

	err := s.WithTx(ctx, func(tx store.Tx) error {
		cur, err := tx.Identities().GetIdentityForUpdate(ctx, id.ID)
		if err != nil {
			return err
		}
		require.Zero(t, cur.FailedAttemptCount)
		return tx.Identities().UpdateLockout(ctx, id)
	})
	require.NoError(t, err)

	got, err := s.Identities().GetIdentityByID(ctx, id.ID)
	require.NoError(t, err)
	require.Equal(t, 5, got.FailedAttemptCount)
	require.NotNil(t, got.LockedUntil)
	require.True(t, got.LockedUntil.Equal(now.Add(15*time.Minute)))
	require.Equal(t, domain.LockLocked, got.LockState(now))

	got.RecordSuccess(now.Add(time.Hour), "198.51.100.4")
	require.NoError(t, s.Identities().UpdateLockout(ctx, got))

	got, err = s.Identities().GetIdentityByID(ctx, id.ID)
	require.NoError(t, err)
	require.Zero(t, got.FailedAttemptCount)
	require.Nil(t, got.LockedUntil)
	require.Equal(t, "198.51.100.4", got.LastLoginIP)
	require.NotNil(t, got.LastLoginAt)
}

func testDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	id := NewIdentity("gone", "gone@example.com", epoch)
	require.NoError(t, s.Identities().CreateIdentity(ctx, id))
	require.NoError(t, s.Preferences().CreatePreferences(ctx, withTimes(domain.DefaultPreferences(id.ID))))

	actor := id.ID
	require.NoError(t, s.Audit().CreateAuditRecord(ctx, domain.AuditRecord{
		ID: idx.New().String(), ActorID: &actor, Action: domain.ActionLogin, CreatedAt: epoch,
	}))

	require.NoError(t, s.Identities().DeleteIdentity(ctx, id.ID))
	require.ErrorIs(t, s.Identities().DeleteIdentity(ctx, id.ID), store.ErrNotFound)

	_, err := s.Preferences().GetPreferences(ctx, id.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	recs, err := s.Audit().ListAuditRecords(ctx, store.AuditQuery{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Nil(t, recs[0].ActorID)
}

func testOneActive(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := domain.ContentRecord{
		ID: idx.New().String(), Family: domain.FamilyHomepage, IsActive: true,
		Payload:   domain.ContentPayload{Title: "A", Extra: map[string]string{"k": "v"}},
		CreatedAt: epoch, UpdatedAt: epoch,
	}
	require.NoError(t, s.Content().CreateContent(ctx, a))

	// A second active record in the same family violates the partial unique index.
	b := a
	b.ID = idx.New().String()
	b.Payload.Title = "B"
	require.Error(t, s.Content().CreateContent(ctx, b))

	// Other families are independent.
	c := a
	c.ID = idx.New().String()
	c.Family = domain.FamilyFindUsPoster
	require.NoError(t, s.Content().CreateContent(ctx, c))

	b.IsActive = false
	require.NoError(t, s.Content().CreateContent(ctx, b))

	n, err := s.Content().DeactivateFamily(ctx, domain.FamilyHomepage, b.ID, epoch.Add(time.Minute))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	b.IsActive = true
	b.UpdatedAt = epoch.Add(time.Minute)
	require.NoError(t, s.Content().UpdateContent(ctx, b))

	active, err := s.Content().GetActiveContent(ctx, domain.FamilyHomepage)
	require.NoError(t, err)
	require.Equal(t, b.ID, active.ID)
	require.Equal(t, "B", active.Payload.Title)
	require.Equal(t, "v", active.Payload.Extra["k"])

	list, err := s.Content().ListContent(ctx, domain.FamilyHomepage)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// UpdateContent is scoped to the record's family.
	wrong := b
	wrong.Family = domain.FamilyFindUsPoster
	wrong.IsActive = false
	require.ErrorIs(t, s.Content().UpdateContent(ctx, wrong), store.ErrNotFound)
}

func testTxRollback(t *testing.T, s store.Store) {
	ctx := context.Background()
	id := NewIdentity("rolled", "rolled@example.com", epoch)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Identities().CreateIdentity(ctx, id); err != nil {
			return err
		}
		return store.ErrNotFound
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Identities().GetIdentityByID(ctx, id.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testAudit(t *testing.T, s store.Store) {
	ctx := context.Background()
	id := NewIdentity("auditor", "auditor@example.com", epoch)
	require.NoError(t, s.Identities().CreateIdentity(ctx, id))
	actor := id.ID

	for i, a := range []domain.Action{domain.ActionLogin, domain.ActionLoginFailed, domain.ActionLogin, domain.ActionLogout} {
		rec := domain.AuditRecord{
			ID:        idx.NewAt(epoch.Add(time.Duration(i) * time.Hour)).String(),
			Action:    a,
			CreatedAt: epoch.Add(time.Duration(i) * time.Hour),
		}
		if i%2 == 0 {
			rec.ActorID = &actor
		}
		require.NoError(t, s.Audit().CreateAuditRecord(ctx, rec))
	}

	all, err := s.Audit().ListAuditRecords(ctx, store.AuditQuery{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, domain.ActionLogout, all[0].Action, "newest first")

	mine, err := s.Audit().ListAuditRecords(ctx, store.AuditQuery{ActorID: id.ID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, domain.ActionLogin, mine[0].Action)
	require.True(t, mine[0].CreatedAt.Equal(epoch.Add(2*time.Hour)))

	n, err := s.Audit().CountAuditRecordsSince(ctx, domain.ActionLogin, epoch.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func withTimes(p domain.Preferences) domain.Preferences {
	p.CreatedAt = epoch
	p.UpdatedAt = epoch
	return p
}
