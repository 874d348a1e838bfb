package service

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/pkg/cryptox"
	"github.com/aussiebroadwan/findit/pkg/idx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthenticate_HandleOrEmailAnyCase(t *testing.T) {
	f := newFixture(t)
	ident := f.register(t, "Jdoe", "J.Doe@Example.com")

	for _, id := range []string{"jdoe", "JDOE", "Jdoe", "j.doe@example.com", "J.DOE@EXAMPLE.COM"} {
		res := f.login(t, id, testPassword)
		require.Equal(t, domain.OutcomeAuthenticated, res.Outcome, id)
		require.Equal(t, ident.ID, res.Identity.ID, id)
	}
}

func TestAuthenticate_BadCredentialsDoNotLeak(t *testing.T) {
	f := newFixture(t)
	f.register(t, "known", "known@example.com")

	unknown := f.login(t, "nobody", testPassword)
	wrong := f.login(t, "known", wrongPasswd)
	require.Equal(t, domain.OutcomeBadCredentials, unknown.Outcome)
	require.Equal(t, unknown, wrong)

	require.Equal(t, domain.OutcomeBadCredentials, f.login(t, "", testPassword).Outcome)
	require.Equal(t, domain.OutcomeBadCredentials, f.login(t, "known", "").Outcome)
	require.Equal(t, domain.OutcomeBadCredentials, f.login(t, "   ", testPassword).Outcome)
}

func TestAuthenticate_DeactivatedNeverAuthenticates(t *testing.T) {
	f := newFixture(t)
	ident := f.register(t, "dormant", "dormant@example.com")
	_, err := f.identity.SetActive(context.Background(), "", ident.ID, false, testOrigin)
	require.NoError(t, err)

	require.Equal(t, domain.OutcomeBadCredentials, f.login(t, "dormant", testPassword).Outcome)
	require.Equal(t, domain.OutcomeBadCredentials, f.login(t, "dormant", wrongPasswd).Outcome)
	require.Zero(t, f.reload(t, ident.ID).FailedAttemptCount)

	_, err = f.identity.SetActive(context.Background(), "", ident.ID, true, testOrigin)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeAuthenticated, f.login(t, "dormant", testPassword).Outcome)
}

// insertRaw bypasses registration so inconsistent data can be staged.
func insertRaw(t *testing.T, f *fixture, handle, email, password string, createdAt time.Time) domain.Identity {
	t.Helper()
	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)
	ident := domain.Identity{
		ID:                 idx.NewAt(createdAt).String(),
		Handle:             handle,
		Email:              email,
		DisplayName:        handle,
		PasswordHash:       hash,
		Role:               domain.RoleStudent,
		Active:             true,
		LastPasswordChange: createdAt,
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
	require.NoError(t, f.store.Identities().CreateIdentity(context.Background(), ident))
	return ident
}

func TestAuthenticate_AmbiguousMatchTriesEveryCandidate(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()

	// older's handle equals newer's email, which registration would refuse.
	older := insertRaw(t, f, "shared@example.com", "older@example.com", "older-password", now.Add(-time.Hour))
	newer := insertRaw(t, f, "newer", "Shared@Example.com", "newer-password", now)

	res := f.login(t, "shared@example.com", "newer-password")
	require.Equal(t, domain.OutcomeAuthenticated, res.Outcome)
	require.Equal(t, newer.ID, res.Identity.ID)
	require.Equal(t, 1, f.reload(t, older.ID).FailedAttemptCount)

	res = f.login(t, "SHARED@example.com", "older-password")
	require.Equal(t, domain.OutcomeAuthenticated, res.Outcome)
	require.Equal(t, older.ID, res.Identity.ID)
	require.Zero(t, f.reload(t, older.ID).FailedAttemptCount)
	require.Zero(t, f.reload(t, newer.ID).FailedAttemptCount, "the first match won, newer was never tried")
}

func TestAuthenticate_AllCandidatesLocked(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()
	insertRaw(t, f, "twin@example.com", "a@example.com", "pw-a-123456", now.Add(-time.Hour))
	insertRaw(t, f, "b", "twin@example.com", "pw-b-123456", now)

	for range 5 {
		require.Equal(t, domain.OutcomeBadCredentials, f.login(t, "twin@example.com", wrongPasswd).Outcome)
	}
	require.Equal(t, domain.OutcomeAccountLocked, f.login(t, "twin@example.com", "pw-b-123456").Outcome)
}

func TestAuthenticate_AuditFailureDoesNotBlockLogin(t *testing.T) {
	st := newTestStore(t)
	f := newFixtureWithAudit(t, st, failingAuditStore{Store: st})
	var reported atomic.Int32
	f.audit.Report = func(_ context.Context, err error, e domain.AuditEntry) {
		require.ErrorIs(t, err, errAuditDown)
		reported.Add(1)
	}

	// Registration audits too, and must survive the same failure.
	ident := f.register(t, "resilient", "resilient@example.com")
	reported.Store(0)

	res := f.login(t, "resilient", testPassword)
	require.Equal(t, domain.OutcomeAuthenticated, res.Outcome)
	require.Equal(t, ident.ID, res.Identity.ID)
	require.EqualValues(t, 1, reported.Load())

	recs, err := f.audit.Recent(context.Background(), auditAll)
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestAuthenticate_AuditPanicDoesNotBlockLogin(t *testing.T) {
	st := newTestStore(t)
	f := newFixtureWithAudit(t, st, failingAuditStore{Store: st, panics: true})
	f.register(t, "sturdy", "sturdy@example.com")

	require.Equal(t, domain.OutcomeAuthenticated, f.login(t, "sturdy", testPassword).Outcome)
}

func TestAuthenticate_RecordsAuditTrail(t *testing.T) {
	f := newFixture(t)
	ident := f.register(t, "tracked", "tracked@example.com")

	f.login(t, "tracked", testPassword)
	for range 5 {
		f.login(t, "tracked", wrongPasswd)
	}
	f.login(t, "tracked", testPassword)

	// Newest first.
	require.Equal(t, []domain.Action{
		domain.ActionAccountLocked,
		domain.ActionLoginFailed,
		domain.ActionAccountLocked,
		domain.ActionLoginFailed,
		domain.ActionLoginFailed,
		domain.ActionLoginFailed,
		domain.ActionLoginFailed,
		domain.ActionLogin,
		domain.ActionUserCreated,
	}, f.auditActions(t))

	recs, err := f.audit.Recent(context.Background(), auditAll)
	require.NoError(t, err)
	for _, r := range recs {
		require.NotNil(t, r.ActorID)
		require.Equal(t, ident.ID, *r.ActorID)
	}
	require.NotNil(t, recs[0].Origin)
	require.Equal(t, testOrigin, *recs[0].Origin)
}

func TestAuthenticate_FailedLoginDetailOmitsIdentifier(t *testing.T) {
	f := newFixture(t)
	ident := f.register(t, "typist", "typist@example.com")

	// A password typed into the identifier field.
	f.login(t, "correct horse battery staple", testPassword)
	f.login(t, "TYPIST", wrongPasswd)

	recs, err := f.audit.Recent(context.Background(), auditAll)
	require.NoError(t, err)

	var failed []domain.AuditRecord
	for _, r := range recs {
		if r.Action == domain.ActionLoginFailed {
			failed = append(failed, r)
		}
	}
	require.Len(t, failed, 2)

	known, unknown := failed[0], failed[1]
	require.Equal(t, "wrong password", known.Detail)
	require.NotNil(t, known.ActorID)
	require.Equal(t, ident.ID, *known.ActorID)

	require.Equal(t, "no identity matched", unknown.Detail)
	require.Nil(t, unknown.ActorID)

	for _, r := range failed {
		require.NotContains(t, r.Detail, "horse")
		require.NotContains(t, r.Detail, "TYPIST")
	}
}

func TestAuthenticate_LegacyBcryptIsUpgraded(t *testing.T) {
	f := newFixture(t)
	ident := f.register(t, "legacy", "legacy@example.com")

	legacy, err := bcrypt.GenerateFromPassword([]byte("old-portal-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	changed := ident.LastPasswordChange
	require.NoError(t, f.store.Identities().UpdatePasswordHash(context.Background(), ident.ID, string(legacy), changed))

	require.Equal(t, domain.OutcomeAuthenticated, f.login(t, "legacy", "old-portal-pass").Outcome)

	got := f.reload(t, ident.ID)
	require.True(t, strings.HasPrefix(got.PasswordHash, "$argon2id$"))
	require.True(t, got.LastPasswordChange.Equal(changed))
	require.Equal(t, domain.OutcomeAuthenticated, f.login(t, "legacy", "old-portal-pass").Outcome)
}
