package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/stretchr/testify/require"
)

func TestLockout_FiveFailuresLockEvenCorrectPassword(t *testing.T) {
	f := newFixture(t)
	ident := f.register(t, "locky", "locky@example.com")

	for i := range 5 {
		res := f.login(t, "locky", wrongPasswd)
		require.Equal(t, domain.OutcomeBadCredentials, res.Outcome, "attempt %d", i+1)
	}

	got := f.reload(t, ident.ID)
	require.Equal(t, 5, got.FailedAttemptCount)
	require.NotNil(t, got.LockedUntil)
	require.True(t, got.LockedUntil.Equal(f.clock.Now().Add(15*time.Minute)))
	require.Equal(t, domain.LockLocked, got.LockState(f.clock.Now()))

	res := f.login(t, "locky", testPassword)
	require.Equal(t, domain.OutcomeAccountLocked, res.Outcome)
	require.Nil(t, res.Identity)
}

func TestLockout_LockedAttemptsAreNotCounted(t *testing.T) {
	f := newFixture(t)
	ident := f.register(t, "steady", "steady@example.com")
	for range 5 {
		f.login(t, "steady", wrongPasswd)
	}
	before := f.reload(t, ident.ID)

	f.clock.Advance(time.Minute)
	for range 3 {
		require.Equal(t, domain.OutcomeAccountLocked, f.login(t, "steady", wrongPasswd).Outcome)
	}

	after := f.reload(t, ident.ID)
	require.Equal(t, 5, after.FailedAttemptCount)
	require.True(t, after.LastFailedAt.Equal(*before.LastFailedAt))
	require.True(t, after.LockedUntil.Equal(*before.LockedUntil))
}

func TestLockout_ExpiryReopensAndSuccessResets(t *testing.T) {
	f := newFixture(t)
	ident := f.register(t, "patient", "patient@example.com")
	for range 5 {
		f.login(t, "patient", wrongPasswd)
	}

	f.clock.Advance(15 * time.Minute)
	res := f.login(t, "patient", testPassword)
	require.Equal(t, domain.OutcomeAuthenticated, res.Outcome)
	require.Equal(t, ident.ID, res.Identity.ID)

	got := f.reload(t, ident.ID)
	require.Zero(t, got.FailedAttemptCount)
	require.Nil(t, got.LockedUntil)
	require.Equal(t, testOrigin, got.LastLoginIP)
	require.NotNil(t, got.LastLoginAt)
	require.True(t, got.LastLoginAt.Equal(f.clock.Now()))
}

func TestLockout_FailureAfterExpiryStartsFresh(t *testing.T) {
	f := newFixture(t)
	ident := f.register(t, "again", "again@example.com")
	for range 5 {
		f.login(t, "again", wrongPasswd)
	}

	f.clock.Advance(16 * time.Minute)
	require.Equal(t, domain.OutcomeBadCredentials, f.login(t, "again", wrongPasswd).Outcome)

	got := f.reload(t, ident.ID)
	require.Equal(t, 1, got.FailedAttemptCount)
	require.Nil(t, got.LockedUntil)
	require.Equal(t, domain.LockOpen, got.LockState(f.clock.Now()))
}

func TestLockout_SuccessResetsCounter(t *testing.T) {
	f := newFixture(t)
	ident := f.register(t, "forgetful", "forgetful@example.com")
	for range 4 {
		f.login(t, "forgetful", wrongPasswd)
	}
	require.Equal(t, 4, f.reload(t, ident.ID).FailedAttemptCount)

	require.Equal(t, domain.OutcomeAuthenticated, f.login(t, "forgetful", testPassword).Outcome)
	require.Zero(t, f.reload(t, ident.ID).FailedAttemptCount)

	// The counter starts over: four more failures do not lock.
	for range 4 {
		f.login(t, "forgetful", wrongPasswd)
	}
	require.Nil(t, f.reload(t, ident.ID).LockedUntil)
}

func TestLockout_ConcurrentFailuresAllCounted(t *testing.T) {
	f := newFixture(t)
	ident := f.register(t, "swarm", "swarm@example.com")

	const attempts = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []AttemptResult
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.guard.Attempt(context.Background(), ident.ID, wrongPasswd, testOrigin)
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Len(t, results, attempts)

	var bad, locked, transitions int
	for _, r := range results {
		switch r.Outcome {
		case domain.OutcomeBadCredentials:
			bad++
		case domain.OutcomeAccountLocked:
			locked++
		}
		if r.Locked {
			transitions++
		}
	}
	require.Equal(t, 5, bad)
	require.Equal(t, attempts-5, locked)
	require.Equal(t, 1, transitions)
	require.Equal(t, 5, f.reload(t, ident.ID).FailedAttemptCount)
}

func TestLockout_AdminUnlock(t *testing.T) {
	f := newFixture(t)
	admin := f.register(t, "admin", "admin@example.com")
	ident := f.register(t, "stuck", "stuck@example.com")
	for range 5 {
		f.login(t, "stuck", wrongPasswd)
	}

	require.NoError(t, f.identity.Unlock(context.Background(), admin.ID, ident.ID, testOrigin))

	got := f.reload(t, ident.ID)
	require.Zero(t, got.FailedAttemptCount)
	require.Nil(t, got.LockedUntil)
	require.Equal(t, domain.OutcomeAuthenticated, f.login(t, "stuck", testPassword).Outcome)
	require.Contains(t, f.auditActions(t), domain.ActionAccountUnlocked)

	require.ErrorIs(t, f.identity.Unlock(context.Background(), admin.ID, "01JXNOSUCHIDENTITY00000000", testOrigin), ErrIdentityNotFound)
}

func TestLockout_CustomPolicy(t *testing.T) {
	f := newFixture(t)
	f.guard.Policy = domain.LockoutPolicy{MaxFailures: 2, Duration: time.Hour}
	ident := f.register(t, "strict", "strict@example.com")

	f.login(t, "strict", wrongPasswd)
	f.login(t, "strict", wrongPasswd)

	got := f.reload(t, ident.ID)
	require.NotNil(t, got.LockedUntil)
	require.True(t, got.LockedUntil.Equal(f.clock.Now().Add(time.Hour)))
}
