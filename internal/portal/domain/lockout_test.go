package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/stretchr/testify/require"
)

func TestLockoutTransitions(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	p := domain.DefaultLockoutPolicy

	var id domain.Identity
	require.Equal(t, domain.LockOpen, id.LockState(now))

	for i := 1; i < p.MaxFailures; i++ {
		require.False(t, id.RecordFailure(now, p), "failure %d should not lock", i)
	}
	require.Equal(t, p.MaxFailures-1, id.FailedAttemptCount)
	require.Nil(t, id.LockedUntil)

	require.True(t, id.RecordFailure(now, p))
	require.Equal(t, domain.LockLocked, id.LockState(now))
	require.Equal(t, now.Add(15*time.Minute), *id.LockedUntil)
	require.Equal(t, now, *id.LastFailedAt)

	// Still locked a second before expiry; expiry is not observed early.
	almost := now.Add(15*time.Minute - time.Second)
	require.Equal(t, domain.LockLocked, id.LockState(almost))
	require.False(t, id.ObserveExpiry(almost))

	expired := now.Add(15 * time.Minute)
	require.Equal(t, domain.LockOpen, id.LockState(expired))
	require.True(t, id.ObserveExpiry(expired))
	require.Zero(t, id.FailedAttemptCount)
	require.Nil(t, id.LockedUntil)
	require.False(t, id.ObserveExpiry(expired))
}

func TestRecordSuccessResets(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	id := domain.Identity{FailedAttemptCount: 3}

	id.RecordSuccess(now, "203.0.113.9")
	require.Zero(t, id.FailedAttemptCount)
	require.Nil(t, id.LockedUntil)
	require.Equal(t, "203.0.113.9", id.LastLoginIP)
	require.Equal(t, now, *id.LastLoginAt)
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "AUTHENTICATED", domain.OutcomeAuthenticated.String())
	require.Equal(t, "ACCOUNT_LOCKED", domain.OutcomeAccountLocked.String())
	require.Equal(t, "REJECTED_BAD_CREDENTIALS", domain.OutcomeBadCredentials.String())
}

func TestLookupKeyAndRoles(t *testing.T) {
	require.Equal(t, "j.doe@example.com", domain.LookupKey("  J.Doe@Example.com "))

	r, ok := domain.ParseRole("Teacher")
	require.True(t, ok)
	require.Equal(t, domain.RoleTeacher, r)

	_, ok = domain.ParseRole("janitor")
	require.False(t, ok)

	require.True(t, (&domain.Identity{Role: domain.RoleStaff}).IsStaff())
	require.True(t, (&domain.Identity{Role: domain.RoleTeacher, Staff: true}).IsStaff())
	require.False(t, (&domain.Identity{Role: domain.RoleStudent}).IsStaff())
}
