package storetest

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/service"
	"github.com/aussiebroadwan/findit/internal/portal/store"
	"github.com/aussiebroadwan/findit/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

// PairFactory returns two independent, migrated handles on the same
// database, as two portal processes would hold. The first handle has
// already applied migrations.
type PairFactory func(t *testing.T) (store.Store, store.Store)

// RunConcurrent races writers through two handles so that only the store's
// own locking keeps them apart. Each handle gets its own services, so the
// in-process keyed mutexes never serialise the two sides.
func RunConcurrent(t *testing.T, newPair PairFactory) {
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	t.Run("LockoutFailuresAcrossHandles", func(t *testing.T) { testConcurrentLockout(t, newPair) })
	t.Run("ActivationsAcrossHandles", func(t *testing.T) { testConcurrentActivation(t, newPair) })
}

func fixedClock() service.Clock {
	now := epoch.Add(24 * time.Hour)
	return func() time.Time { return now }
}

func testConcurrentLockout(t *testing.T, newPair PairFactory) {
	a, b := newPair(t)
	ctx := context.Background()
	policy := domain.DefaultLockoutPolicy

	ident := NewIdentity("contested", "contested@example.com", epoch)
	hash, err := cryptox.HashPassword("the real password")
	require.NoError(t, err)
	ident.PasswordHash = hash
	require.NoError(t, a.Identities().CreateIdentity(ctx, ident))

	clock := fixedClock()
	guards := []*service.LockoutGuard{
		{Store: a, Policy: policy, Clock: clock},
		{Store: b, Policy: policy, Clock: clock},
	}

	const attempts = 8
	var (
		wg          sync.WaitGroup
		badCreds    atomic.Int32
		lockedOut   atomic.Int32
		transitions atomic.Int32
	)
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := guards[i%2].Attempt(ctx, ident.ID, fmt.Sprintf("guess %d", i), "198.51.100.9")
			if err != nil {
				t.Error(err)
				return
			}
			switch res.Outcome {
			case domain.OutcomeBadCredentials:
				badCreds.Add(1)
			case domain.OutcomeAccountLocked:
				lockedOut.Add(1)
			default:
				t.Errorf("attempt %d: unexpected outcome %v", i, res.Outcome)
			}
			if res.Locked {
				transitions.Add(1)
			}
		}()
	}
	wg.Wait()

	// Every counted failure was applied to the latest row, so the counter
	// stops exactly at the threshold and only one attempt locked it.
	require.EqualValues(t, policy.MaxFailures, badCreds.Load())
	require.EqualValues(t, attempts-policy.MaxFailures, lockedOut.Load())
	require.EqualValues(t, 1, transitions.Load())

	for _, st := range []store.Store{a, b} {
		got, err := st.Identities().GetIdentityByID(ctx, ident.ID)
		require.NoError(t, err)
		require.Equal(t, policy.MaxFailures, got.FailedAttemptCount)
		require.NotNil(t, got.LockedUntil)
		require.Equal(t, domain.LockLocked, got.LockState(clock()))
	}
}

func testConcurrentActivation(t *testing.T, newPair PairFactory) {
	a, b := newPair(t)
	ctx := context.Background()
	clock := fixedClock()

	services := []*service.ContentService{
		{Store: a, Audit: &service.AuditLog{Store: a, Clock: clock}, Clock: clock},
		{Store: b, Audit: &service.AuditLog{Store: b, Clock: clock}, Clock: clock},
	}

	const writers = 10
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := services[i%2].Activate(ctx, service.ActivateRequest{
				Family:   domain.FamilyHomepage,
				Payload:  domain.ContentPayload{Title: fmt.Sprintf("writer %d", i), Body: "Welcome to campus"},
				IsActive: true,
			})
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	for _, svc := range services {
		records, err := svc.ListRecords(ctx, domain.FamilyHomepage)
		require.NoError(t, err)
		require.Len(t, records, writers)

		active := 0
		for _, r := range records {
			if r.IsActive {
				active++
			}
		}
		require.Equal(t, 1, active)

		_, err = svc.ActiveRecord(ctx, domain.FamilyHomepage)
		require.NoError(t, err)
	}
}
