package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/store"
	"github.com/aussiebroadwan/findit/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/findit/internal/portal/store/storetest"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) store.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, newMemoryStore)
}

func TestSQLiteStore_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.db")
	st, err := sqlite.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	id := storetest.NewIdentity("persisted", "persisted@example.com", now)
	require.NoError(t, st.Identities().CreateIdentity(ctx, id))
	require.NoError(t, st.Close())

	// Reopening runs migrations again as a no-op and sees the data.
	st, err = sqlite.NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	got, err := st.Identities().GetIdentityByID(ctx, id.ID)
	require.NoError(t, err)
	require.Equal(t, "persisted", got.Handle)
	require.True(t, got.CreatedAt.Equal(now))
}

// TestSQLiteStore_ConcurrentHandles opens one database file twice so the two
// sides only meet at sqlite's write lock.
func TestSQLiteStore_ConcurrentHandles(t *testing.T) {
	storetest.RunConcurrent(t, func(t *testing.T) (store.Store, store.Store) {
		t.Helper()
		path := filepath.Join(t.TempDir(), "portal.db")

		first, err := sqlite.NewStore(path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = first.Close() })
		require.NoError(t, first.ApplyMigrations())

		second, err := sqlite.NewStore(path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = second.Close() })
		return first, second
	})
}

func TestSQLiteStore_NestedTxRejected(t *testing.T) {
	st := newMemoryStore(t)
	err := st.WithTx(context.Background(), func(tx store.Tx) error {
		_, err := tx.Tx(context.Background())
		return err
	})
	require.Error(t, err)
}

func TestSQLiteStore_ForeignKeysEnforced(t *testing.T) {
	st := newMemoryStore(t)
	now := time.Now().UTC()
	err := st.Preferences().CreatePreferences(context.Background(), domain.Preferences{
		IdentityID: "01JXNOSUCHIDENTITY00000000", Theme: "light", FontSize: "medium",
		DashboardLayout: "grid", AccentColor: "#4a6baf", CreatedAt: now, UpdatedAt: now,
	})
	require.Error(t, err)
}
