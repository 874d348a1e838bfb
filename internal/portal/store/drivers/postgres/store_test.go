package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/store"
	"github.com/aussiebroadwan/findit/internal/portal/store/drivers/postgres"
	"github.com/aussiebroadwan/findit/internal/portal/store/storetest"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const pgImage = "postgres:17-alpine"

// startPostgres runs a throwaway postgres server and returns a DSN template
// taking the database name.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres store tests need docker")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        pgImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "findit",
			"POSTGRES_PASSWORD": "findit",
			"POSTGRES_DB":       "findit",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("postgres://findit:findit@%s:%s/%%s?sslmode=disable", host, mappedPort.Port())
}

func TestPostgresStore(t *testing.T) {
	dsnFmt := startPostgres(t)

	admin, err := sql.Open("pgx", fmt.Sprintf(dsnFmt, "findit"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = admin.Close() })

	var n atomic.Int32
	// Each case gets its own database so migrations start clean.
	createDatabase := func(t *testing.T) string {
		t.Helper()
		name := fmt.Sprintf("findit_%d", n.Add(1))
		_, err := admin.ExecContext(context.Background(), "CREATE DATABASE "+name)
		require.NoError(t, err)
		return fmt.Sprintf(dsnFmt, name)
	}
	open := func(t *testing.T, dsn string) store.Store {
		t.Helper()
		st, err := postgres.NewStore(context.Background(), dsn, postgres.Config{MaxOpenConns: 4})
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close() })
		return st
	}

	t.Run("Conformance", func(t *testing.T) {
		storetest.Run(t, func(t *testing.T) store.Store {
			st := open(t, createDatabase(t))
			require.NoError(t, st.ApplyMigrations())
			return st
		})
	})

	// Two pools on one database, so FOR UPDATE and the family advisory lock
	// are all that keeps the writers apart.
	t.Run("ConcurrentHandles", func(t *testing.T) {
		storetest.RunConcurrent(t, func(t *testing.T) (store.Store, store.Store) {
			dsn := createDatabase(t)
			first := open(t, dsn)
			require.NoError(t, first.ApplyMigrations())
			return first, open(t, dsn)
		})
	})
}
