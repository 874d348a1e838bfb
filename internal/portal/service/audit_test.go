package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/store"
	"github.com/stretchr/testify/require"
)

func TestAuditLog_UnknownActionBecomesOther(t *testing.T) {
	f := newFixture(t)
	f.audit.Record(context.Background(), domain.AuditEntry{Action: "building_renamed", Detail: "Hall A to Hall B"})
	f.audit.Record(context.Background(), domain.AuditEntry{Action: "LOGOUT"})

	recs, err := f.audit.Recent(context.Background(), auditAll)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	require.Equal(t, domain.ActionLogout, recs[0].Action)
	require.Nil(t, recs[0].ActorID)
	require.Nil(t, recs[0].Origin)

	require.Equal(t, domain.ActionOther, recs[1].Action)
	require.Equal(t, "building_renamed: Hall A to Hall B", recs[1].Detail)
}

func TestAuditLog_FailuresAreReportedNotReturned(t *testing.T) {
	st := newTestStore(t)
	var got []domain.AuditEntry
	log := &AuditLog{
		Store: failingAuditStore{Store: st},
		Report: func(_ context.Context, err error, e domain.AuditEntry) {
			require.ErrorIs(t, err, errAuditDown)
			got = append(got, e)
		},
	}

	log.Record(context.Background(), domain.AuditEntry{Action: "login", ActorID: "someone"})
	require.Len(t, got, 1)
	require.Equal(t, "login", got[0].Action)

	panicky := &AuditLog{Store: failingAuditStore{Store: st, panics: true}}
	require.NotPanics(t, func() {
		panicky.Record(context.Background(), domain.AuditEntry{Action: "login"})
	})

	var nilLog *AuditLog
	require.NotPanics(t, func() {
		nilLog.Record(context.Background(), domain.AuditEntry{Action: "login"})
	})
}

func TestAuditLog_RecordsAfterCancellation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.audit.Record(ctx, domain.AuditEntry{Action: "logout"})
	require.Equal(t, []domain.Action{domain.ActionLogout}, f.auditActions(t))
}

func TestAuditLog_ReadersFilterAndCount(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "alice", "alice@example.com")
	b := f.register(t, "bob", "bob@example.com")

	// Yesterday's login must not count towards today.
	f.clock.Advance(-24 * time.Hour)
	f.login(t, "alice", testPassword)
	f.clock.Advance(24 * time.Hour)

	f.login(t, "alice", testPassword)
	f.login(t, "bob", testPassword)
	f.login(t, "bob", wrongPasswd)

	n, err := f.audit.LoginsToday(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)

	bobs, err := f.audit.Recent(context.Background(), store.AuditQuery{ActorID: b.ID})
	require.NoError(t, err)
	require.Len(t, bobs, 3)
	require.Equal(t, domain.ActionLoginFailed, bobs[0].Action)

	latest, err := f.audit.Recent(context.Background(), store.AuditQuery{ActorID: a.ID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, latest, 1)
	require.Equal(t, domain.ActionLogin, latest[0].Action)
	require.True(t, latest[0].CreatedAt.Equal(f.clock.Now()))
}
