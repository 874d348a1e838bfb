package service

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/pkg/cryptox"
	"github.com/aussiebroadwan/findit/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestSessionIssuer_RoundTrip(t *testing.T) {
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("session-key", pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := jwtx.NewVerifierEdDSA(keys, "findit")

	issuer := &SessionIssuer{Signer: signer, Issuer: "findit"}
	ident := domain.Identity{ID: "01JXSTAFF00000000000000000", Handle: "warden", DisplayName: "The Warden", Role: domain.RoleStaff}

	token, ttl, err := issuer.Issue(ident)
	require.NoError(t, err)
	require.Equal(t, jwtx.DefaultSessionTTL, ttl)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, ident.ID, claims.Subject)
	require.Equal(t, "warden", claims.Handle)
	require.Equal(t, "staff", claims.Role)
	require.True(t, claims.HasScope(ScopeContentWrite))
	require.True(t, claims.HasScope(ScopeAdminWrite))
	require.WithinDuration(t, time.Now().Add(ttl), claims.ExpiresAt.Time, time.Minute)
}

func TestScopesFor(t *testing.T) {
	student := domain.Identity{Role: domain.RoleStudent}
	require.Equal(t, []string{ScopeProfileRead, ScopeProfileWrite}, ScopesFor(student))

	flagged := domain.Identity{Role: domain.RoleTeacher, Staff: true}
	require.Contains(t, ScopesFor(flagged), ScopeAdminRead)
}
