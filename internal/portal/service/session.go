package service

import (
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/pkg/idx"
	"github.com/aussiebroadwan/findit/pkg/jwtx"
)

const (
	ScopeProfileRead  = "profile:read"
	ScopeProfileWrite = "profile:write"
	ScopeContentWrite = "content:write"
	ScopeAdminRead    = "admin:read"
	ScopeAdminWrite   = "admin:write"
)

// ScopesFor derives the session scopes of an identity from its role.
func ScopesFor(ident domain.Identity) []string {
	scopes := []string{ScopeProfileRead, ScopeProfileWrite}
	if ident.IsStaff() {
		scopes = append(scopes, ScopeContentWrite, ScopeAdminRead, ScopeAdminWrite)
	}
	return scopes
}

// SessionIssuer signs the short-lived token handed to the presentation layer
// after a successful sign-in. Nothing about the session is stored.
type SessionIssuer struct {
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
	Clock  Clock
}

// Issue signs a token for ident and returns it with its lifetime.
func (s *SessionIssuer) Issue(ident domain.Identity) (string, time.Duration, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	claims := jwtx.NewSessionClaims(
		ident.ID, idx.New().String(),
		ScopesFor(ident),
		ttl, s.Issuer,
		ident.Handle, ident.DisplayName, string(ident.Role),
		s.Clock.now(),
	)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", 0, err
	}
	return token, ttl, nil
}
