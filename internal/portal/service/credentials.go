package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/store"
	"github.com/aussiebroadwan/findit/pkg/cryptox"
	"github.com/aussiebroadwan/findit/pkg/slogx"
)

// AuthResult is what Authenticate hands back. Identity is set only when the
// outcome is AUTHENTICATED.
type AuthResult struct {
	Outcome  domain.Outcome
	Identity *domain.Identity
}

// CredentialService resolves an identifier to an identity by handle or email
// and runs the password check through the lockout guard.
type CredentialService struct {
	Store store.Store
	Guard *LockoutGuard
	Audit *AuditLog

	dummyOnce sync.Once
	dummyHash string
}

// Authenticate resolves identifier case-insensitively against handles and
// emails. Candidates are tried oldest first and the first that verifies wins.
// The error return is reserved for storage failures; every other result is an
// outcome.
func (s *CredentialService) Authenticate(ctx context.Context, identifier, password, origin string) (AuthResult, error) {
	l := slogx.FromContext(ctx)

	if strings.TrimSpace(identifier) == "" || password == "" {
		s.Audit.Record(ctx, domain.AuditEntry{
			Action: string(domain.ActionLoginFailed),
			Detail: "empty identifier or password",
			Origin: origin,
		})
		return AuthResult{Outcome: domain.OutcomeBadCredentials}, nil
	}

	candidates, err := s.Store.Identities().FindByIdentifier(ctx, identifier)
	if err != nil {
		return AuthResult{}, persistence("find identity", err)
	}

	var (
		tried     int
		locked    int
		firstSeen string
	)
	for _, c := range candidates {
		if !c.Active {
			continue
		}
		tried++
		if firstSeen == "" {
			firstSeen = c.ID
		}

		res, err := s.Guard.Attempt(ctx, c.ID, password, origin)
		if err != nil {
			return AuthResult{}, err
		}

		switch res.Outcome {
		case domain.OutcomeAuthenticated:
			ident := res.Identity
			s.Audit.Record(ctx, domain.AuditEntry{
				ActorID: ident.ID,
				Action:  string(domain.ActionLogin),
				Detail:  "signed in as " + ident.Handle,
				Origin:  origin,
			})
			l.Info("identity authenticated", slog.String("identity_id", ident.ID))
			return AuthResult{Outcome: domain.OutcomeAuthenticated, Identity: &ident}, nil

		case domain.OutcomeAccountLocked:
			locked++
			s.Audit.Record(ctx, domain.AuditEntry{
				ActorID: c.ID,
				Action:  string(domain.ActionAccountLocked),
				Detail:  "sign-in rejected while locked",
				Origin:  origin,
			})

		default:
			if res.Locked {
				s.Audit.Record(ctx, domain.AuditEntry{
					ActorID: c.ID,
					Action:  string(domain.ActionAccountLocked),
					Detail:  "locked after repeated failed sign-ins",
					Origin:  origin,
				})
			}
		}
	}

	if tried == 0 {
		// Spend the same hashing work as a real check so response times do
		// not reveal whether the identifier exists.
		_ = cryptox.VerifyPassword(password, s.dummy())
	}

	if tried > 0 && locked == tried {
		return AuthResult{Outcome: domain.OutcomeAccountLocked}, nil
	}

	// The typed identifier is never stored: it is often a misplaced password.
	detail := "no identity matched"
	if firstSeen != "" {
		detail = "wrong password"
	}
	s.Audit.Record(ctx, domain.AuditEntry{
		ActorID: firstSeen,
		Action:  string(domain.ActionLoginFailed),
		Detail:  detail,
		Origin:  origin,
	})
	return AuthResult{Outcome: domain.OutcomeBadCredentials}, nil
}

func (s *CredentialService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := cryptox.HashPassword("findit-timing-equaliser")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
