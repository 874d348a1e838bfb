package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/store"
	"github.com/aussiebroadwan/findit/pkg/cryptox"
	"github.com/aussiebroadwan/findit/pkg/slogx"
)

// LockoutGuard gates password checks for a single identity and is the only
// writer of its lockout fields.
type LockoutGuard struct {
	Store  store.Store
	Policy domain.LockoutPolicy
	Clock  Clock

	locks keyedMutex
}

// AttemptResult is the outcome of one guarded password check.
type AttemptResult struct {
	Outcome  domain.Outcome
	Identity domain.Identity

	// Locked is set when this attempt moved the identity to LOCKED.
	Locked bool
}

func (g *LockoutGuard) policy() domain.LockoutPolicy {
	if g.Policy.MaxFailures <= 0 || g.Policy.Duration <= 0 {
		return domain.DefaultLockoutPolicy
	}
	return g.Policy
}

// Attempt checks password against identity id. A LOCKED identity is rejected
// without hashing. The password is verified outside the write transaction;
// the lockout transition is then applied to a fresh, row-locked read and
// committed before the outcome is returned.
func (g *LockoutGuard) Attempt(ctx context.Context, id, password, origin string) (AttemptResult, error) {
	unlock := g.locks.Lock(id)
	defer unlock()

	l := slogx.FromContext(ctx)
	now := g.Clock.now()

	ident, err := g.Store.Identities().GetIdentityByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return AttemptResult{Outcome: domain.OutcomeBadCredentials}, nil
	}
	if err != nil {
		return AttemptResult{}, persistence("load identity", err)
	}
	if !ident.Active {
		return AttemptResult{Outcome: domain.OutcomeBadCredentials, Identity: ident}, nil
	}
	if ident.LockState(now) == domain.LockLocked {
		return AttemptResult{Outcome: domain.OutcomeAccountLocked, Identity: ident}, nil
	}

	verifiedHash := ident.PasswordHash
	verifyErr := cryptox.VerifyPassword(password, verifiedHash)
	if verifyErr != nil && !errors.Is(verifyErr, cryptox.ErrPasswordMismatch) {
		l.Warn("stored password hash cannot be verified", slog.String("identity_id", id), slog.Any("err", verifyErr))
	}
	passed := verifyErr == nil

	var rehash string
	if passed && cryptox.NeedsRehash(verifiedHash) {
		if rehash, err = cryptox.HashPassword(password); err != nil {
			l.Warn("password rehash failed", slog.String("identity_id", id), slog.Any("err", err))
			rehash = ""
		}
	}

	var res AttemptResult
	err = g.Store.WithTx(ctx, func(tx store.Tx) error {
		cur, err := tx.Identities().GetIdentityForUpdate(ctx, id)
		if err != nil {
			return err
		}

		// Another process may have moved the row since the unlocked read.
		if cur.LockState(now) == domain.LockLocked {
			res = AttemptResult{Outcome: domain.OutcomeAccountLocked, Identity: cur}
			return nil
		}
		if !cur.Active || cur.PasswordHash != verifiedHash {
			res = AttemptResult{Outcome: domain.OutcomeBadCredentials, Identity: cur}
			return nil
		}

		cur.ObserveExpiry(now)
		if passed {
			cur.RecordSuccess(now, origin)
			res = AttemptResult{Outcome: domain.OutcomeAuthenticated}
			if rehash != "" {
				if err := tx.Identities().UpdatePasswordHash(ctx, id, rehash, cur.LastPasswordChange); err != nil {
					return err
				}
				cur.PasswordHash = rehash
			}
		} else {
			res = AttemptResult{Outcome: domain.OutcomeBadCredentials}
			res.Locked = cur.RecordFailure(now, g.policy())
		}
		cur.UpdatedAt = now
		if err := tx.Identities().UpdateLockout(ctx, cur); err != nil {
			return err
		}
		res.Identity = cur
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return AttemptResult{Outcome: domain.OutcomeBadCredentials}, nil
	}
	if err != nil {
		return AttemptResult{}, persistence("record attempt", err)
	}

	if res.Locked {
		l.Info("identity locked", slog.String("identity_id", id), slog.Int("failures", res.Identity.FailedAttemptCount))
	}
	return res, nil
}

// Reset is the administrative reset: the failure counter goes to zero and any
// lock is cleared.
func (g *LockoutGuard) Reset(ctx context.Context, id string) (domain.Identity, error) {
	unlock := g.locks.Lock(id)
	defer unlock()

	now := g.Clock.now()
	var out domain.Identity
	err := g.Store.WithTx(ctx, func(tx store.Tx) error {
		cur, err := tx.Identities().GetIdentityForUpdate(ctx, id)
		if err != nil {
			return err
		}
		cur.ResetLockout()
		cur.UpdatedAt = now
		if err := tx.Identities().UpdateLockout(ctx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, ErrIdentityNotFound
	}
	if err != nil {
		return domain.Identity{}, persistence("reset lockout", err)
	}
	return out, nil
}
