package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
)

var (
	ErrPersistenceUnavailable = errors.New("persistence_unavailable")
	ErrUnknownFamily          = errors.New("unknown_family")
	ErrContentNotFound        = errors.New("content_not_found")
	ErrIdentityExists         = errors.New("identity_exists")
	ErrIdentityNotFound       = errors.New("identity_not_found")
	ErrInvalidCredentials     = errors.New("invalid_credentials")
	ErrAccountLocked          = errors.New("account_locked")
)

// Clock supplies the current time. A nil Clock reads the wall clock.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// persistence wraps a storage failure so callers can match it with
// errors.Is(err, ErrPersistenceUnavailable) without losing the cause.
func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistenceUnavailable, err)
}

// isOutcomeError reports errors that are meant for the caller as-is and must
// not be reported as storage failures.
func isOutcomeError(err error) bool {
	var verr *domain.ValidationError
	return errors.Is(err, ErrUnknownFamily) ||
		errors.Is(err, ErrContentNotFound) ||
		errors.Is(err, ErrIdentityExists) ||
		errors.Is(err, ErrIdentityNotFound) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrAccountLocked) ||
		errors.As(err, &verr)
}

// keyedMutex hands out one mutex per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

// Lock blocks until key is free and returns its unlock func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
