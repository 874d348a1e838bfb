package domain

import "time"

// LockState is the lockout state of an identity at a given instant.
type LockState int

const (
	LockOpen LockState = iota
	LockLocked
)

func (s LockState) String() string {
	if s == LockLocked {
		return "LOCKED"
	}
	return "OPEN"
}

// LockoutPolicy sets how many consecutive failures lock an identity and for how long.
type LockoutPolicy struct {
	MaxFailures int
	Duration    time.Duration
}

var DefaultLockoutPolicy = LockoutPolicy{
	MaxFailures: 5,
	Duration:    15 * time.Minute,
}

// LockState is LOCKED only while now is before LockedUntil. An expired
// lock still reads as OPEN; ObserveExpiry clears it.
func (i *Identity) LockState(now time.Time) LockState {
	if i.LockedUntil != nil && now.Before(*i.LockedUntil) {
		return LockLocked
	}
	return LockOpen
}

// ObserveExpiry clears an elapsed lock and its failure counter. It reports
// whether anything changed.
func (i *Identity) ObserveExpiry(now time.Time) bool {
	if i.LockedUntil == nil || now.Before(*i.LockedUntil) {
		return false
	}
	i.LockedUntil = nil
	i.FailedAttemptCount = 0
	return true
}

// RecordFailure counts a failed password check made while OPEN and reports
// whether it moved the identity to LOCKED.
func (i *Identity) RecordFailure(now time.Time, p LockoutPolicy) bool {
	i.FailedAttemptCount++
	at := now
	i.LastFailedAt = &at

	if i.FailedAttemptCount < p.MaxFailures {
		return false
	}
	until := now.Add(p.Duration)
	i.LockedUntil = &until
	return true
}

// RecordSuccess resets the counter and lock and remembers where the login
// came from.
func (i *Identity) RecordSuccess(now time.Time, origin string) {
	i.ResetLockout()
	at := now
	i.LastLoginAt = &at
	i.LastLoginIP = origin
}

// ResetLockout is the administrative reset: counter to zero, lock cleared.
func (i *Identity) ResetLockout() {
	i.FailedAttemptCount = 0
	i.LockedUntil = nil
}
