package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleStaff   Role = "staff"
)

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleStudent, RoleTeacher, RoleStaff:
		return r, true
	}
	return "", false
}

// Identity is an account able to authenticate, by handle or by email.
type Identity struct {
	ID           string
	Handle       string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         Role
	Staff        bool
	Active       bool

	// Student fields
	LRN          string
	GradeSection string

	// Teacher fields
	EmployeeID string
	Department string

	// Lockout state. Written only through the lockout transitions below.
	FailedAttemptCount int
	LastFailedAt       *time.Time
	LockedUntil        *time.Time

	LastPasswordChange time.Time
	LastLoginIP        string
	LastLoginAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsStaff reports whether the identity may manage content and accounts.
func (i *Identity) IsStaff() bool {
	return i.Staff || i.Role == RoleStaff
}

// LookupKey is the case-insensitive form handles and emails are stored and
// matched under.
func LookupKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
