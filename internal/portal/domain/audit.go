package domain

import (
	"strings"
	"time"
)

// Action is the closed set of audit kinds.
type Action string

const (
	ActionLogin              Action = "login"
	ActionLogout             Action = "logout"
	ActionLoginFailed        Action = "login_failed"
	ActionAccountLocked      Action = "account_locked"
	ActionAccountUnlocked    Action = "account_unlocked"
	ActionUserCreated        Action = "user_created"
	ActionUserUpdated        Action = "user_updated"
	ActionUserDeleted        Action = "user_deleted"
	ActionUserActivated      Action = "user_activated"
	ActionUserDeactivated    Action = "user_deactivated"
	ActionProfileUpdated     Action = "profile_updated"
	ActionPasswordChanged    Action = "password_changed"
	ActionPreferencesUpdated Action = "preferences_updated"
	ActionContentCreated     Action = "content_created"
	ActionContentUpdated     Action = "content_updated"
	ActionContentActivated   Action = "content_activated"
	ActionOther              Action = "other"
)

var knownActions = map[Action]struct{}{
	ActionLogin: {}, ActionLogout: {}, ActionLoginFailed: {}, ActionAccountLocked: {},
	ActionAccountUnlocked: {}, ActionUserCreated: {}, ActionUserUpdated: {}, ActionUserDeleted: {},
	ActionUserActivated: {}, ActionUserDeactivated: {}, ActionProfileUpdated: {},
	ActionPasswordChanged: {}, ActionPreferencesUpdated: {}, ActionContentCreated: {},
	ActionContentUpdated: {}, ActionContentActivated: {}, ActionOther: {},
}

// ParseAction maps label onto the closed set. An unknown label becomes
// ActionOther and is folded into the detail text so it is never lost.
func ParseAction(label, detail string) (Action, string) {
	a := Action(strings.ToLower(strings.TrimSpace(label)))
	if _, ok := knownActions[a]; ok {
		return a, detail
	}
	if detail == "" {
		return ActionOther, label
	}
	return ActionOther, label + ": " + detail
}

// AuditEntry is what callers hand to the audit log.
type AuditEntry struct {
	ActorID   string // empty for system actions
	Action    string
	Detail    string
	Origin    string
	UserAgent string
}

// AuditRecord is a persisted, immutable audit fact.
type AuditRecord struct {
	ID        string
	ActorID   *string
	Action    Action
	Detail    string
	Origin    *string
	UserAgent *string
	CreatedAt time.Time
}
