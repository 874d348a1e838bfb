package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/store"
	"github.com/aussiebroadwan/findit/pkg/cryptox"
	"github.com/aussiebroadwan/findit/pkg/idx"
)

const (
	MinPasswordLength = 8
	maxHandleLength   = 150
	maxNameLength     = 100
	maxSectionLength  = 50
	lrnLength         = 12
)

var handleRE = regexp.MustCompile(`^[\w.@+-]+$`)

// RegisterRequest carries everything needed to create an identity. Student
// and teacher fields are checked against Role.
type RegisterRequest struct {
	Handle      string
	Email       string
	Password    string
	DisplayName string
	Role        domain.Role
	Staff       bool

	LRN          string
	GradeSection string
	EmployeeID   string
	Department   string

	ActorID string
	Origin  string
}

// IdentityService covers the identity lifecycle around sign-in: registration,
// password changes and the administrative actions.
type IdentityService struct {
	Store store.Store
	Guard *LockoutGuard
	Audit *AuditLog
	Clock Clock
}

func (r *RegisterRequest) normalise() {
	r.Handle = strings.TrimSpace(r.Handle)
	r.Email = strings.TrimSpace(r.Email)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.LRN = strings.TrimSpace(r.LRN)
	r.GradeSection = strings.TrimSpace(r.GradeSection)
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.Department = strings.TrimSpace(r.Department)
}

func (r *RegisterRequest) validate() error {
	var v domain.ValidationError

	switch {
	case r.Handle == "":
		v.Add("handle", "is required")
	case utf8.RuneCountInString(r.Handle) > maxHandleLength:
		v.Add("handle", "must be at most 150 characters")
	case !handleRE.MatchString(r.Handle):
		v.Add("handle", "may contain only letters, digits and @ . + - _")
	}

	if r.Email == "" {
		v.Add("email", "is required")
	} else if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
		v.Add("email", "must be a valid email address")
	}

	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		v.Add("password", "must be at least 8 characters")
	}

	if r.DisplayName == "" {
		v.Add("display_name", "is required")
	} else if utf8.RuneCountInString(r.DisplayName) > maxNameLength {
		v.Add("display_name", "must be at most 100 characters")
	}

	switch r.Role {
	case domain.RoleStudent:
		if utf8.RuneCountInString(r.LRN) != lrnLength {
			v.Add("lrn", "must be exactly 12 characters")
		}
		if r.GradeSection == "" {
			v.Add("grade_section", "is required")
		} else if utf8.RuneCountInString(r.GradeSection) > maxSectionLength {
			v.Add("grade_section", "must be at most 50 characters")
		}
	case domain.RoleTeacher:
		if r.EmployeeID == "" {
			v.Add("employee_id", "is required")
		}
		if r.Department == "" {
			v.Add("department", "is required")
		}
	case domain.RoleStaff:
	default:
		v.Add("role", "must be one of student, teacher, staff")
	}

	return v.Err()
}

// Register validates req and creates the identity together with its default
// preferences in one transaction.
func (s *IdentityService) Register(ctx context.Context, req RegisterRequest) (domain.Identity, error) {
	req.normalise()
	if err := req.validate(); err != nil {
		return domain.Identity{}, err
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.Clock.now()
	ident := domain.Identity{
		ID:                 idx.NewAt(now).String(),
		Handle:             req.Handle,
		Email:              req.Email,
		DisplayName:        req.DisplayName,
		PasswordHash:       hash,
		Role:               req.Role,
		Staff:              req.Staff || req.Role == domain.RoleStaff,
		Active:             true,
		LRN:                req.LRN,
		GradeSection:       req.GradeSection,
		EmployeeID:         req.EmployeeID,
		Department:         req.Department,
		LastPasswordChange: now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// The unique keys cover handle against handle and email against
		// email. A handle may not collide with an email either.
		for _, key := range []string{ident.Handle, ident.Email} {
			existing, err := tx.Identities().FindByIdentifier(ctx, key)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return ErrIdentityExists
			}
		}

		if err := tx.Identities().CreateIdentity(ctx, ident); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrIdentityExists
			}
			return err
		}

		prefs := domain.DefaultPreferences(ident.ID)
		prefs.CreatedAt = now
		prefs.UpdatedAt = now
		return tx.Preferences().CreatePreferences(ctx, prefs)
	})
	if err != nil {
		if isOutcomeError(err) {
			return domain.Identity{}, err
		}
		return domain.Identity{}, persistence("register identity", err)
	}

	actor := req.ActorID
	if actor == "" {
		actor = ident.ID
	}
	s.Audit.Record(ctx, domain.AuditEntry{
		ActorID: actor,
		Action:  string(domain.ActionUserCreated),
		Detail:  fmt.Sprintf("registered %s (%s)", ident.Handle, ident.Role),
		Origin:  req.Origin,
	})
	return ident, nil
}

// Get loads one identity.
func (s *IdentityService) Get(ctx context.Context, id string) (domain.Identity, error) {
	ident, err := s.Store.Identities().GetIdentityByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, ErrIdentityNotFound
	}
	if err != nil {
		return domain.Identity{}, persistence("load identity", err)
	}
	return ident, nil
}

// ChangePassword checks current as a guarded attempt, so wrong guesses count
// towards the lockout and a LOCKED identity is refused outright. The lockout
// state is otherwise left alone.
func (s *IdentityService) ChangePassword(ctx context.Context, id, current, next, origin string) error {
	if utf8.RuneCountInString(next) < MinPasswordLength {
		var v domain.ValidationError
		v.Add("new_password", "must be at least 8 characters")
		return v.Err()
	}

	res, err := s.Guard.Attempt(ctx, id, current, origin)
	if err != nil {
		return err
	}
	switch res.Outcome {
	case domain.OutcomeAuthenticated:
	case domain.OutcomeAccountLocked:
		return ErrAccountLocked
	default:
		if res.Identity.ID == "" {
			return ErrIdentityNotFound
		}
		if res.Locked {
			s.Audit.Record(ctx, domain.AuditEntry{
				ActorID: id,
				Action:  string(domain.ActionAccountLocked),
				Detail:  "locked after repeated failed password checks",
				Origin:  origin,
			})
		}
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Store.Identities().UpdatePasswordHash(ctx, id, hash, s.Clock.now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrIdentityNotFound
		}
		return persistence("update password", err)
	}

	s.Audit.Record(ctx, domain.AuditEntry{
		ActorID: id,
		Action:  string(domain.ActionPasswordChanged),
		Origin:  origin,
	})
	return nil
}

// Unlock clears the lockout of identity id on behalf of actorID.
func (s *IdentityService) Unlock(ctx context.Context, actorID, id, origin string) error {
	ident, err := s.Guard.Reset(ctx, id)
	if err != nil {
		return err
	}
	s.Audit.Record(ctx, domain.AuditEntry{
		ActorID: actorID,
		Action:  string(domain.ActionAccountUnlocked),
		Detail:  "unlocked " + ident.Handle,
		Origin:  origin,
	})
	return nil
}

// SetActive enables or disables sign-in for identity id.
func (s *IdentityService) SetActive(ctx context.Context, actorID, id string, active bool, origin string) (domain.Identity, error) {
	now := s.Clock.now()
	if err := s.Store.Identities().SetActive(ctx, id, active, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, ErrIdentityNotFound
		}
		return domain.Identity{}, persistence("set active", err)
	}
	ident, err := s.Get(ctx, id)
	if err != nil {
		return domain.Identity{}, err
	}

	action := domain.ActionUserDeactivated
	if active {
		action = domain.ActionUserActivated
	}
	s.Audit.Record(ctx, domain.AuditEntry{
		ActorID: actorID,
		Action:  string(action),
		Detail:  ident.Handle,
		Origin:  origin,
	})
	return ident, nil
}

// Delete removes identity id and its preferences. Its audit history stays,
// with the actor cleared.
func (s *IdentityService) Delete(ctx context.Context, actorID, id, origin string) error {
	ident, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.Identities().DeleteIdentity(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrIdentityNotFound
		}
		return persistence("delete identity", err)
	}

	if actorID == id {
		actorID = ""
	}
	s.Audit.Record(ctx, domain.AuditEntry{
		ActorID: actorID,
		Action:  string(domain.ActionUserDeleted),
		Detail:  fmt.Sprintf("deleted %s (%s)", ident.Handle, ident.ID),
		Origin:  origin,
	})
	return nil
}

// Preferences returns the display settings of identity id.
func (s *IdentityService) Preferences(ctx context.Context, id string) (domain.Preferences, error) {
	p, err := s.Store.Preferences().GetPreferences(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Preferences{}, ErrIdentityNotFound
	}
	if err != nil {
		return domain.Preferences{}, persistence("load preferences", err)
	}
	return p, nil
}

// UpdatePreferences validates and stores p.
func (s *IdentityService) UpdatePreferences(ctx context.Context, p domain.Preferences, origin string) (domain.Preferences, error) {
	if err := p.Validate(); err != nil {
		return domain.Preferences{}, err
	}
	cur, err := s.Preferences(ctx, p.IdentityID)
	if err != nil {
		return domain.Preferences{}, err
	}

	cur.Theme = p.Theme
	cur.FontSize = p.FontSize
	cur.DashboardLayout = p.DashboardLayout
	cur.AccentColor = p.AccentColor
	cur.UpdatedAt = s.Clock.now()
	if err := s.Store.Preferences().UpdatePreferences(ctx, cur); err != nil {
		return domain.Preferences{}, persistence("update preferences", err)
	}

	s.Audit.Record(ctx, domain.AuditEntry{
		ActorID: cur.IdentityID,
		Action:  string(domain.ActionPreferencesUpdated),
		Origin:  origin,
	})
	return cur, nil
}

// Bootstrap creates the first staff identity from configuration. It does
// nothing when the handle or email is already taken.
func (s *IdentityService) Bootstrap(ctx context.Context, req RegisterRequest) (bool, error) {
	req.Role = domain.RoleStaff
	req.Staff = true
	_, err := s.Register(ctx, req)
	if errors.Is(err, ErrIdentityExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
