package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/service"
	"github.com/aussiebroadwan/findit/pkg/httpx"
	"github.com/aussiebroadwan/findit/pkg/portalsdk"
	"github.com/aussiebroadwan/findit/pkg/slogx"
)

type AuthHandler struct {
	Credentials *service.CredentialService
	Sessions    *service.SessionIssuer
	Audit       *service.AuditLog
}

// HandleLogin authenticates by handle or email.
//
//	@Summary		Sign in
//	@Description	Authenticates with a handle or an email address (case-insensitive) and a password.
//	@Description	After 5 consecutive failures the identity is locked for 15 minutes; while locked every attempt returns 423.
//	@Description	Unknown identifiers and wrong passwords are indistinguishable.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	portalsdk.LoginResponse		"Session token and identity"
//	@Failure		400		{object}	portalsdk.ErrorResponse		"Malformed request"
//	@Failure		401		{object}	portalsdk.ErrorResponse		"Invalid credentials"
//	@Failure		423		{object}	portalsdk.ErrorResponse		"Account locked"
//	@Failure		429		{object}	portalsdk.ErrorResponse		"Rate limit exceeded"
//	@Failure		503		{object}	portalsdk.ErrorResponse		"Storage unavailable"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req portalsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	res, err := h.Credentials.Authenticate(ctx, req.Identifier, req.Password, httpx.ClientIP(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	switch res.Outcome {
	case domain.OutcomeAccountLocked:
		portalsdk.ErrAccountLocked.WriteError(w)
		return
	case domain.OutcomeAuthenticated:
	default:
		portalsdk.ErrInvalidCredentials.WriteError(w)
		return
	}

	token, ttl, err := h.Sessions.Issue(*res.Identity)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to sign session token", slog.Any("err", err))
		portalsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, portalsdk.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(ttl.Seconds()),
		Identity:    identityResponse(*res.Identity),
	})
}

// HandleLogout records the end of a session. The token itself simply expires.
//
//	@Summary		Sign out
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"Signed out"
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing token"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	subject, _ := httpx.SubjectFromContext(r.Context())
	h.Audit.Record(r.Context(), domain.AuditEntry{
		ActorID:   subject,
		Action:    string(domain.ActionLogout),
		Origin:    httpx.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	w.WriteHeader(http.StatusNoContent)
}

type RegisterHandler struct {
	Identities *service.IdentityService

	// AllowStaff lets the request create staff identities. Only the admin
	// route sets it.
	AllowStaff bool
}

// ServeHTTP registers a new identity together with its default preferences.
//
//	@Summary		Register
//	@Description	Creates a student or teacher identity. Students need a 12 character LRN and a grade/section; teachers need an employee ID and a department.
//	@Description	Handles and emails are unique ignoring letter case.
//	@Tags			Identities
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.RegisterRequest			true	"New identity"
//	@Success		201		{object}	portalsdk.IdentityResponse			"Created identity"
//	@Failure		400		{object}	portalsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		409		{object}	portalsdk.ErrorResponse				"Handle or email taken"
//	@Failure		429		{object}	portalsdk.ErrorResponse				"Rate limit exceeded"
//	@Router			/v1/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req portalsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	role := domain.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if role == domain.RoleStaff && !h.AllowStaff {
		portalsdk.NewValidationError("validation failed", map[string]string{
			"role": "staff identities are created by an administrator",
		}).WriteError(w)
		return
	}

	actor, _ := httpx.SubjectFromContext(r.Context())
	ident, err := h.Identities.Register(r.Context(), service.RegisterRequest{
		Handle:       req.Handle,
		Email:        req.Email,
		Password:     req.Password,
		DisplayName:  req.DisplayName,
		Role:         role,
		LRN:          req.LRN,
		GradeSection: req.GradeSection,
		EmployeeID:   req.EmployeeID,
		Department:   req.Department,
		ActorID:      actor,
		Origin:       httpx.ClientIP(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, identityResponse(ident))
}
