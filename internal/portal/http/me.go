package http

import (
	"net/http"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/service"
	"github.com/aussiebroadwan/findit/pkg/httpx"
	"github.com/aussiebroadwan/findit/pkg/portalsdk"
)

type MeHandler struct {
	Identities *service.IdentityService
}

func subject(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := httpx.SubjectFromContext(r.Context())
	if !ok || id == "" {
		(&portalsdk.APIError{
			StatusCode:  http.StatusUnauthorized,
			Code:        portalsdk.ErrorCodeInvalidToken,
			Description: "missing subject",
		}).WriteError(w)
		return "", false
	}
	return id, true
}

// HandleGet returns the signed-in identity.
//
//	@Summary		Current identity
//	@Tags			Identities
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	portalsdk.IdentityResponse
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing token"
//	@Failure		404	{object}	portalsdk.ErrorResponse	"Identity no longer exists"
//	@Router			/v1/me [get].
func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := subject(w, r)
	if !ok {
		return
	}
	ident, err := h.Identities.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identityResponse(ident))
}

// HandleGetPreferences returns the display preferences of the signed-in identity.
//
//	@Summary		Get preferences
//	@Tags			Identities
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	portalsdk.Preferences
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing token"
//	@Router			/v1/me/preferences [get].
func (h *MeHandler) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	id, ok := subject(w, r)
	if !ok {
		return
	}
	p, err := h.Identities.Preferences(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, preferencesResponse(p))
}

// HandlePutPreferences replaces the display preferences.
//
//	@Summary		Update preferences
//	@Description	theme: light|dark|sunset, font_size: small|medium|large|xlarge, dashboard_layout: grid|list, accent_color: #RRGGBB.
//	@Tags			Identities
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.Preferences				true	"Preferences"
//	@Success		200		{object}	portalsdk.Preferences
//	@Failure		400		{object}	portalsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		401		{object}	portalsdk.ErrorResponse				"Invalid or missing token"
//	@Router			/v1/me/preferences [put].
func (h *MeHandler) HandlePutPreferences(w http.ResponseWriter, r *http.Request) {
	id, ok := subject(w, r)
	if !ok {
		return
	}
	var req portalsdk.Preferences
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	p, err := h.Identities.UpdatePreferences(r.Context(), domain.Preferences{
		IdentityID:      id,
		Theme:           req.Theme,
		FontSize:        req.FontSize,
		DashboardLayout: req.DashboardLayout,
		AccentColor:     req.AccentColor,
	}, httpx.ClientIP(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, preferencesResponse(p))
}

// HandleChangePassword replaces the password. Wrong current passwords count
// towards the lockout.
//
//	@Summary		Change password
//	@Tags			Identities
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	portalsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		204		"Password changed"
//	@Failure		400		{object}	portalsdk.ValidationErrorResponse	"New password too short"
//	@Failure		401		{object}	portalsdk.ErrorResponse				"Current password wrong"
//	@Failure		423		{object}	portalsdk.ErrorResponse				"Account locked"
//	@Router			/v1/me/password [post].
func (h *MeHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := subject(w, r)
	if !ok {
		return
	}
	var req portalsdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.Identities.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword, httpx.ClientIP(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
