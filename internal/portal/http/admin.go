package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/findit/internal/portal/service"
	"github.com/aussiebroadwan/findit/internal/portal/store"
	"github.com/aussiebroadwan/findit/pkg/httpx"
	"github.com/aussiebroadwan/findit/pkg/portalsdk"
)

const maxAuditLimit = 500

type AdminHandler struct {
	Identities *service.IdentityService
	Audit      *service.AuditLog
}

// HandleCreateIdentity registers an identity of any role, staff included.
//
//	@Summary		Create identity
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.RegisterRequest			true	"New identity"
//	@Success		201		{object}	portalsdk.IdentityResponse
//	@Failure		400		{object}	portalsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		403		{object}	portalsdk.ErrorResponse				"Missing admin:write scope"
//	@Failure		409		{object}	portalsdk.ErrorResponse				"Handle or email taken"
//	@Router			/v1/admin/identities [post].
func (h *AdminHandler) HandleCreateIdentity(w http.ResponseWriter, r *http.Request) {
	(&RegisterHandler{Identities: h.Identities, AllowStaff: true}).ServeHTTP(w, r)
}

// HandleUnlock clears the lockout of an identity.
//
//	@Summary		Unlock identity
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Identity ID"
//	@Success		204	"Unlocked"
//	@Failure		403	{object}	portalsdk.ErrorResponse	"Missing admin:write scope"
//	@Failure		404	{object}	portalsdk.ErrorResponse	"Identity not found"
//	@Router			/v1/admin/identities/{id}/unlock [post].
func (h *AdminHandler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	actor, _ := httpx.SubjectFromContext(r.Context())
	if err := h.Identities.Unlock(r.Context(), actor, r.PathValue("id"), httpx.ClientIP(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetStatus activates or deactivates an identity.
//
//	@Summary		Set identity status
//	@Description	Inactive identities cannot sign in.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Identity ID"
//	@Param			request	body		portalsdk.SetStatusRequest	true	"New status"
//	@Success		200		{object}	portalsdk.IdentityResponse
//	@Failure		404		{object}	portalsdk.ErrorResponse	"Identity not found"
//	@Router			/v1/admin/identities/{id}/status [post].
func (h *AdminHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req portalsdk.SetStatusRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	actor, _ := httpx.SubjectFromContext(r.Context())
	ident, err := h.Identities.SetActive(r.Context(), actor, r.PathValue("id"), req.Active, httpx.ClientIP(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identityResponse(ident))
}

// HandleDelete removes an identity. Its audit records stay, detached.
//
//	@Summary		Delete identity
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Identity ID"
//	@Success		204	"Deleted"
//	@Failure		404	{object}	portalsdk.ErrorResponse	"Identity not found"
//	@Router			/v1/admin/identities/{id} [delete].
func (h *AdminHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := httpx.SubjectFromContext(r.Context())
	if err := h.Identities.Delete(r.Context(), actor, r.PathValue("id"), httpx.ClientIP(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAudit lists recent audit records.
//
//	@Summary		Audit trail
//	@Description	Newest first. logins_today counts successful logins since midnight UTC.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			actor	query		string	false	"Only records by this identity"
//	@Param			limit	query		int		false	"Maximum records (default 50, max 500)"
//	@Success		200		{object}	portalsdk.AuditResponse
//	@Failure		400		{object}	portalsdk.ErrorResponse	"Bad limit"
//	@Failure		403		{object}	portalsdk.ErrorResponse	"Missing admin:read scope"
//	@Router			/v1/admin/audit [get].
func (h *AdminHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	q := store.AuditQuery{ActorID: r.URL.Query().Get("actor")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			(&portalsdk.APIError{
				StatusCode:  http.StatusBadRequest,
				Code:        portalsdk.ErrorCodeInvalidRequest,
				Description: "limit must be a positive integer",
			}).WriteError(w)
			return
		}
		q.Limit = min(n, maxAuditLimit)
	}

	recs, err := h.Audit.Recent(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	logins, err := h.Audit.LoginsToday(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := portalsdk.AuditResponse{
		Records:     make([]portalsdk.AuditRecordResponse, 0, len(recs)),
		LoginsToday: logins,
	}
	for _, rec := range recs {
		out.Records = append(out.Records, auditRecordResponse(rec))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
