package http

import (
	"net/http"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/service"
	"github.com/aussiebroadwan/findit/pkg/httpx"
	"github.com/aussiebroadwan/findit/pkg/portalsdk"
)

type ContentHandler struct {
	Content *service.ContentService
}

// HandleActive returns the current record of a family.
//
//	@Summary		Active content
//	@Description	The single active record of a family. embed_id is set for YouTube links.
//	@Tags			Content
//	@Produce		json
//	@Param			family	path		string	true	"Content family"	Enums(homepage, find_us_poster)
//	@Success		200		{object}	portalsdk.ContentResponse
//	@Failure		404		{object}	portalsdk.ErrorResponse	"Unknown family or nothing active"
//	@Router			/v1/content/{family}/active [get].
func (h *ContentHandler) HandleActive(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Content.ActiveRecord(r.Context(), domain.Family(r.PathValue("family")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, contentResponse(rec))
}

// HandleList returns every record of a family, newest first.
//
//	@Summary		List content
//	@Tags			Content
//	@Security		BearerAuth
//	@Produce		json
//	@Param			family	path		string	true	"Content family"	Enums(homepage, find_us_poster)
//	@Success		200		{object}	portalsdk.ContentListResponse
//	@Failure		403		{object}	portalsdk.ErrorResponse	"Missing content:write scope"
//	@Failure		404		{object}	portalsdk.ErrorResponse	"Unknown family"
//	@Router			/v1/content/{family} [get].
func (h *ContentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Content.ListRecords(r.Context(), domain.Family(r.PathValue("family")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := portalsdk.ContentListResponse{Records: make([]portalsdk.ContentResponse, 0, len(recs))}
	for _, rec := range recs {
		out.Records = append(out.Records, contentResponse(rec))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate adds a record. With is_active it replaces the current record.
//
//	@Summary		Create content
//	@Description	homepage needs a title. find_us_poster needs a title and at least one of image_url, video_url or external_video_url;
//	@Description	video_url and external_video_url are mutually exclusive and external_video_url must be a YouTube link.
//	@Tags			Content
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			family	path		string								true	"Content family"	Enums(homepage, find_us_poster)
//	@Param			request	body		portalsdk.ContentRequest			true	"Record"
//	@Success		201		{object}	portalsdk.ContentResponse
//	@Failure		400		{object}	portalsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		404		{object}	portalsdk.ErrorResponse				"Unknown family"
//	@Router			/v1/content/{family} [post].
func (h *ContentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, "", http.StatusCreated)
}

// HandleUpdate rewrites a record. With is_active it replaces the current record.
//
//	@Summary		Update content
//	@Tags			Content
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			family	path		string								true	"Content family"	Enums(homepage, find_us_poster)
//	@Param			id		path		string								true	"Record ID"
//	@Param			request	body		portalsdk.ContentRequest			true	"Record"
//	@Success		200		{object}	portalsdk.ContentResponse
//	@Failure		400		{object}	portalsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		404		{object}	portalsdk.ErrorResponse				"Unknown family or record"
//	@Router			/v1/content/{family}/{id} [put].
func (h *ContentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, r.PathValue("id"), http.StatusOK)
}

func (h *ContentHandler) write(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req portalsdk.ContentRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	actor, _ := httpx.SubjectFromContext(r.Context())
	rec, err := h.Content.Activate(r.Context(), service.ActivateRequest{
		Family:   domain.Family(r.PathValue("family")),
		RecordID: id,
		Payload:  contentPayload(req.Payload),
		IsActive: req.IsActive,
		ActorID:  actor,
		Origin:   httpx.ClientIP(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, status, contentResponse(rec))
}
