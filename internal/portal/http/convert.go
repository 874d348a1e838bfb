package http

import (
	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/pkg/portalsdk"
)

func identityResponse(i domain.Identity) portalsdk.IdentityResponse {
	return portalsdk.IdentityResponse{
		ID:           i.ID,
		Handle:       i.Handle,
		Email:        i.Email,
		DisplayName:  i.DisplayName,
		Role:         string(i.Role),
		Staff:        i.IsStaff(),
		Active:       i.Active,
		LRN:          i.LRN,
		GradeSection: i.GradeSection,
		EmployeeID:   i.EmployeeID,
		Department:   i.Department,
		LastLoginAt:  i.LastLoginAt,
		CreatedAt:    i.CreatedAt,
	}
}

func preferencesResponse(p domain.Preferences) portalsdk.Preferences {
	return portalsdk.Preferences{
		Theme:           p.Theme,
		FontSize:        p.FontSize,
		DashboardLayout: p.DashboardLayout,
		AccentColor:     p.AccentColor,
	}
}

func contentPayload(p portalsdk.ContentPayload) domain.ContentPayload {
	return domain.ContentPayload{
		Title:            p.Title,
		Subtitle:         p.Subtitle,
		Body:             p.Body,
		Announcement:     p.Announcement,
		ImageURL:         p.ImageURL,
		VideoURL:         p.VideoURL,
		ExternalVideoURL: p.ExternalVideoURL,
		Extra:            p.Extra,
	}
}

func contentResponse(rec domain.ContentRecord) portalsdk.ContentResponse {
	p := rec.Payload
	out := portalsdk.ContentResponse{
		ID:     rec.ID,
		Family: string(rec.Family),
		Payload: portalsdk.ContentPayload{
			Title:            p.Title,
			Subtitle:         p.Subtitle,
			Body:             p.Body,
			Announcement:     p.Announcement,
			ImageURL:         p.ImageURL,
			VideoURL:         p.VideoURL,
			ExternalVideoURL: p.ExternalVideoURL,
			Extra:            p.Extra,
		},
		IsActive:  rec.IsActive,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if p.ExternalVideoURL != "" {
		out.EmbedID, _ = domain.YouTubeEmbedID(p.ExternalVideoURL)
	}
	return out
}

func auditRecordResponse(rec domain.AuditRecord) portalsdk.AuditRecordResponse {
	out := portalsdk.AuditRecordResponse{
		ID:        rec.ID,
		Action:    string(rec.Action),
		Detail:    rec.Detail,
		CreatedAt: rec.CreatedAt,
	}
	if rec.ActorID != nil {
		out.ActorID = *rec.ActorID
	}
	if rec.Origin != nil {
		out.Origin = *rec.Origin
	}
	if rec.UserAgent != nil {
		out.UserAgent = *rec.UserAgent
	}
	return out
}
