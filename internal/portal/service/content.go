package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/store"
	"github.com/aussiebroadwan/findit/pkg/idx"
	"github.com/aussiebroadwan/findit/pkg/slogx"
)

// ActivateRequest creates or updates one record of a family. An empty
// RecordID creates a new record.
type ActivateRequest struct {
	Family   domain.Family
	RecordID string
	Payload  domain.ContentPayload
	IsActive bool

	ActorID string
	Origin  string
}

// ContentService keeps at most one record of each family active.
type ContentService struct {
	Store store.Store
	Audit *AuditLog
	Clock Clock

	locks keyedMutex
}

// Activate validates the payload, then in one transaction deactivates every
// other record of the family (when activating) and writes the target.
// Writers of one family are serialised in-process and by the store's family
// lock, so concurrent activations always leave exactly one active record.
func (s *ContentService) Activate(ctx context.Context, req ActivateRequest) (domain.ContentRecord, error) {
	family, ok := domain.ParseFamily(string(req.Family))
	if !ok {
		return domain.ContentRecord{}, ErrUnknownFamily
	}
	payload := trimPayload(req.Payload)
	if err := family.Validate(payload); err != nil {
		return domain.ContentRecord{}, err
	}

	unlock := s.locks.Lock(string(family))
	defer unlock()

	now := s.Clock.now()
	var (
		out         domain.ContentRecord
		created     bool
		wasActive   bool
		deactivated int64
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Content().LockFamily(ctx, family); err != nil {
			return err
		}

		rec := domain.ContentRecord{
			ID:        idx.NewAt(now).String(),
			Family:    family,
			CreatedAt: now,
		}
		if req.RecordID != "" {
			existing, err := tx.Content().GetContent(ctx, req.RecordID)
			if errors.Is(err, store.ErrNotFound) || (err == nil && existing.Family != family) {
				return ErrContentNotFound
			}
			if err != nil {
				return err
			}
			rec = existing
			wasActive = existing.IsActive
		} else {
			created = true
		}
		rec.Payload = payload
		rec.IsActive = req.IsActive
		rec.UpdatedAt = now

		if req.IsActive {
			n, err := tx.Content().DeactivateFamily(ctx, family, rec.ID, now)
			if err != nil {
				return err
			}
			deactivated = n
		}

		if created {
			if err := tx.Content().CreateContent(ctx, rec); err != nil {
				return err
			}
		} else if err := tx.Content().UpdateContent(ctx, rec); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		if isOutcomeError(err) {
			return domain.ContentRecord{}, err
		}
		return domain.ContentRecord{}, persistence("activate content", err)
	}

	action := domain.ActionContentUpdated
	if created {
		action = domain.ActionContentCreated
	}
	s.Audit.Record(ctx, domain.AuditEntry{
		ActorID: req.ActorID,
		Action:  string(action),
		Detail:  string(family) + " " + out.ID,
		Origin:  req.Origin,
	})
	if out.IsActive && !wasActive {
		s.Audit.Record(ctx, domain.AuditEntry{
			ActorID: req.ActorID,
			Action:  string(domain.ActionContentActivated),
			Detail:  string(family) + " " + out.ID,
			Origin:  req.Origin,
		})
	}

	slogx.FromContext(ctx).Info("content written",
		slog.String("family", string(family)),
		slog.String("record_id", out.ID),
		slog.Bool("active", out.IsActive),
		slog.Int64("deactivated", deactivated))
	return out, nil
}

// ActiveRecord returns the current record of family.
func (s *ContentService) ActiveRecord(ctx context.Context, family domain.Family) (domain.ContentRecord, error) {
	if _, ok := domain.ParseFamily(string(family)); !ok {
		return domain.ContentRecord{}, ErrUnknownFamily
	}
	rec, err := s.Store.Content().GetActiveContent(ctx, family)
	if errors.Is(err, store.ErrNotFound) {
		return domain.ContentRecord{}, ErrContentNotFound
	}
	if err != nil {
		return domain.ContentRecord{}, persistence("load active content", err)
	}
	return rec, nil
}

// ListRecords returns every record of family, newest first.
func (s *ContentService) ListRecords(ctx context.Context, family domain.Family) ([]domain.ContentRecord, error) {
	if _, ok := domain.ParseFamily(string(family)); !ok {
		return nil, ErrUnknownFamily
	}
	recs, err := s.Store.Content().ListContent(ctx, family)
	if err != nil {
		return nil, persistence("list content", err)
	}
	return recs, nil
}

func trimPayload(p domain.ContentPayload) domain.ContentPayload {
	p.Title = strings.TrimSpace(p.Title)
	p.Subtitle = strings.TrimSpace(p.Subtitle)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.VideoURL = strings.TrimSpace(p.VideoURL)
	p.ExternalVideoURL = strings.TrimSpace(p.ExternalVideoURL)
	return p
}
