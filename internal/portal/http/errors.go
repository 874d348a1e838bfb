package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/service"
	"github.com/aussiebroadwan/findit/pkg/portalsdk"
	"github.com/aussiebroadwan/findit/pkg/slogx"
)

// writeServiceError maps a service error onto the API error taxonomy.
// Anything unrecognised is logged and reported as a server error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		portalsdk.NewValidationError("validation failed", verr.Fields).WriteError(w)
	case errors.Is(err, service.ErrUnknownFamily),
		errors.Is(err, service.ErrContentNotFound),
		errors.Is(err, service.ErrIdentityNotFound):
		portalsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrIdentityExists):
		portalsdk.ErrConflict.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		portalsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrAccountLocked):
		portalsdk.ErrAccountLocked.WriteError(w)
	case errors.Is(err, service.ErrPersistenceUnavailable):
		slogx.FromContext(r.Context()).Error("storage unavailable", slog.Any("err", err))
		portalsdk.ErrServiceUnavailable.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("err", err))
		portalsdk.ErrServerError.WriteError(w)
	}
}

func writeBadRequest(w http.ResponseWriter, err error) {
	(&portalsdk.APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        portalsdk.ErrorCodeInvalidRequest,
		Description: err.Error(),
	}).WriteError(w)
}
