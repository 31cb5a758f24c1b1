package controllers

import (
	"net/http"
	"strings"

	"github.com/orderdesk/ticketdesk-backend/api/responses"
	subscribersvc "github.com/orderdesk/ticketdesk-backend/internal/subscribers"
	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
	pkgerrors "github.com/orderdesk/ticketdesk-backend/pkg/errors"
	"github.com/orderdesk/ticketdesk-backend/pkg/logger"
)

// ListSubscribers returns registered notification recipients filtered by
// role or client name.
func ListSubscribers(repo subscribersvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscriber repository unavailable"))
			return
		}

		roleParam := strings.TrimSpace(r.URL.Query().Get("role"))
		client := strings.TrimSpace(r.URL.Query().Get("client"))

		switch {
		case roleParam != "":
			role, err := enums.ParseActorRole(roleParam)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role filter"))
				return
			}
			subs, err := repo.ListByRole(r.Context(), role)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, subs)
		case client != "":
			subs, err := repo.ListByClient(r.Context(), client)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, subs)
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "role or client filter is required"))
		}
	}
}
