package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orderdesk/ticketdesk-backend/api/responses"
	"github.com/orderdesk/ticketdesk-backend/api/validators"
	sessionsvc "github.com/orderdesk/ticketdesk-backend/internal/sessions"
	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
	pkgerrors "github.com/orderdesk/ticketdesk-backend/pkg/errors"
	"github.com/orderdesk/ticketdesk-backend/pkg/logger"
)

// PutSession parks conversation state for one actor.
func PutSession(store *sessionsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}

		role, actorID, err := sessionParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload sessionStateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := payload.toState()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Put(r.Context(), role, actorID, state); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "stored"})
	}
}

// GetSession returns the actor's parked conversation state.
func GetSession(store *sessionsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}

		role, actorID, err := sessionParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := store.Get(r.Context(), role, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

// DeleteSession clears the actor's parked conversation state.
func DeleteSession(store *sessionsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}

		role, actorID, err := sessionParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Delete(r.Context(), role, actorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type sessionStateRequest struct {
	PendingAction string `json:"pending_action"`
	TicketID      string `json:"ticket_id"`
	Step          string `json:"step"`
}

func (r sessionStateRequest) toState() (sessionsvc.State, error) {
	var state sessionsvc.State

	if r.PendingAction != "" {
		action, err := enums.ParseTicketAction(r.PendingAction)
		if err != nil {
			return sessionsvc.State{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pending action")
		}
		state.PendingAction = action
	}
	if r.TicketID != "" {
		id, err := uuid.Parse(r.TicketID)
		if err != nil {
			return sessionsvc.State{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ticket id")
		}
		state.TicketID = id
	}
	state.Step = r.Step
	return state, nil
}

func sessionParams(r *http.Request) (enums.ActorRole, string, error) {
	role, err := enums.ParseActorRole(chi.URLParam(r, "role"))
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session role")
	}
	actorID := chi.URLParam(r, "actorID")
	if actorID == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "actor id required")
	}
	return role, actorID, nil
}
