package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orderdesk/ticketdesk-backend/api/middleware"
	"github.com/orderdesk/ticketdesk-backend/api/responses"
	"github.com/orderdesk/ticketdesk-backend/api/validators"
	ticketsvc "github.com/orderdesk/ticketdesk-backend/internal/tickets"
	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
	pkgerrors "github.com/orderdesk/ticketdesk-backend/pkg/errors"
	"github.com/orderdesk/ticketdesk-backend/pkg/logger"
	"github.com/orderdesk/ticketdesk-backend/pkg/pagination"
)

// CreateTicket opens a new ticket on behalf of the calling delivery agent.
func CreateTicket(svc ticketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ticket service unavailable"))
			return
		}

		role := middleware.ActorRoleFromContext(r.Context())
		if role != enums.RoleDeliveryAgent.String() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only delivery agents can open tickets"))
			return
		}

		var payload createTicketRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(middleware.ActorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ticket)
	}
}

// GetTicket returns one ticket with its full audit log.
func GetTicket(svc ticketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ticket service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "ticketID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ticket id"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithTicketID(ctx, id.String())
		}

		ticket, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, ticket)
	}
}

// ListTickets serves the supervisor queue plus the opener, client, and
// order-search views, selected by query parameter.
func ListTickets(svc ticketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ticket service unavailable"))
			return
		}

		params, err := parsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		openerID := strings.TrimSpace(r.URL.Query().Get("openerId"))
		client := strings.TrimSpace(r.URL.Query().Get("client"))
		orderContains := strings.TrimSpace(r.URL.Query().Get("orderContains"))

		filters, filtered, err := parseListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var list *ticketsvc.TicketList
		switch {
		case filtered:
			filters.OpenerID = openerID
			filters.Client = client
			filters.OrderContains = orderContains
			list, err = svc.List(r.Context(), params, filters)
		case openerID != "":
			list, err = svc.ListByOpener(r.Context(), openerID, params)
		case client != "":
			list, err = svc.ListByClient(r.Context(), client, params)
		case orderContains != "":
			list, err = svc.SearchByOrder(r.Context(), orderContains, params)
		default:
			list, err = svc.ListOpen(r.Context(), params)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// TransitionTicket applies one status change driven by the calling actor.
func TransitionTicket(svc ticketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ticket service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "ticketID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ticket id"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithTicketID(ctx, id.String())
		}

		var payload transitionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := payload.toInput(id,
			middleware.ActorIDFromContext(ctx),
			middleware.ActorRoleFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Transition(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type createTicketRequest struct {
	OrderID          string  `json:"order_id" validate:"required"`
	IssueDescription string  `json:"issue_description" validate:"required"`
	IssueReason      string  `json:"issue_reason" validate:"required"`
	IssueType        string  `json:"issue_type" validate:"required"`
	Client           string  `json:"client" validate:"required"`
	ImageURL         *string `json:"image_url"`
}

func (r createTicketRequest) toInput(openerID string) (ticketsvc.CreateInput, error) {
	reason, err := enums.ParseIssueReason(r.IssueReason)
	if err != nil {
		return ticketsvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid issue reason")
	}
	return ticketsvc.CreateInput{
		OrderID:          strings.TrimSpace(r.OrderID),
		IssueDescription: strings.TrimSpace(r.IssueDescription),
		IssueReason:      reason,
		IssueType:        strings.TrimSpace(r.IssueType),
		Client:           strings.TrimSpace(r.Client),
		ImageURL:         r.ImageURL,
		OpenerID:         openerID,
	}, nil
}

type transitionRequest struct {
	NewStatus string `json:"new_status" validate:"required"`
	Action    string `json:"action" validate:"required"`
	Message   string `json:"message"`
}

func (r transitionRequest) toInput(ticketID uuid.UUID, actorID, actorRole string) (ticketsvc.TransitionInput, error) {
	status, err := enums.ParseTicketStatus(r.NewStatus)
	if err != nil {
		return ticketsvc.TransitionInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid new status")
	}
	action, err := enums.ParseTicketAction(r.Action)
	if err != nil {
		return ticketsvc.TransitionInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action")
	}
	role, err := enums.ParseActorRole(actorRole)
	if err != nil {
		return ticketsvc.TransitionInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid actor role")
	}
	return ticketsvc.TransitionInput{
		TicketID:  ticketID,
		NewStatus: status,
		Actor:     ticketsvc.Actor{ID: actorID, Role: role},
		Action:    action,
		Message:   strings.TrimSpace(r.Message),
	}, nil
}

// parseListFilters reads the status and includeClosed query parameters. The
// second return reports whether either was supplied, which routes the request
// through the generic filtered list instead of the named views.
func parseListFilters(r *http.Request) (ticketsvc.ListFilters, bool, error) {
	var filters ticketsvc.ListFilters
	filtered := false

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseTicketStatus(raw)
		if err != nil {
			return filters, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
		filtered = true
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("includeClosed")); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return filters, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid includeClosed value")
		}
		filters.IncludeClosed = include
		filtered = true
	}

	return filters, filtered, nil
}

func parsePageParams(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{Cursor: strings.TrimSpace(r.URL.Query().Get("cursor"))}

	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return pagination.Params{}, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer")
		}
		params.Limit = limit
	}
	return params, nil
}
