package tickets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderdesk/ticketdesk-backend/pkg/db"
	"github.com/orderdesk/ticketdesk-backend/pkg/db/models"
	dbtypes "github.com/orderdesk/ticketdesk-backend/pkg/db/types"
	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
	pkgerrors "github.com/orderdesk/ticketdesk-backend/pkg/errors"
	"github.com/orderdesk/ticketdesk-backend/pkg/metrics"
	"github.com/orderdesk/ticketdesk-backend/pkg/outbox"
	"github.com/orderdesk/ticketdesk-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxPublisher
	metrics *metrics.LifecycleMetrics
}

// NewService builds the ticket lifecycle service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, lifecycleMetrics *metrics.LifecycleMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tickets repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		outbox:  outboxSvc,
		metrics: lifecycleMetrics,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Ticket, error) {
	if strings.TrimSpace(input.OrderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if strings.TrimSpace(input.IssueDescription) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "issue description required")
	}
	if strings.TrimSpace(input.Client) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client required")
	}
	if strings.TrimSpace(input.OpenerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "opener id required")
	}
	if !input.IssueReason.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid issue reason")
	}
	if !input.IssueReason.AllowsType(input.IssueType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "issue type not allowed for reason").
			WithDetails(map[string]any{
				"reason":        input.IssueReason,
				"allowed_types": input.IssueReason.Types(),
			})
	}

	ticket := &models.Ticket{
		OrderID:          strings.TrimSpace(input.OrderID),
		IssueDescription: input.IssueDescription,
		IssueReason:      input.IssueReason,
		IssueType:        input.IssueType,
		Client:           strings.TrimSpace(input.Client),
		ImageURL:         input.ImageURL,
		Status:           enums.TicketStatusOpened,
		DAID:             input.OpenerID,
		Logs: dbtypes.LogEntries{{
			Action:    enums.ActionTicketCreated,
			Message:   input.IssueDescription,
			By:        input.OpenerID,
			Timestamp: time.Now().UTC(),
		}},
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.Create(ctx, ticket)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert ticket")
		}
		ticket = created

		event := outbox.DomainEvent{
			EventType:     enums.EventTicketCreated,
			AggregateType: enums.AggregateTicket,
			AggregateID:   ticket.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{ActorID: input.OpenerID, Role: enums.RoleDeliveryAgent.String()},
			Data: TicketCreatedEvent{
				TicketID:    ticket.ID,
				OrderID:     ticket.OrderID,
				IssueReason: ticket.IssueReason,
				IssueType:   ticket.IssueType,
				Client:      ticket.Client,
				Status:      ticket.Status,
				DAID:        ticket.DAID,
				ImageURL:    ticket.ImageURL,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncCreated()
	return ticket, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket id required")
	}
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ticket")
	}
	return ticket, nil
}

func (s *service) Transition(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	if input.TicketID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket id required")
	}
	if strings.TrimSpace(input.Actor.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id required")
	}
	if !input.Actor.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid actor role")
	}
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid action")
	}
	if !input.NewStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	started := time.Now()
	var result *TransitionResult

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		ticket, err := repo.FindByIDForUpdate(ctx, input.TicketID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ticket")
		}

		if !CanTransition(ticket.Status, input.Actor.Role, input.Action, input.NewStatus) {
			s.metrics.IncRejection("invalid_transition")
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed").
				WithDetails(map[string]any{
					"current_status":   ticket.Status,
					"requested_status": input.NewStatus,
					"role":             input.Actor.Role,
					"action":           input.Action,
				})
		}

		entry := dbtypes.LogEntry{
			Action:    input.Action,
			Message:   input.Message,
			By:        input.Actor.ID,
			Timestamp: time.Now().UTC(),
		}
		logs := ticket.Logs.Append(entry)

		affected, err := repo.ApplyTransition(ctx, ticket.ID, ticket.Status, input.NewStatus, logs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply transition")
		}
		if affected == 0 {
			// Concurrent transition won the race between the lock release and
			// our update; the guard left the row untouched.
			s.metrics.IncRejection("lost_update")
			return pkgerrors.New(pkgerrors.CodeStateConflict, "ticket status changed concurrently")
		}

		result = &TransitionResult{
			TicketID:  ticket.ID,
			OldStatus: ticket.Status,
			NewStatus: input.NewStatus,
			LogEntry:  entry,
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventTicketStateChanged,
			AggregateType: enums.AggregateTicket,
			AggregateID:   ticket.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{ActorID: input.Actor.ID, Role: input.Actor.Role.String()},
			Data: TicketStateChangedEvent{
				TicketID:  ticket.ID,
				OrderID:   ticket.OrderID,
				Client:    ticket.Client,
				DAID:      ticket.DAID,
				OldStatus: ticket.Status,
				NewStatus: input.NewStatus,
				LogEntry:  entry,
				ImageURL:  ticket.ImageURL,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(result.OldStatus.String(), result.NewStatus.String(), input.Actor.Role.String())
	s.metrics.ObserveTransitionDuration(input.Actor.Role.String(), time.Since(started))
	return result, nil
}

// List applies caller-supplied filters. Closed tickets stay hidden unless
// IncludeClosed is set or the caller filters on an explicit status.
func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*TicketList, error) {
	if filters.Status != nil {
		filters.IncludeClosed = true
	}
	return s.list(ctx, params, filters)
}

func (s *service) ListOpen(ctx context.Context, params pagination.Params) (*TicketList, error) {
	return s.list(ctx, params, ListFilters{})
}

func (s *service) ListByOpener(ctx context.Context, daID string, params pagination.Params) (*TicketList, error) {
	if strings.TrimSpace(daID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "opener id required")
	}
	return s.list(ctx, params, ListFilters{OpenerID: daID, IncludeClosed: true})
}

func (s *service) ListByClient(ctx context.Context, client string, params pagination.Params) (*TicketList, error) {
	if strings.TrimSpace(client) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client required")
	}
	return s.list(ctx, params, ListFilters{Client: client, IncludeClosed: true})
}

func (s *service) SearchByOrder(ctx context.Context, fragment string, params pagination.Params) (*TicketList, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order fragment required")
	}
	return s.list(ctx, params, ListFilters{OrderContains: fragment, IncludeClosed: true})
}

func (s *service) list(ctx context.Context, params pagination.Params, filters ListFilters) (*TicketList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tickets")
	}
	return list, nil
}
