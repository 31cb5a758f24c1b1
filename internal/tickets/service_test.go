package tickets

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderdesk/ticketdesk-backend/pkg/db/models"
	dbtypes "github.com/orderdesk/ticketdesk-backend/pkg/db/types"
	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
	pkgerrors "github.com/orderdesk/ticketdesk-backend/pkg/errors"
	"github.com/orderdesk/ticketdesk-backend/pkg/outbox"
	"github.com/orderdesk/ticketdesk-backend/pkg/pagination"
)

type stubTicketsRepo struct {
	ticket *models.Ticket

	// optional override used to force guard races
	applyTransition func(fromStatus, toStatus enums.TicketStatus, logs dbtypes.LogEntries) (int64, error)

	listFilters *ListFilters
}

func (s *stubTicketsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubTicketsRepo) Create(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	s.ticket = ticket
	return ticket, nil
}

func (s *stubTicketsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	if s.ticket == nil || s.ticket.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.ticket
	return &copied, nil
}

func (s *stubTicketsRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	return s.FindByID(ctx, id)
}

func (s *stubTicketsRepo) ApplyTransition(ctx context.Context, id uuid.UUID, fromStatus, toStatus enums.TicketStatus, logs dbtypes.LogEntries) (int64, error) {
	if s.applyTransition != nil {
		return s.applyTransition(fromStatus, toStatus, logs)
	}
	if s.ticket == nil || s.ticket.ID != id || s.ticket.Status != fromStatus {
		return 0, nil
	}
	s.ticket.Status = toStatus
	s.ticket.Logs = logs
	return 1, nil
}

func (s *stubTicketsRepo) List(ctx context.Context, params pagination.Params, filters ListFilters) (*TicketList, error) {
	s.listFilters = &filters
	return &TicketList{}, nil
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo *stubTicketsRepo, publisher *stubOutboxPublisher) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, publisher, nil)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func validCreateInput() CreateInput {
	return CreateInput{
		OrderID:          "5001",
		IssueDescription: "two boxes arrived crushed",
		IssueReason:      enums.IssueReasonDelivery,
		IssueType:        "damaged",
		Client:           "Acme Foods",
		OpenerID:         "da-1",
	}
}

func TestCreateThenGet(t *testing.T) {
	repo := &stubTicketsRepo{}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, publisher)

	ticket, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if ticket.Status != enums.TicketStatusOpened {
		t.Fatalf("expected opened status, got %s", ticket.Status)
	}
	if len(ticket.Logs) != 1 {
		t.Fatalf("expected a single log entry, got %d", len(ticket.Logs))
	}
	if ticket.Logs[0].Action != enums.ActionTicketCreated {
		t.Fatalf("unexpected first log action %s", ticket.Logs[0].Action)
	}
	if ticket.Logs[0].Timestamp.IsZero() {
		t.Fatal("log timestamp must be stamped server-side")
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected one outbox event, got %d", len(publisher.events))
	}
	if publisher.events[0].EventType != enums.EventTicketCreated {
		t.Fatalf("unexpected event type %s", publisher.events[0].EventType)
	}

	got, err := svc.Get(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != enums.TicketStatusOpened || len(got.Logs) != 1 {
		t.Fatalf("get returned status=%s logs=%d", got.Status, len(got.Logs))
	}
}

func TestCreateRejectsBadTaxonomy(t *testing.T) {
	svc := newTestService(t, &stubTicketsRepo{}, &stubOutboxPublisher{})

	input := validCreateInput()
	input.IssueType = "stock_shortage" // warehouse type, not delivery
	_, err := svc.Create(context.Background(), input)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	input = validCreateInput()
	input.IssueReason = "paperwork"
	_, err = svc.Create(context.Background(), input)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetUnknownTicket(t *testing.T) {
	svc := newTestService(t, &stubTicketsRepo{}, &stubOutboxPublisher{})

	_, err := svc.Get(context.Background(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestTransitionAppendsLogAndEmits(t *testing.T) {
	repo := &stubTicketsRepo{}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, publisher)

	ticket, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	result, err := svc.Transition(context.Background(), TransitionInput{
		TicketID:  ticket.ID,
		NewStatus: enums.TicketStatusAwaitingClientResponse,
		Actor:     Actor{ID: "sup-1", Role: enums.RoleSupervisor},
		Action:    enums.ActionSupervisorForwardClient,
		Message:   "client should confirm the damage",
	})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if result.OldStatus != enums.TicketStatusOpened || result.NewStatus != enums.TicketStatusAwaitingClientResponse {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.LogEntry.Timestamp.IsZero() {
		t.Fatal("log timestamp must be stamped server-side")
	}

	got, err := svc.Get(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != enums.TicketStatusAwaitingClientResponse {
		t.Fatalf("status not applied, got %s", got.Status)
	}
	if len(got.Logs) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(got.Logs))
	}
	if got.Logs[1].Action != enums.ActionSupervisorForwardClient {
		t.Fatalf("unexpected appended action %s", got.Logs[1].Action)
	}

	if len(publisher.events) != 2 {
		t.Fatalf("expected 2 outbox events, got %d", len(publisher.events))
	}
	if publisher.events[1].EventType != enums.EventTicketStateChanged {
		t.Fatalf("unexpected event type %s", publisher.events[1].EventType)
	}
}

func TestClientFinalStatusRejectsFurtherClientActions(t *testing.T) {
	repo := &stubTicketsRepo{}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, publisher)

	ticket, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	repo.ticket.Status = enums.TicketStatusAwaitingClientResponse

	_, err = svc.Transition(context.Background(), TransitionInput{
		TicketID:  ticket.ID,
		NewStatus: enums.TicketStatusClientIgnored,
		Actor:     Actor{ID: "client-1", Role: enums.RoleClient},
		Action:    enums.ActionClientIgnored,
	})
	if err != nil {
		t.Fatalf("ignore transition failed: %v", err)
	}

	_, err = svc.Transition(context.Background(), TransitionInput{
		TicketID:  ticket.ID,
		NewStatus: enums.TicketStatusClientResponded,
		Actor:     Actor{ID: "client-1", Role: enums.RoleClient},
		Action:    enums.ActionClientSolution,
		Message:   "actually, here is my answer",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state-conflict error, got %v", err)
	}
	if len(repo.ticket.Logs) != 2 {
		t.Fatalf("rejected transition must not append logs, got %d", len(repo.ticket.Logs))
	}
}

func TestConcurrentTransitionLoserGetsConflict(t *testing.T) {
	repo := &stubTicketsRepo{}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, publisher)

	ticket, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Simulate the race: between the load and the guarded update another
	// transition commits, so the WHERE status guard matches zero rows.
	raced := false
	repo.applyTransition = func(fromStatus, toStatus enums.TicketStatus, logs dbtypes.LogEntries) (int64, error) {
		if !raced {
			raced = true
			repo.ticket.Status = enums.TicketStatusPendingDAResponse
			return 0, nil
		}
		repo.ticket.Status = toStatus
		repo.ticket.Logs = logs
		return 1, nil
	}

	_, err = svc.Transition(context.Background(), TransitionInput{
		TicketID:  ticket.ID,
		NewStatus: enums.TicketStatusPendingDAAction,
		Actor:     Actor{ID: "sup-1", Role: enums.RoleSupervisor},
		Action:    enums.ActionSupervisorSolution,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state-conflict for the losing writer, got %v", err)
	}
	if len(repo.ticket.Logs) != 1 {
		t.Fatalf("losing writer must not append logs, got %d", len(repo.ticket.Logs))
	}

	// The loser retries against the observed status and succeeds.
	_, err = svc.Transition(context.Background(), TransitionInput{
		TicketID:  ticket.ID,
		NewStatus: enums.TicketStatusAdditionalInfoProvided,
		Actor:     Actor{ID: "da-1", Role: enums.RoleDeliveryAgent},
		Action:    enums.ActionDAMoreInfo,
		Message:   "serial numbers attached",
	})
	if err != nil {
		t.Fatalf("retry should succeed, got %v", err)
	}
	if repo.ticket.Status != enums.TicketStatusAdditionalInfoProvided {
		t.Fatalf("unexpected status %s", repo.ticket.Status)
	}
	if len(repo.ticket.Logs) != 2 {
		t.Fatalf("expected 2 log entries after retry, got %d", len(repo.ticket.Logs))
	}
}

func TestTransitionRejectsWrongActor(t *testing.T) {
	repo := &stubTicketsRepo{}
	svc := newTestService(t, repo, &stubOutboxPublisher{})

	ticket, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// a client may not act on a freshly opened ticket
	_, err = svc.Transition(context.Background(), TransitionInput{
		TicketID:  ticket.ID,
		NewStatus: enums.TicketStatusClientResponded,
		Actor:     Actor{ID: "client-1", Role: enums.RoleClient},
		Action:    enums.ActionClientSolution,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state-conflict error, got %v", err)
	}

	// only the delivery agent closes
	_, err = svc.Transition(context.Background(), TransitionInput{
		TicketID:  ticket.ID,
		NewStatus: enums.TicketStatusClosed,
		Actor:     Actor{ID: "sup-1", Role: enums.RoleSupervisor},
		Action:    enums.ActionDAClosed,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state-conflict error, got %v", err)
	}
}

func TestTransitionValidation(t *testing.T) {
	svc := newTestService(t, &stubTicketsRepo{}, &stubOutboxPublisher{})

	_, err := svc.Transition(context.Background(), TransitionInput{
		NewStatus: enums.TicketStatusClosed,
		Actor:     Actor{ID: "da-1", Role: enums.RoleDeliveryAgent},
		Action:    enums.ActionDAClosed,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing id, got %v", err)
	}

	_, err = svc.Transition(context.Background(), TransitionInput{
		TicketID:  uuid.New(),
		NewStatus: enums.TicketStatusClosed,
		Actor:     Actor{ID: "da-1", Role: "auditor"},
		Action:    enums.ActionDAClosed,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}

	_, err = svc.Transition(context.Background(), TransitionInput{
		TicketID:  uuid.New(),
		NewStatus: enums.TicketStatusClosed,
		Actor:     Actor{ID: "da-1", Role: enums.RoleDeliveryAgent},
		Action:    enums.ActionDAClosed,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found for unknown ticket, got %v", err)
	}
}

func TestListStatusFilterIncludesClosed(t *testing.T) {
	repo := &stubTicketsRepo{}
	svc := newTestService(t, repo, &stubOutboxPublisher{})

	closed := enums.TicketStatusClosed
	if _, err := svc.List(context.Background(), pagination.Params{}, ListFilters{Status: &closed}); err != nil {
		t.Fatalf("list with status filter: %v", err)
	}
	if repo.listFilters == nil || !repo.listFilters.IncludeClosed {
		t.Fatalf("status filter should widen the list to closed tickets: %+v", repo.listFilters)
	}

	if _, err := svc.List(context.Background(), pagination.Params{}, ListFilters{}); err != nil {
		t.Fatalf("unfiltered list: %v", err)
	}
	if repo.listFilters.IncludeClosed {
		t.Fatal("unfiltered list must keep closed tickets hidden")
	}
}
