package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	ticketsvc "github.com/orderdesk/ticketdesk-backend/internal/tickets"
	"github.com/orderdesk/ticketdesk-backend/pkg/config"
	"github.com/orderdesk/ticketdesk-backend/pkg/db/models"
	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
	"github.com/orderdesk/ticketdesk-backend/pkg/logger"
	"github.com/orderdesk/ticketdesk-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubTicketService struct{}

func (stubTicketService) Create(ctx context.Context, input ticketsvc.CreateInput) (*models.Ticket, error) {
	return &models.Ticket{ID: uuid.New(), OrderID: input.OrderID, Status: enums.TicketStatusOpened}, nil
}

func (stubTicketService) Get(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	return &models.Ticket{ID: id}, nil
}

func (stubTicketService) Transition(ctx context.Context, input ticketsvc.TransitionInput) (*ticketsvc.TransitionResult, error) {
	return &ticketsvc.TransitionResult{TicketID: input.TicketID, NewStatus: input.NewStatus}, nil
}

func (stubTicketService) List(ctx context.Context, params pagination.Params, filters ticketsvc.ListFilters) (*ticketsvc.TicketList, error) {
	return &ticketsvc.TicketList{}, nil
}

func (stubTicketService) ListOpen(ctx context.Context, params pagination.Params) (*ticketsvc.TicketList, error) {
	return &ticketsvc.TicketList{}, nil
}

func (stubTicketService) ListByOpener(ctx context.Context, daID string, params pagination.Params) (*ticketsvc.TicketList, error) {
	return &ticketsvc.TicketList{}, nil
}

func (stubTicketService) ListByClient(ctx context.Context, client string, params pagination.Params) (*ticketsvc.TicketList, error) {
	return &ticketsvc.TicketList{}, nil
}

func (stubTicketService) SearchByOrder(ctx context.Context, fragment string, params pagination.Params) (*ticketsvc.TicketList, error) {
	return &ticketsvc.TicketList{}, nil
}

type stubNotificationRepo struct{}

func (stubNotificationRepo) CreateBatch(ctx context.Context, rows []models.Notification) error {
	return nil
}

func (stubNotificationRepo) ListUnreadByChat(ctx context.Context, chatID int64) ([]models.Notification, error) {
	return []models.Notification{}, nil
}

func (stubNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubSubscriberRepo struct{}

func (stubSubscriberRepo) FindByUserAndRole(ctx context.Context, userID string, role enums.ActorRole) (*models.Subscriber, error) {
	return nil, nil
}

func (stubSubscriberRepo) ListByRole(ctx context.Context, role enums.ActorRole) ([]models.Subscriber, error) {
	return []models.Subscriber{}, nil
}

func (stubSubscriberRepo) ListByClient(ctx context.Context, client string) ([]models.Subscriber, error) {
	return []models.Subscriber{}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Config:        &config.Config{App: config.AppConfig{Env: "test"}},
		Logger:        logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:            stubPinger{},
		Redis:         stubPinger{},
		Tickets:       stubTicketService{},
		Subscribers:   stubSubscriberRepo{},
		Notifications: stubNotificationRepo{},
	})
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, resp.Code)
		}
		if env := resp.Header().Get("X-TicketDesk-Env"); env != "test" {
			t.Fatalf("%s missing env header, got %q", path, env)
		}
	}
}

func TestRouterTicketRoutes(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("list returned %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tickets/"+uuid.NewString(), nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("get returned %d", resp.Code)
	}
}

func TestRouterWriteRoutesRequireActor(t *testing.T) {
	router := newTestRouter(t)

	body := `{"order_id":"5001","issue_description":"x","issue_reason":"delivery","issue_type":"late_arrival","client":"acme"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without actor headers, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/tickets", strings.NewReader(body))
	req.Header.Set("X-Actor-Id", "da-17")
	req.Header.Set("X-Actor-Role", "da")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 with actor headers, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterRejectsUnknownActorRole(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets", nil)
	req.Header.Set("X-Actor-Role", "manager")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", resp.Code)
	}
}

func TestRouterSubscribersRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscribers?role=supervisor", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("subscribers returned %d", resp.Code)
	}
}

func TestRouterNotificationRoutes(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?chatId=991", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("list notifications returned %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+uuid.NewString()+"/read", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("mark notification read returned %d", resp.Code)
	}
}
