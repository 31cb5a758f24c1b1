package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderdesk/ticketdesk-backend/pkg/db/models"
)

type testNotificationRepo struct {
	listUnreadFn func(ctx context.Context, chatID int64) ([]models.Notification, error)
	markReadFn   func(ctx context.Context, id uuid.UUID) error
}

func (r *testNotificationRepo) CreateBatch(ctx context.Context, rows []models.Notification) error {
	return nil
}

func (r *testNotificationRepo) ListUnreadByChat(ctx context.Context, chatID int64) ([]models.Notification, error) {
	if r.listUnreadFn != nil {
		return r.listUnreadFn(ctx, chatID)
	}
	return nil, nil
}

func (r *testNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	if r.markReadFn != nil {
		return r.markReadFn(ctx, id)
	}
	return nil
}

func TestListNotificationsByChat(t *testing.T) {
	var gotChatID int64
	repo := &testNotificationRepo{
		listUnreadFn: func(ctx context.Context, chatID int64) ([]models.Notification, error) {
			gotChatID = chatID
			return []models.Notification{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?chatId=991", nil)
	resp := httptest.NewRecorder()
	ListNotifications(repo, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotChatID != 991 {
		t.Fatalf("unexpected chat id %d", gotChatID)
	}
}

func TestListNotificationsRequiresChatID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	resp := httptest.NewRecorder()
	ListNotifications(&testNotificationRepo{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListNotificationsRejectsBadChatID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?chatId=acme", nil)
	resp := httptest.NewRecorder()
	ListNotifications(&testNotificationRepo{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestMarkNotificationReadSuccess(t *testing.T) {
	id := uuid.New()
	var gotID uuid.UUID
	repo := &testNotificationRepo{
		markReadFn: func(ctx context.Context, nid uuid.UUID) error {
			gotID = nid
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+id.String()+"/read", nil)
	req = addRouteParam(req, "notificationID", id.String())
	resp := httptest.NewRecorder()
	MarkNotificationRead(repo, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotID != id {
		t.Fatalf("unexpected notification id %s", gotID)
	}
}

func TestMarkNotificationReadAlreadyRead(t *testing.T) {
	repo := &testNotificationRepo{
		markReadFn: func(ctx context.Context, id uuid.UUID) error {
			return gorm.ErrRecordNotFound
		},
	}

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+id.String()+"/read", nil)
	req = addRouteParam(req, "notificationID", id.String())
	resp := httptest.NewRecorder()
	MarkNotificationRead(repo, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestMarkNotificationReadInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/not-a-uuid/read", nil)
	req = addRouteParam(req, "notificationID", "not-a-uuid")
	resp := httptest.NewRecorder()
	MarkNotificationRead(&testNotificationRepo{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
