package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/orderdesk/ticketdesk-backend/pkg/db/models"
)

// Repository persists notification rows for subscriber chats.
type Repository interface {
	CreateBatch(ctx context.Context, rows []models.Notification) error
	ListUnreadByChat(ctx context.Context, chatID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}
