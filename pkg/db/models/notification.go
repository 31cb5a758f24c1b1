package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
)

// Notification stores one pending in-app message for a subscriber chat.
// The bots poll and render these; this service never formats message text.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ChatID    int64                  `gorm:"column:chat_id;not null"`
	Role      enums.ActorRole        `gorm:"column:role;type:actor_role;not null"`
	Type      enums.NotificationType `gorm:"column:type;type:notification_type;not null"`
	TicketID  uuid.UUID              `gorm:"column:ticket_id;type:uuid;not null"`
	Status    enums.TicketStatus     `gorm:"column:status;type:ticket_status;not null"`
	ImageURL  *string                `gorm:"column:image_url;type:text"`
	ReadAt    *time.Time             `gorm:"column:read_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
