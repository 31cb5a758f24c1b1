package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
)

// Subscriber maps a chat identity to a workflow role. Registration is owned by
// the bot collaborators; this service only reads subscribers to resolve ticket
// visibility and notification recipients.
type Subscriber struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    string          `gorm:"column:user_id;type:text;not null;uniqueIndex:ux_subscribers_user_role"`
	Role      enums.ActorRole `gorm:"column:role;type:actor_role;not null;uniqueIndex:ux_subscribers_user_role"`
	Phone     string          `gorm:"column:phone;type:text"`
	Client    string          `gorm:"column:client;type:text"`
	Username  string          `gorm:"column:username;type:text"`
	FirstName string          `gorm:"column:first_name;type:text"`
	LastName  string          `gorm:"column:last_name;type:text"`
	ChatID    int64           `gorm:"column:chat_id;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
