package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/orderdesk/ticketdesk-backend/pkg/db/types"
	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
)

// Ticket is one reported order issue owned by the delivery agent who opened it.
// Status is only ever mutated through the lifecycle service; Logs only grows.
type Ticket struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          string             `gorm:"column:order_id;type:text;not null"`
	IssueDescription string             `gorm:"column:issue_description;type:text;not null"`
	IssueReason      enums.IssueReason  `gorm:"column:issue_reason;type:text;not null"`
	IssueType        string             `gorm:"column:issue_type;type:text;not null"`
	Client           string             `gorm:"column:client;type:text;not null"`
	ImageURL         *string            `gorm:"column:image_url;type:text"`
	Status           enums.TicketStatus `gorm:"column:status;type:ticket_status;not null;default:'opened'"`
	DAID             string             `gorm:"column:da_id;type:text;not null"`
	Logs             dbtypes.LogEntries `gorm:"column:logs;type:jsonb;not null"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
