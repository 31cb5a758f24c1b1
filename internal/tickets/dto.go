package tickets

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/orderdesk/ticketdesk-backend/pkg/db/types"
	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
)

// CreateInput captures everything a delivery agent supplies when opening a ticket.
type CreateInput struct {
	OrderID          string
	IssueDescription string
	IssueReason      enums.IssueReason
	IssueType        string
	Client           string
	ImageURL         *string
	OpenerID         string
}

// Actor identifies who is driving a transition.
type Actor struct {
	ID   string
	Role enums.ActorRole
}

// TransitionInput carries one requested status change.
type TransitionInput struct {
	TicketID  uuid.UUID
	NewStatus enums.TicketStatus
	Actor     Actor
	Action    enums.TicketAction
	Message   string
}

// TransitionResult reports the applied change plus the log entry it appended.
type TransitionResult struct {
	TicketID  uuid.UUID          `json:"ticket_id"`
	OldStatus enums.TicketStatus `json:"old_status"`
	NewStatus enums.TicketStatus `json:"new_status"`
	LogEntry  dbtypes.LogEntry   `json:"log_entry"`
}

// ListFilters describe the inputs supported by the ticket list views.
type ListFilters struct {
	OpenerID      string
	Client        string
	OrderContains string
	IncludeClosed bool
	Status        *enums.TicketStatus
}

// TicketSummary exposes the fields returned in list views.
type TicketSummary struct {
	ID               uuid.UUID          `json:"id"`
	OrderID          string             `json:"order_id"`
	IssueDescription string             `json:"issue_description"`
	IssueReason      enums.IssueReason  `json:"issue_reason"`
	IssueType        string             `json:"issue_type"`
	Client           string             `json:"client"`
	Status           enums.TicketStatus `json:"status"`
	DAID             string             `json:"da_id"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// TicketList wraps the paginated tickets plus the next page cursor.
type TicketList struct {
	Tickets    []TicketSummary `json:"tickets"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// TicketCreatedEvent is emitted when a delivery agent opens a ticket.
type TicketCreatedEvent struct {
	TicketID    uuid.UUID          `json:"ticket_id"`
	OrderID     string             `json:"order_id"`
	IssueReason enums.IssueReason  `json:"issue_reason"`
	IssueType   string             `json:"issue_type"`
	Client      string             `json:"client"`
	Status      enums.TicketStatus `json:"status"`
	DAID        string             `json:"da_id"`
	ImageURL    *string            `json:"image_url,omitempty"`
}

// TicketStateChangedEvent is emitted when a transition commits.
type TicketStateChangedEvent struct {
	TicketID  uuid.UUID          `json:"ticket_id"`
	OrderID   string             `json:"order_id"`
	Client    string             `json:"client"`
	DAID      string             `json:"da_id"`
	OldStatus enums.TicketStatus `json:"old_status"`
	NewStatus enums.TicketStatus `json:"new_status"`
	LogEntry  dbtypes.LogEntry   `json:"log_entry"`
	ImageURL  *string            `json:"image_url,omitempty"`
}
