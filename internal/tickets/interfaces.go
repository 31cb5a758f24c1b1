package tickets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderdesk/ticketdesk-backend/pkg/db/models"
	dbtypes "github.com/orderdesk/ticketdesk-backend/pkg/db/types"
	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
	"github.com/orderdesk/ticketdesk-backend/pkg/pagination"
)

// Repository defines persistence operations for the tickets table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	ApplyTransition(ctx context.Context, id uuid.UUID, fromStatus, toStatus enums.TicketStatus, logs dbtypes.LogEntries) (int64, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*TicketList, error)
}

// Service is the lifecycle engine: the only code allowed to mutate ticket status.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Ticket, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	Transition(ctx context.Context, input TransitionInput) (*TransitionResult, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*TicketList, error)
	ListOpen(ctx context.Context, params pagination.Params) (*TicketList, error)
	ListByOpener(ctx context.Context, daID string, params pagination.Params) (*TicketList, error)
	ListByClient(ctx context.Context, client string, params pagination.Params) (*TicketList, error)
	SearchByOrder(ctx context.Context, fragment string, params pagination.Params) (*TicketList, error)
}
