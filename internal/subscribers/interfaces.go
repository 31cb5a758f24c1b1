package subscribers

import (
	"context"

	"github.com/orderdesk/ticketdesk-backend/pkg/db/models"
	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
)

// Repository is the read side of the subscribers table. Registration is
// owned by the bot collaborators; this service only looks recipients up.
type Repository interface {
	FindByUserAndRole(ctx context.Context, userID string, role enums.ActorRole) (*models.Subscriber, error)
	ListByRole(ctx context.Context, role enums.ActorRole) ([]models.Subscriber, error)
	ListByClient(ctx context.Context, client string) ([]models.Subscriber, error)
}
