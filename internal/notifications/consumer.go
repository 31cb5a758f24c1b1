package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/orderdesk/ticketdesk-backend/internal/subscribers"
	"github.com/orderdesk/ticketdesk-backend/internal/tickets"
	"github.com/orderdesk/ticketdesk-backend/pkg/db"
	"github.com/orderdesk/ticketdesk-backend/pkg/db/models"
	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
	"github.com/orderdesk/ticketdesk-backend/pkg/logger"
	"github.com/orderdesk/ticketdesk-backend/pkg/outbox"
)

// AttrEventType is the Pub/Sub message attribute carrying the outbox event type.
const AttrEventType = "event_type"

// Consumer turns published lifecycle events into notification rows. It decides
// who gets notified; rendering the message text is the bots' job.
type Consumer struct {
	repo Repository
	subs subscribers.Repository
	logg *logger.Logger
}

// NewConsumer builds the notify-worker consumer.
func NewConsumer(repo Repository, subs subscribers.Repository, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subs == nil {
		return nil, fmt.Errorf("subscribers repository required")
	}
	return &Consumer{repo: repo, subs: subs, logg: logg}, nil
}

// Run blocks receiving messages until ctx is canceled. Handling failures nack
// the message so Pub/Sub redelivers; they never touch ticket state.
func (c *Consumer) Run(ctx context.Context, sub *pubsub.Subscriber) error {
	if sub == nil {
		return fmt.Errorf("subscription required")
	}
	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		eventType := msg.Attributes[AttrEventType]
		if err := c.Handle(ctx, eventType, msg.Data); err != nil {
			if c.logg != nil {
				c.logg.Error(ctx, "handling lifecycle event", err)
			}
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// Handle processes one published envelope.
func (c *Consumer) Handle(ctx context.Context, eventType string, data []byte) error {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	switch enums.OutboxEventType(eventType) {
	case enums.EventTicketCreated:
		var event tickets.TicketCreatedEvent
		if err := json.Unmarshal(envelope.Data, &event); err != nil {
			return fmt.Errorf("decode ticket_created: %w", err)
		}
		return c.handleCreated(ctx, event)
	case enums.EventTicketStateChanged:
		var event tickets.TicketStateChangedEvent
		if err := json.Unmarshal(envelope.Data, &event); err != nil {
			return fmt.Errorf("decode ticket_state_changed: %w", err)
		}
		return c.handleStateChanged(ctx, event)
	default:
		// Unknown events are acked and dropped so a newer producer can't wedge
		// the subscription.
		if c.logg != nil {
			c.logg.Warn(ctx, fmt.Sprintf("skipping unknown event type %q", eventType))
		}
		return nil
	}
}

func (c *Consumer) handleCreated(ctx context.Context, event tickets.TicketCreatedEvent) error {
	supervisors, err := c.subs.ListByRole(ctx, enums.RoleSupervisor)
	if err != nil {
		return fmt.Errorf("list supervisors: %w", err)
	}
	rows := buildRows(supervisors, enums.NotificationTypeTicketOpened, event.TicketID, event.Status, event.ImageURL)
	return c.insert(ctx, rows, event.TicketID)
}

func (c *Consumer) handleStateChanged(ctx context.Context, event tickets.TicketStateChangedEvent) error {
	var (
		recipients []models.Subscriber
		notifType  enums.NotificationType
		err        error
	)

	switch event.NewStatus {
	case enums.TicketStatusPendingDAAction, enums.TicketStatusPendingDAResponse:
		opener, ferr := c.subs.FindByUserAndRole(ctx, event.DAID, enums.RoleDeliveryAgent)
		if ferr != nil {
			if db.IsNotFound(ferr) {
				// opener never registered a chat; nothing to deliver
				return nil
			}
			return fmt.Errorf("find opener: %w", ferr)
		}
		recipients = []models.Subscriber{*opener}
		notifType = enums.NotificationTypeTicketUpdated

	case enums.TicketStatusAwaitingClientResponse:
		recipients, err = c.subs.ListByClient(ctx, event.Client)
		if err != nil {
			return fmt.Errorf("list client subscribers: %w", err)
		}
		notifType = enums.NotificationTypeTicketUpdated

	case enums.TicketStatusAdditionalInfoProvided:
		recipients, err = c.subs.ListByRole(ctx, enums.RoleSupervisor)
		if err != nil {
			return fmt.Errorf("list supervisors: %w", err)
		}
		notifType = enums.NotificationTypeTicketUpdated

	case enums.TicketStatusClientResponded, enums.TicketStatusClientIgnored:
		recipients, err = c.subs.ListByRole(ctx, enums.RoleSupervisor)
		if err != nil {
			return fmt.Errorf("list supervisors: %w", err)
		}
		notifType = enums.NotificationTypeClientReply

	case enums.TicketStatusClosed:
		recipients, err = c.subs.ListByRole(ctx, enums.RoleSupervisor)
		if err != nil {
			return fmt.Errorf("list supervisors: %w", err)
		}
		notifType = enums.NotificationTypeTicketClosed

	default:
		return nil
	}

	rows := buildRows(recipients, notifType, event.TicketID, event.NewStatus, event.ImageURL)
	return c.insert(ctx, rows, event.TicketID)
}

func (c *Consumer) insert(ctx context.Context, rows []models.Notification, ticketID uuid.UUID) error {
	if len(rows) == 0 {
		return nil
	}
	if err := c.repo.CreateBatch(ctx, rows); err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	if c.logg != nil {
		fields := map[string]any{"ticket_id": ticketID.String(), "count": len(rows)}
		c.logg.Info(c.logg.WithFields(ctx, fields), "notifications queued")
	}
	return nil
}

func buildRows(recipients []models.Subscriber, notifType enums.NotificationType, ticketID uuid.UUID, status enums.TicketStatus, imageURL *string) []models.Notification {
	rows := make([]models.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		rows = append(rows, models.Notification{
			ChatID:   recipient.ChatID,
			Role:     recipient.Role,
			Type:     notifType,
			TicketID: ticketID,
			Status:   status,
			ImageURL: imageURL,
		})
	}
	return rows
}
