package tickets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderdesk/ticketdesk-backend/pkg/db/models"
	dbtypes "github.com/orderdesk/ticketdesk-backend/pkg/db/types"
	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
	"github.com/orderdesk/ticketdesk-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tickets repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", id).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ApplyTransition flips the status and replaces the log array, guarded by the
// status the caller loaded. A zero row count means a concurrent transition won.
func (r *repository) ApplyTransition(ctx context.Context, id uuid.UUID, fromStatus, toStatus enums.TicketStatus, logs dbtypes.LogEntries) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(map[string]any{
			"status": toStatus,
			"logs":   logs,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*TicketList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Ticket{})

	if !filters.IncludeClosed {
		query = query.Where("status <> ?", enums.TicketStatusClosed)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.OpenerID != "" {
		query = query.Where("da_id = ?", filters.OpenerID)
	}
	if filters.Client != "" {
		query = query.Where("client = ?", filters.Client)
	}
	if filters.OrderContains != "" {
		query = query.Where("order_id LIKE ?", "%"+filters.OrderContains+"%")
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Ticket
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	page, hasMore := pagination.TrimPage(rows, params.Limit)

	list := &TicketList{Tickets: make([]TicketSummary, 0, len(page))}
	for _, row := range page {
		list.Tickets = append(list.Tickets, TicketSummary{
			ID:               row.ID,
			OrderID:          row.OrderID,
			IssueDescription: row.IssueDescription,
			IssueReason:      row.IssueReason,
			IssueType:        row.IssueType,
			Client:           row.Client,
			Status:           row.Status,
			DAID:             row.DAID,
			CreatedAt:        row.CreatedAt,
			UpdatedAt:        row.UpdatedAt,
		})
	}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}
