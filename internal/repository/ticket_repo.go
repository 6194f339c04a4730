package repository

import (
	"context"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketRepository persists generated PDF documents (tickets, credit notes).
type TicketRepository interface {
	Create(ctx context.Context, t *model.Ticket) error
	Update(ctx context.Context, t *model.Ticket) error
	FindByVentaID(ctx context.Context, ventaID uuid.UUID, tipo string) (*model.Ticket, error)
}

type ticketRepo struct{ db *gorm.DB }

func NewTicketRepository(db *gorm.DB) TicketRepository { return &ticketRepo{db: db} }

func (r *ticketRepo) Create(ctx context.Context, t *model.Ticket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *ticketRepo) Update(ctx context.Context, t *model.Ticket) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *ticketRepo) FindByVentaID(ctx context.Context, ventaID uuid.UUID, tipo string) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).
		Where("venta_id = ? AND tipo = ?", ventaID, tipo).
		Order("created_at DESC").
		First(&t).Error
	return &t, err
}
