package repository

import (
	"context"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistorialPrecioRepository persists immutable lot price-change records.
type HistorialPrecioRepository interface {
	Create(ctx context.Context, h *model.HistorialPrecioLote) error
	ListByLote(ctx context.Context, loteID uuid.UUID) ([]model.HistorialPrecioLote, error)
}

type historialPrecioRepo struct{ db *gorm.DB }

func NewHistorialPrecioRepository(db *gorm.DB) HistorialPrecioRepository {
	return &historialPrecioRepo{db: db}
}

func (r *historialPrecioRepo) Create(ctx context.Context, h *model.HistorialPrecioLote) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *historialPrecioRepo) ListByLote(ctx context.Context, loteID uuid.UUID) ([]model.HistorialPrecioLote, error) {
	var historial []model.HistorialPrecioLote
	err := r.db.WithContext(ctx).
		Where("lote_id = ?", loteID).
		Order("created_at DESC").
		Find(&historial).Error
	return historial, err
}
