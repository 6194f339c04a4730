package repository

import (
	"context"
	"fmt"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ParClave identifies a (producto, lote) pair inside one sale; return
// accounting is cumulative per pair.
func ParClave(productoID, loteID uuid.UUID) string {
	return fmt.Sprintf("%s|%s", productoID, loteID)
}

// DevolucionRepository persists returns and aggregates prior returned units.
type DevolucionRepository interface {
	CreateTx(tx *gorm.DB, d *model.Devolucion) error
	ListByVenta(ctx context.Context, ventaID uuid.UUID) ([]model.Devolucion, error)
	// SumUnidadesDevueltas returns cumulative returned base units per
	// (producto, lote) pair for the sale, keyed by ParClave.
	SumUnidadesDevueltas(ctx context.Context, ventaID uuid.UUID) (map[string]int, error)
}

type devolucionRepo struct{ db *gorm.DB }

func NewDevolucionRepository(db *gorm.DB) DevolucionRepository { return &devolucionRepo{db: db} }

func (r *devolucionRepo) CreateTx(tx *gorm.DB, d *model.Devolucion) error {
	return tx.Create(d).Error
}

func (r *devolucionRepo) ListByVenta(ctx context.Context, ventaID uuid.UUID) ([]model.Devolucion, error) {
	var devoluciones []model.Devolucion
	err := r.db.WithContext(ctx).Preload("Items").
		Where("venta_id = ?", ventaID).
		Order("created_at ASC").
		Find(&devoluciones).Error
	return devoluciones, err
}

func (r *devolucionRepo) SumUnidadesDevueltas(ctx context.Context, ventaID uuid.UUID) (map[string]int, error) {
	type fila struct {
		ProductoID uuid.UUID
		LoteID     uuid.UUID
		Unidades   int
	}
	var filas []fila
	err := r.db.WithContext(ctx).
		Table("devolucion_items").
		Select("devolucion_items.producto_id, devolucion_items.lote_id, SUM(devolucion_items.unidades_devueltas) AS unidades").
		Joins("JOIN devoluciones ON devoluciones.id = devolucion_items.devolucion_id").
		Where("devoluciones.venta_id = ?", ventaID).
		Group("devolucion_items.producto_id, devolucion_items.lote_id").
		Scan(&filas).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(filas))
	for _, f := range filas {
		out[ParClave(f.ProductoID, f.LoteID)] = f.Unidades
	}
	return out, nil
}
