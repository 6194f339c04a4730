package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStockInsuficiente is returned by the conditional stock decrement when the
// lot no longer covers the requested base units (a concurrent sale got there
// first). The service layer maps it to its typed error with full context.
var ErrStockInsuficiente = errors.New("stock insuficiente")

// LoteRepository is the data access contract for lots. It is the single
// authority over lot stock: DescontarUnidadesBaseTx and RestaurarUnidadesBaseTx
// are the only mutations, and both run inside an external transaction.
type LoteRepository interface {
	Create(ctx context.Context, l *model.Lote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Lote, error)
	// ListByProducto returns every active lot of a product, freshly read.
	// Eligibility filtering (expiration, stock) is the allocator's job.
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Lote, error)
	// ListPorVencer lists active lots expiring within the window, soonest first.
	ListPorVencer(ctx context.Context, dias int) ([]model.Lote, error)
	Update(ctx context.Context, l *model.Lote) error
	Desactivar(ctx context.Context, id uuid.UUID) error

	// DescontarUnidadesBaseTx atomically consumes base units, rebalancing the
	// pack / loose-unit split. Returns ErrStockInsuficiente (and changes
	// nothing) when availability no longer covers the request.
	DescontarUnidadesBaseTx(tx *gorm.DB, id uuid.UUID, unidades int) error
	// RestaurarUnidadesBaseTx atomically restores base units to the lot.
	RestaurarUnidadesBaseTx(tx *gorm.DB, id uuid.UUID, unidades int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type loteRepo struct{ db *gorm.DB }

func NewLoteRepository(db *gorm.DB) LoteRepository { return &loteRepo{db: db} }

func (r *loteRepo) Create(ctx context.Context, l *model.Lote) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *loteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error) {
	var l model.Lote
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *loteRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Lote, error) {
	var l model.Lote
	err := tx.First(&l, "id = ?", id).Error
	return &l, err
}

func (r *loteRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Lote, error) {
	var lotes []model.Lote
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND activo = true", productoID).
		Order("fecha_vencimiento ASC NULLS LAST, id ASC").
		Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) ListPorVencer(ctx context.Context, dias int) ([]model.Lote, error) {
	var lotes []model.Lote
	limite := time.Now().AddDate(0, 0, dias)
	err := r.db.WithContext(ctx).Preload("Producto").
		Where("activo = true AND fecha_vencimiento IS NOT NULL AND fecha_vencimiento <= ?", limite).
		Where("stock_empaques * unidades_por_empaque + stock_unidades_sueltas > 0").
		Order("fecha_vencimiento ASC").
		Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) Update(ctx context.Context, l *model.Lote) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *loteRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Lote{}).Where("id = ?", id).Update("activo", false).Error
}

// The decrement is a single conditional UPDATE: both column expressions read
// the pre-update values, and the WHERE guard makes over-consumption
// impossible under concurrent sales (optimistic concurrency, no row locks
// taken by the engine).
func (r *loteRepo) DescontarUnidadesBaseTx(tx *gorm.DB, id uuid.UUID, unidades int) error {
	res := tx.Exec(`
		UPDATE lotes
		SET stock_empaques = (stock_empaques * unidades_por_empaque + stock_unidades_sueltas - ?) / unidades_por_empaque,
		    stock_unidades_sueltas = (stock_empaques * unidades_por_empaque + stock_unidades_sueltas - ?) % unidades_por_empaque,
		    updated_at = now()
		WHERE id = ?
		  AND stock_empaques * unidades_por_empaque + stock_unidades_sueltas >= ?`,
		unidades, unidades, id, unidades)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockInsuficiente
	}
	return nil
}

func (r *loteRepo) RestaurarUnidadesBaseTx(tx *gorm.DB, id uuid.UUID, unidades int) error {
	res := tx.Exec(`
		UPDATE lotes
		SET stock_empaques = (stock_empaques * unidades_por_empaque + stock_unidades_sueltas + ?) / unidades_por_empaque,
		    stock_unidades_sueltas = (stock_empaques * unidades_por_empaque + stock_unidades_sueltas + ?) % unidades_por_empaque,
		    updated_at = now()
		WHERE id = ?`,
		unidades, unidades, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *loteRepo) DB() *gorm.DB { return r.db }
