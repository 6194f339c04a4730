package repository

import (
	"context"
	"time"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VentaRepository persists committed sales. A sale row and its items are
// written once inside the commit transaction and never updated afterwards,
// except for the one-shot devuelta_en flag.
type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	NextTicketNumber(ctx context.Context, tx *gorm.DB) (int, error)
	// MarcarDevueltaTx sets devuelta_en only when it is still NULL; a second
	// return leaves the original timestamp untouched.
	MarcarDevueltaTx(tx *gorm.DB, id uuid.UUID, t time.Time) error
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Items.Producto").Preload("Cliente").
		First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	fecha := filter.Fecha
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}
	if fecha != "all" {
		desde, err := time.Parse("2006-01-02", fecha)
		if err == nil {
			q = q.Where("created_at >= ? AND created_at < ?", desde, desde.AddDate(0, 0, 1))
		}
	}
	switch filter.Devueltas {
	case "si":
		q = q.Where("devuelta_en IS NOT NULL")
	case "no":
		q = q.Where("devuelta_en IS NULL")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Preload("Items.Producto").Preload("Cliente").
		Order("created_at DESC").Limit(filter.Limit).Offset(offset).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) NextTicketNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	if tx == nil {
		tx = r.db
	}
	var n int
	err := tx.WithContext(ctx).Raw(`SELECT nextval('ventas_ticket_seq')`).Scan(&n).Error
	return n, err
}

func (r *ventaRepo) MarcarDevueltaTx(tx *gorm.DB, id uuid.UUID, t time.Time) error {
	return tx.Model(&model.Venta{}).
		Where("id = ? AND devuelta_en IS NULL", id).
		Update("devuelta_en", t).Error
}

func (r *ventaRepo) DB() *gorm.DB { return r.db }
