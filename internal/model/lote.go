package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lote is a dated stock batch of a product with its own pricing, discount,
// tax rate and expiration date. All stock authority lives here: a product's
// available stock is the sum over its lots, and only a committed sale or an
// applied return may mutate it.
type Lote struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	// NumeroLote is the manufacturer batch number printed on the box.
	NumeroLote string `gorm:"not null"`
	// FechaVencimiento nil means the lot never expires.
	FechaVencimiento *time.Time `gorm:"index"`
	// UnidadesPorEmpaque is the pack size of this lot, always >= 1.
	UnidadesPorEmpaque int             `gorm:"not null;default:1"`
	PrecioEmpaque      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// PrecioUnidad, when zero, is derived as PrecioEmpaque / UnidadesPorEmpaque.
	PrecioUnidad decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
	// DescuentoPct may be stored either as a fraction (0.10) or a raw
	// percentage (10); see precios.NormalizarDescuento.
	DescuentoPct         decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0"`
	IVAPct               decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0;column:iva_pct"`
	StockEmpaques        int             `gorm:"not null;default:0"`
	StockUnidadesSueltas int             `gorm:"not null;default:0"`
	MarcaID              *uuid.UUID      `gorm:"type:uuid;index"`
	Activo               bool            `gorm:"not null;default:true"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Marca    *Marca    `gorm:"foreignKey:MarcaID"`
}

func (Lote) TableName() string { return "lotes" }

// UnidadesBaseDisponibles returns the available stock of the lot expressed in
// minimal units. Invariant: never negative.
func (l *Lote) UnidadesBaseDisponibles() int {
	return l.StockEmpaques*l.UnidadesPorEmpaque + l.StockUnidadesSueltas
}

// Vigente reports whether the lot may still be sold on the given date.
// A nil FechaVencimiento is treated as never expiring.
func (l *Lote) Vigente(hoy time.Time) bool {
	if l.FechaVencimiento == nil {
		return true
	}
	y, m, d := hoy.Date()
	corte := time.Date(y, m, d, 0, 0, 0, 0, hoy.Location())
	return !l.FechaVencimiento.Before(corte)
}

// PrecioUnidadEfectivo resolves the unit price: the explicit PrecioUnidad when
// set, otherwise the pack price divided by the pack size.
func (l *Lote) PrecioUnidadEfectivo() decimal.Decimal {
	if l.PrecioUnidad.IsPositive() {
		return l.PrecioUnidad
	}
	factor := l.UnidadesPorEmpaque
	if factor < 1 {
		factor = 1
	}
	return l.PrecioEmpaque.Div(decimal.NewFromInt(int64(factor)))
}
