package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialPrecioLote registra cada cambio de precio de un lote.
// Los registros son inmutables — nunca se eliminan ni modifican. Los créditos
// de devolución NO leen esta tabla: siempre usan el snapshot de la venta.
type HistorialPrecioLote struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LoteID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	EmpaqueAntes   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	EmpaqueDespues decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnidadAntes    decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	UnidadDespues  decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	Motivo         string          `gorm:"not null;default:'manual'"` // manual | ingreso_lote
	CreatedAt      time.Time

	Lote *Lote `gorm:"foreignKey:LoteID"`
}

func (HistorialPrecioLote) TableName() string { return "historial_precios_lote" }
