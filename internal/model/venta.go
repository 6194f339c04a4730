package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is the immutable snapshot of a committed sale. Once created, the only
// field ever mutated is DevueltaEn, set exactly once by the first applied
// return against this sale.
type Venta struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroTicket int             `gorm:"uniqueIndex;not null"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClienteID    *uuid.UUID      `gorm:"type:uuid;index"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Descuento is the order-level discount, applied after line totals are summed.
	Descuento decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IVA       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:iva"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MetodoPago: "efectivo" | "tarjeta" | "credito"
	MetodoPago    string          `gorm:"type:varchar(20);not null"`
	MontoRecibido decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Vuelto        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Observaciones *string
	// DevueltaEn holds the timestamp of the first applied return; nil until then.
	DevueltaEn *time.Time `gorm:"column:devuelta_en"`
	CreatedAt  time.Time

	Items   []VentaItem `gorm:"foreignKey:VentaID"`
	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
	Usuario *Usuario    `gorm:"foreignKey:UsuarioID"`
}

// VentaItem freezes one sold line: the lot it consumed, the quantity in base
// units, and the effective unit price and tax rate at sale time. Returns are
// priced from this snapshot, never from the lot's current price.
type VentaItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	LoteID     uuid.UUID `gorm:"type:uuid;not null;index"`
	// Modo: "empaque" | "unidad"
	Modo     string `gorm:"type:varchar(10);not null"`
	Cantidad int    `gorm:"not null"`
	// UnidadesBase is the stock actually consumed, in minimal units.
	UnidadesBase int `gorm:"not null"`
	// PrecioUnitario keeps 4 decimals so credits recompute without drift.
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	IVAPct         decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0;column:iva_pct"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:iva"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Lote     *Lote     `gorm:"foreignKey:LoteID"`
}
