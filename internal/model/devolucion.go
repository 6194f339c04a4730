package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Devolucion is a credit note: a partial or total reversal of previously sold
// base units against a specific sale. Records are immutable once created.
type Devolucion struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;not null"`
	CreditoTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Observaciones *string
	CreatedAt     time.Time

	Items []DevolucionItem `gorm:"foreignKey:DevolucionID"`
	Venta *Venta           `gorm:"foreignKey:VentaID"`
}

func (Devolucion) TableName() string { return "devoluciones" }

// DevolucionItem reverses base units of one (producto, lote) pair of the sale.
// Invariant: across all devoluciones of a sale, the cumulative units per pair
// never exceed the units originally sold for that pair.
type DevolucionItem struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DevolucionID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID        uuid.UUID `gorm:"type:uuid;not null"`
	LoteID            uuid.UUID `gorm:"type:uuid;not null;index"`
	UnidadesDevueltas int       `gorm:"not null"`
	// Credito is priced from the sale's snapshot (unit price + tax at sale time).
	Credito decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (DevolucionItem) TableName() string { return "devolucion_items" }
