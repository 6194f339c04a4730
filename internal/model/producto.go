package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog entry. Prices, discounts and stock live in its Lotes;
// the product only carries defaults applied when a new lot is registered.
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoBarras string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"index;not null"`
	// Presentacion describes the retail form: "Caja x 20 comprimidos", "Jarabe 120ml"…
	Presentacion string `gorm:"not null"`
	Descripcion  *string
	// IVAPct is the product's base tax rate; a lot may override it.
	IVAPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0;column:iva_pct"`
	// UnidadesPorEmpaque is the default pack size proposed for new lots.
	UnidadesPorEmpaque int        `gorm:"not null;default:1"`
	ProveedorID        *uuid.UUID `gorm:"type:uuid;index"`
	Activo             bool       `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
	Lotes     []Lote     `gorm:"foreignKey:ProductoID"`
}
