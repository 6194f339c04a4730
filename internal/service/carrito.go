package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ModoVenta selects whether a cart line is measured in whole packs or in
// minimal units. A line carries exactly one quantity, interpreted by its mode,
// so inconsistent dual-quantity states are unrepresentable.
type ModoVenta string

const (
	ModoEmpaque ModoVenta = "empaque"
	ModoUnidad  ModoVenta = "unidad"
)

// Metodos de pago aceptados por el finalizador.
const (
	PagoEfectivo = "efectivo"
	PagoTarjeta  = "tarjeta"
	PagoCredito  = "credito"
)

// TipoDescuento distinguishes an order-level percentage discount from a fixed
// amount.
type TipoDescuento string

const (
	DescuentoPorcentaje TipoDescuento = "porcentaje"
	DescuentoMonto      TipoDescuento = "monto"
)

// DescuentoGlobal is the order-level discount, applied after all line totals
// are summed.
type DescuentoGlobal struct {
	Tipo  TipoDescuento
	Valor decimal.Decimal
}

// LineaCarrito is one in-progress sale line: a product, the lot it will
// consume, and a quantity in the line's mode. Lines exist only in working
// memory while the cart is being built.
type LineaCarrito struct {
	ID         uuid.UUID
	ProductoID uuid.UUID
	LoteID     uuid.UUID
	Modo       ModoVenta
	Cantidad   int
	// IVAPctOverride, when set, replaces the lot's tax rate for this line.
	IVAPctOverride *decimal.Decimal
}

// Carrito is a sale draft owned by the calling session. It is discarded after
// commit or abandonment; no cleanup is needed because no stock mutation
// happens before commit.
type Carrito struct {
	ID            uuid.UUID
	Lineas        []LineaCarrito
	ClienteID     *uuid.UUID
	MetodoPago    string
	MontoRecibido decimal.Decimal
	Descuento     DescuentoGlobal
	Observaciones string
}

// Linea returns a pointer to the line with the given id, or nil.
func (c *Carrito) Linea(id uuid.UUID) *LineaCarrito {
	for i := range c.Lineas {
		if c.Lineas[i].ID == id {
			return &c.Lineas[i]
		}
	}
	return nil
}

// Hermanas returns every line other than the given one that references the
// same lot. The allocator clamps a line against this set.
func (c *Carrito) Hermanas(linea LineaCarrito) []LineaCarrito {
	var out []LineaCarrito
	for _, l := range c.Lineas {
		if l.ID != linea.ID && l.LoteID == linea.LoteID {
			out = append(out, l)
		}
	}
	return out
}
