package service

// errors.go — typed failure taxonomy of the sale engine.
// Validation errors are computed before any mutation is attempted, so a
// rejected submission never produces partial state. CommitFallidoError wraps
// store-layer failures; the in-memory draft is left untouched so the caller
// can retry the identical submission.

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarritoVacioError rejects a submission with no lines.
type CarritoVacioError struct{}

func (CarritoVacioError) Error() string { return "el carrito no tiene productos" }

// CantidadInvalidaError rejects a line whose requested base units are <= 0.
type CantidadInvalidaError struct {
	Linea int
}

func (e CantidadInvalidaError) Error() string {
	return fmt.Sprintf("cantidad invalida en la linea %d", e.Linea+1)
}

// SinLoteDisponibleError blocks adding a product that has no eligible lot.
type SinLoteDisponibleError struct {
	ProductoID uuid.UUID
}

func (e SinLoteDisponibleError) Error() string {
	return fmt.Sprintf("el producto %s no tiene lotes con stock vigente", e.ProductoID)
}

// StockInsuficienteError rejects a submission whose summed base units exceed
// a lot's fresh availability. It is also surfaced when the atomic decrement
// fails at commit because a concurrent sale exhausted the lot.
type StockInsuficienteError struct {
	LoteID     uuid.UUID
	Solicitado int
	Disponible int
}

func (e StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente en lote %s: solicitado %d, disponible %d",
		e.LoteID, e.Solicitado, e.Disponible)
}

// PagoInvalidoError rejects a cash sale whose received amount does not cover
// the total.
type PagoInvalidoError struct {
	Total    decimal.Decimal
	Recibido decimal.Decimal
}

func (e PagoInvalidoError) Error() string {
	return fmt.Sprintf("monto recibido %s insuficiente para el total %s",
		e.Recibido.StringFixed(2), e.Total.StringFixed(2))
}

// ClienteRequeridoError rejects a credit sale with no client attached.
type ClienteRequeridoError struct{}

func (ClienteRequeridoError) Error() string {
	return "una venta a credito requiere un cliente asociado"
}

// DevolucionExcedidaError rejects a return whose units for a (producto, lote)
// pair exceed what remains returnable for that pair in the sale.
type DevolucionExcedidaError struct {
	ProductoID    uuid.UUID
	LoteID        uuid.UUID
	Solicitado    int
	MaxDevolvible int
}

func (e DevolucionExcedidaError) Error() string {
	return fmt.Sprintf("devolucion excede lo vendido para lote %s: solicitado %d, maximo devolvible %d",
		e.LoteID, e.Solicitado, e.MaxDevolvible)
}

// DevolucionVaciaError rejects a return request where every quantity is zero.
type DevolucionVaciaError struct{}

func (DevolucionVaciaError) Error() string { return "la devolucion no contiene unidades" }

// VentaYaDevueltaError rejects a second return against an already-returned
// sale when multiple returns are disabled by configuration.
type VentaYaDevueltaError struct {
	VentaID uuid.UUID
}

func (e VentaYaDevueltaError) Error() string {
	return fmt.Sprintf("la venta %s ya tiene una devolucion aplicada", e.VentaID)
}

// CommitFallidoError wraps an infrastructure failure during commit or
// return-apply. The engine does not retry.
type CommitFallidoError struct {
	Err error
}

func (e CommitFallidoError) Error() string {
	return fmt.Sprintf("fallo al confirmar la operacion: %v", e.Err)
}

func (e CommitFallidoError) Unwrap() error { return e.Err }
