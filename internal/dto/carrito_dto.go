package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AgregarProductoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
}

// ActualizarLineaRequest edits quantity and/or mode of a cart line. LoteID
// lets the operator pick a batch other than the FEFO default.
type ActualizarLineaRequest struct {
	Modo     string `json:"modo"     validate:"required,oneof=empaque unidad"`
	Cantidad int    `json:"cantidad" validate:"min=0"`
	LoteID   *string `json:"lote_id" validate:"omitempty,uuid"`
	// IVAPct overrides the lot's tax rate for this line only.
	IVAPct *decimal.Decimal `json:"iva_pct" validate:"omitempty,min=0,max=100"`
}

// ActualizarCarritoRequest sets draft-level data: client, payment, global
// discount and observations.
type ActualizarCarritoRequest struct {
	ClienteID      *string         `json:"cliente_id"      validate:"omitempty,uuid"`
	MetodoPago     string          `json:"metodo_pago"     validate:"omitempty,oneof=efectivo tarjeta credito"`
	MontoRecibido  decimal.Decimal `json:"monto_recibido"  validate:"min=0"`
	DescuentoTipo  string          `json:"descuento_tipo"  validate:"omitempty,oneof=porcentaje monto"`
	DescuentoValor decimal.Decimal `json:"descuento_valor" validate:"min=0"`
	Observaciones  string          `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// LineaCarritoResponse is one priced cart line. Ajustada reports that the
// requested quantity was clamped to the lot's remaining stock — a warning,
// not an error.
type LineaCarritoResponse struct {
	ID               string          `json:"id"`
	ProductoID       string          `json:"producto_id"`
	Producto         string          `json:"producto"`
	LoteID           string          `json:"lote_id"`
	NumeroLote       string          `json:"numero_lote"`
	FechaVencimiento *string         `json:"fecha_vencimiento"`
	Modo             string          `json:"modo"`
	Cantidad         int             `json:"cantidad"`
	UnidadesBase     int             `json:"unidades_base"`
	PrecioUnitario   decimal.Decimal `json:"precio_unitario"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	IVA              decimal.Decimal `json:"iva"`
	Total            decimal.Decimal `json:"total"`
	Ajustada         bool            `json:"ajustada"`
}

type TotalesOrdenResponse struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Descuento decimal.Decimal `json:"descuento"`
	IVA       decimal.Decimal `json:"iva"`
	Total     decimal.Decimal `json:"total"`
}

type CarritoResponse struct {
	ID            string                 `json:"id"`
	Lineas        []LineaCarritoResponse `json:"lineas"`
	ClienteID     *string                `json:"cliente_id"`
	MetodoPago    string                 `json:"metodo_pago"`
	MontoRecibido decimal.Decimal        `json:"monto_recibido"`
	Observaciones string                 `json:"observaciones"`
	Totales       TotalesOrdenResponse   `json:"totales"`
}
