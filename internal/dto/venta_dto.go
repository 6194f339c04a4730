package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha     string `form:"fecha"`     // YYYY-MM-DD; empty = today; "all" = sin filtro
	Devueltas string `form:"devueltas"` // si | no | "" (todas)
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaItemResponse struct {
	Producto       string          `json:"producto"`
	ProductoID     string          `json:"producto_id"`
	LoteID         string          `json:"lote_id"`
	Modo           string          `json:"modo"`
	Cantidad       int             `json:"cantidad"`
	UnidadesBase   int             `json:"unidades_base"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	IVA            decimal.Decimal `json:"iva"`
	Total          decimal.Decimal `json:"total"`
}

type VentaResponse struct {
	ID            string              `json:"id"`
	NumeroTicket  int                 `json:"numero_ticket"`
	Items         []VentaItemResponse `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Descuento     decimal.Decimal     `json:"descuento"`
	IVA           decimal.Decimal     `json:"iva"`
	Total         decimal.Decimal     `json:"total"`
	MetodoPago    string              `json:"metodo_pago"`
	MontoRecibido decimal.Decimal     `json:"monto_recibido"`
	Vuelto        decimal.Decimal     `json:"vuelto"`
	Cliente       *string             `json:"cliente"`
	DevueltaEn    *string             `json:"devuelta_en"`
	CreatedAt     string              `json:"created_at"`
}
