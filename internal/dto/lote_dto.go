package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegistrarLoteRequest ingests a new batch from a supplier delivery.
type RegistrarLoteRequest struct {
	ProductoID         string           `json:"producto_id"    validate:"required,uuid"`
	NumeroLote         string           `json:"numero_lote"    validate:"required"`
	FechaVencimiento   *string          `json:"fecha_vencimiento"` // YYYY-MM-DD; null = no vence
	UnidadesPorEmpaque int              `json:"unidades_por_empaque" validate:"min=1"`
	PrecioEmpaque      decimal.Decimal  `json:"precio_empaque" validate:"required,gt=0"`
	PrecioUnidad       *decimal.Decimal `json:"precio_unidad"  validate:"omitempty,gt=0"`
	DescuentoPct       decimal.Decimal  `json:"descuento_pct"  validate:"min=0,max=100"`
	IVAPct             *decimal.Decimal `json:"iva_pct"        validate:"omitempty,min=0,max=100"`
	StockEmpaques      int              `json:"stock_empaques" validate:"min=0"`
	StockUnidadesSueltas int            `json:"stock_unidades_sueltas" validate:"min=0"`
	MarcaID            *string          `json:"marca_id"       validate:"omitempty,uuid"`
}

type ActualizarPreciosLoteRequest struct {
	PrecioEmpaque decimal.Decimal  `json:"precio_empaque" validate:"required,gt=0"`
	PrecioUnidad  *decimal.Decimal `json:"precio_unidad"  validate:"omitempty,gt=0"`
	DescuentoPct  *decimal.Decimal `json:"descuento_pct"  validate:"omitempty,min=0,max=100"`
}

// AjustarStockRequest applies a manual correction in base units (positive or
// negative) with a required reason for the audit trail.
type AjustarStockRequest struct {
	Unidades int    `json:"unidades" validate:"required"`
	Motivo   string `json:"motivo"   validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoteResponse struct {
	ID                   string          `json:"id"`
	ProductoID           string          `json:"producto_id"`
	Producto             string          `json:"producto,omitempty"`
	NumeroLote           string          `json:"numero_lote"`
	FechaVencimiento     *string         `json:"fecha_vencimiento"`
	UnidadesPorEmpaque   int             `json:"unidades_por_empaque"`
	PrecioEmpaque        decimal.Decimal `json:"precio_empaque"`
	PrecioUnidad         decimal.Decimal `json:"precio_unidad"`
	DescuentoPct         decimal.Decimal `json:"descuento_pct"`
	IVAPct               decimal.Decimal `json:"iva_pct"`
	StockEmpaques        int             `json:"stock_empaques"`
	StockUnidadesSueltas int             `json:"stock_unidades_sueltas"`
	UnidadesDisponibles  int             `json:"unidades_disponibles"`
	Elegible             bool            `json:"elegible"`
	MarcaID              *string         `json:"marca_id"`
}

type MovimientoStockResponse struct {
	ID            string `json:"id"`
	LoteID        string `json:"lote_id"`
	Tipo          string `json:"tipo"`
	Cantidad      int    `json:"cantidad"`
	StockAnterior int    `json:"stock_anterior"`
	StockNuevo    int    `json:"stock_nuevo"`
	Motivo        string `json:"motivo"`
	CreatedAt     string `json:"created_at"`
}

type HistorialPrecioLoteResponse struct {
	EmpaqueAntes   decimal.Decimal `json:"empaque_antes"`
	EmpaqueDespues decimal.Decimal `json:"empaque_despues"`
	UnidadAntes    decimal.Decimal `json:"unidad_antes"`
	UnidadDespues  decimal.Decimal `json:"unidad_despues"`
	Motivo         string          `json:"motivo"`
	CreatedAt      string          `json:"created_at"`
}
