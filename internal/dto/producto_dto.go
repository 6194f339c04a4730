package dto

import "github.com/shopspring/decimal"

type ProductoFilter struct {
	Nombre      string `form:"nombre"`
	Barcode     string `form:"barcode"`
	ProveedorID string `form:"proveedor_id"`
	Activo      string `form:"activo"` // "" = activos, "false" = inactivos, "all" = todos
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CrearProductoRequest struct {
	CodigoBarras       string          `json:"codigo_barras" validate:"required"`
	Nombre             string          `json:"nombre"        validate:"required"`
	Presentacion       string          `json:"presentacion"  validate:"required"`
	Descripcion        *string         `json:"descripcion"`
	IVAPct             decimal.Decimal `json:"iva_pct"       validate:"min=0,max=100"`
	UnidadesPorEmpaque int             `json:"unidades_por_empaque" validate:"min=1"`
	ProveedorID        *string         `json:"proveedor_id"  validate:"omitempty,uuid"`
}

type ActualizarProductoRequest struct {
	Nombre             string           `json:"nombre"`
	Presentacion       string           `json:"presentacion"`
	Descripcion        *string          `json:"descripcion"`
	IVAPct             *decimal.Decimal `json:"iva_pct" validate:"omitempty,min=0,max=100"`
	UnidadesPorEmpaque *int             `json:"unidades_por_empaque" validate:"omitempty,min=1"`
	ProveedorID        *string          `json:"proveedor_id" validate:"omitempty,uuid"`
}

type ProductoResponse struct {
	ID                 string          `json:"id"`
	CodigoBarras       string          `json:"codigo_barras"`
	Nombre             string          `json:"nombre"`
	Presentacion       string          `json:"presentacion"`
	Descripcion        *string         `json:"descripcion"`
	IVAPct             decimal.Decimal `json:"iva_pct"`
	UnidadesPorEmpaque int             `json:"unidades_por_empaque"`
	ProveedorID        *string         `json:"proveedor_id"`
	Activo             bool            `json:"activo"`
	// StockTotal aggregates available base units over the product's lots;
	// populated only by endpoints that fetch lots.
	StockTotal *int `json:"stock_total,omitempty"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
