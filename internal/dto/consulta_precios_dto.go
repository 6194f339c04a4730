package dto

import "github.com/shopspring/decimal"

// ConsultaPreciosResponse answers the public barcode price check. Prices come
// from the FEFO-default lot; stock aggregates every eligible lot.
type ConsultaPreciosResponse struct {
	Nombre              string          `json:"nombre"`
	Presentacion        string          `json:"presentacion"`
	PrecioEmpaque       decimal.Decimal `json:"precio_empaque"`
	PrecioUnidad        decimal.Decimal `json:"precio_unidad"`
	DescuentoPct        decimal.Decimal `json:"descuento_pct"`
	UnidadesDisponibles int             `json:"unidades_disponibles"`
}
