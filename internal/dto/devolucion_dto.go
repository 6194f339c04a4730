package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// DevolucionItemRequest reverses units of one (producto, lote) pair of the
// sale. Unidades are base units; zero lines are tolerated and ignored as long
// as at least one line is positive.
type DevolucionItemRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	LoteID     string `json:"lote_id"     validate:"required,uuid"`
	Unidades   int    `json:"unidades"    validate:"min=0"`
}

type RegistrarDevolucionRequest struct {
	Items         []DevolucionItemRequest `json:"items" validate:"required,min=1,dive"`
	Observaciones *string                 `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DevolucionItemResponse struct {
	ProductoID string          `json:"producto_id"`
	LoteID     string          `json:"lote_id"`
	Unidades   int             `json:"unidades"`
	Credito    decimal.Decimal `json:"credito"`
}

type DevolucionResponse struct {
	ID           string                   `json:"id"`
	VentaID      string                   `json:"venta_id"`
	Items        []DevolucionItemResponse `json:"items"`
	CreditoTotal decimal.Decimal          `json:"credito_total"`
	CreatedAt    string                   `json:"created_at"`
}
