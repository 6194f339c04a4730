package model

import (
	"time"

	"github.com/google/uuid"
)

// Ticket stores a generated PDF document for a sale or a credit note.
// Tipo: "ticket" | "nota_credito"
// Estado: "pendiente" | "generado" | "error"
type Ticket struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID uuid.UUID `gorm:"type:uuid;index;not null"`
	// DevolucionID is set only for credit notes.
	DevolucionID *uuid.UUID `gorm:"type:uuid;index"`
	Tipo         string     `gorm:"type:varchar(20);not null;default:'ticket'"`
	// PDFPath is relative to PDF_STORAGE_PATH.
	PDFPath   *string `gorm:"column:pdf_path"`
	Estado    string  `gorm:"type:varchar(20);not null;default:'pendiente'"`
	LastError *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
