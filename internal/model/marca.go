package model

import (
	"time"

	"github.com/google/uuid"
)

// Marca groups lots of the same laboratory or commercial brand.
type Marca struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Descripcion *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Marca) TableName() string { return "marcas" }
