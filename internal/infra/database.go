package infra

import (
	"fmt"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the SQL objects GORM cannot express
// (the ticket number sequence, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the schema. Idempotent; also used by
// integration tests against a disposable database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Proveedor{},
		&model.Marca{},
		&model.Producto{},
		&model.Lote{},
		&model.Cliente{},
		&model.Venta{},
		&model.VentaItem{},
		&model.Devolucion{},
		&model.DevolucionItem{},
		&model.MovimientoStock{},
		&model.HistorialPrecioLote{},
		&model.Ticket{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Monotonic ticket numbering consumed inside the sale transaction.
		`CREATE SEQUENCE IF NOT EXISTS ventas_ticket_seq START 1`,
		// Fast path for the expiring-lots report: only dated, active lots.
		`CREATE INDEX IF NOT EXISTS idx_lotes_por_vencer
		    ON lotes (fecha_vencimiento)
		    WHERE activo = true AND fecha_vencimiento IS NOT NULL`,
		// Returned-sales filter on the sales listing.
		`CREATE INDEX IF NOT EXISTS idx_ventas_devuelta_en
		    ON ventas (devuelta_en)
		    WHERE devuelta_en IS NOT NULL`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
