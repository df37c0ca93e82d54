// Package testutil opens throwaway databases for engine tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

// Modelos lists every table, in dependency order.
var Modelos = []any{
	&model.Usuario{},
	&model.Proveedor{},
	&model.Categoria{},
	&model.Producto{},
	&model.Variante{},
	&model.MovimientoStock{},
	&model.Cliente{},
	&model.Mascota{},
	&model.Turno{},
	&model.Venta{},
	&model.VentaItem{},
	&model.Cobro{},
	&model.Liquidacion{},
	&model.LiquidacionItem{},
	&model.AjusteSaldo{},
}

// NuevaDB returns an isolated in-memory SQLite database with the schema
// migrated. One connection only, so transactions serialise like row locks would.
func NuevaDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:" + name + "_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(Modelos...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}
