package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoStock is the append-only audit row written with every stock change.
type MovimientoStock struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	VarianteID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Tipo         TipoMovimiento `gorm:"type:varchar(20);not null"`
	Cantidad     int            `gorm:"not null"` // signed: positive = entrada, negative = salida
	Motivo       string
	UsuarioID    *uuid.UUID `gorm:"type:uuid"`
	ReferenciaID *uuid.UUID `gorm:"type:uuid;index"` // venta_id when the movement comes from a sale
	CreatedAt    time.Time

	Variante *Variante `gorm:"foreignKey:VarianteID"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }

func (m *MovimientoStock) BeforeCreate(*gorm.DB) error { nuevoID(&m.ID); return nil }
