package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Liquidacion is a payout to a consignment owner. Total is always > 0.
type Liquidacion struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProveedorID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UsuarioID   *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt   time.Time

	Proveedor *Proveedor        `gorm:"foreignKey:ProveedorID"`
	Items     []LiquidacionItem `gorm:"foreignKey:LiquidacionID"`
	Ajustes   []AjusteSaldo     `gorm:"foreignKey:LiquidacionID"`
}

func (Liquidacion) TableName() string { return "liquidaciones" }

func (l *Liquidacion) BeforeCreate(*gorm.DB) error { nuevoID(&l.ID); return nil }

// LiquidacionItem pays Cantidad units of one sale line.
type LiquidacionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LiquidacionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	VentaItemID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad      int             `gorm:"not null"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	VentaItem *VentaItem `gorm:"foreignKey:VentaItemID"`
}

func (i *LiquidacionItem) BeforeCreate(*gorm.DB) error { nuevoID(&i.ID); return nil }

// AjusteSaldo is a signed correction to what the shop owes an owner
// (negative when a settled sale is cancelled). Once Aplicado it belongs to
// exactly one Liquidacion.
type AjusteSaldo struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProveedorID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion   string          `gorm:"not null"`
	Aplicado      bool            `gorm:"not null;default:false"`
	LiquidacionID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt     time.Time
}

func (AjusteSaldo) TableName() string { return "ajustes_saldo" }

func (a *AjusteSaldo) BeforeCreate(*gorm.DB) error { nuevoID(&a.ID); return nil }
