package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Venta is a checkout. Total is always recomputed server-side; a cancelled
// sale keeps its rows and only flips Estado.
type Venta struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClienteID   *uuid.UUID      `gorm:"type:uuid;index"`
	UsuarioID   *uuid.UUID      `gorm:"type:uuid"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoPagado decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MetodoPago  MetodoPago      `gorm:"type:varchar(20);not null"`
	EstadoPago  EstadoPago      `gorm:"type:varchar(10);not null"`
	Estado      EstadoVenta     `gorm:"type:varchar(10);not null;index"`
	CreatedAt   time.Time       `gorm:"index"`
	UpdatedAt   time.Time

	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
	Items   []VentaItem `gorm:"foreignKey:VentaID"`
}

// TableName: GORM's inflector leaves words ending in "ta" unchanged.
func (Venta) TableName() string { return "ventas" }

func (v *Venta) BeforeCreate(*gorm.DB) error { nuevoID(&v.ID); return nil }

// Saldo is what the customer still owes on this sale.
func (v *Venta) Saldo() decimal.Decimal { return v.Total.Sub(v.MontoPagado) }

// VentaItem snapshots cost and price at sale time. VarianteID is nil for
// service lines; TurnoID links a service line to the appointment it billed.
// CantidadLiquidada only grows (through settlements) and never exceeds Cantidad.
type VentaItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VentaID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	VarianteID        *uuid.UUID      `gorm:"type:uuid;index"`
	TurnoID           *uuid.UUID      `gorm:"type:uuid"`
	Descripcion       string          `gorm:"not null"`
	Cantidad          int             `gorm:"not null"`
	PrecioVenta       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioCosto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CantidadLiquidada int             `gorm:"not null;default:0"`

	Venta    *Venta    `gorm:"foreignKey:VentaID"`
	Variante *Variante `gorm:"foreignKey:VarianteID"`
}

func (i *VentaItem) BeforeCreate(*gorm.DB) error { nuevoID(&i.ID); return nil }

// Pendiente is the quantity not yet paid out to the owner.
func (i *VentaItem) Pendiente() int { return i.Cantidad - i.CantidadLiquidada }

// Cobro is a customer payment against a checking-account sale.
type Cobro struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VentaID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UsuarioID *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt time.Time
}

func (c *Cobro) BeforeCreate(*gorm.DB) error { nuevoID(&c.ID); return nil }
