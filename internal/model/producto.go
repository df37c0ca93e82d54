package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Producto groups sellable variants. ProveedorID is the consignment owner;
// nil means the goods belong to the shop.
// UnidadMedida is fixed once any variant has sale history.
type Producto struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Nombre       string       `gorm:"index;not null"`
	Descripcion  *string
	ProveedorID  *uuid.UUID   `gorm:"type:uuid;index"`
	CategoriaID  *uuid.UUID   `gorm:"type:uuid;index"`
	UnidadMedida UnidadMedida `gorm:"type:varchar(8);not null;default:'UNIT'"`
	Activo       bool         `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
	Variantes []Variante `gorm:"foreignKey:ProductoID"`
}

func (p *Producto) BeforeCreate(*gorm.DB) error { nuevoID(&p.ID); return nil }

// Variante is the stock-keeping unit. Stock is only written through the
// inventory ledger and never goes below zero.
type Variante struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Nombre      string          `gorm:"not null"`
	PrecioCosto decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (v *Variante) BeforeCreate(*gorm.DB) error { nuevoID(&v.ID); return nil }

// Descripcion renders "Producto - Variante" for receipts and error messages.
func (v *Variante) Descripcion() string {
	if v.Producto == nil {
		return v.Nombre
	}
	if v.Nombre == "" {
		return v.Producto.Nombre
	}
	return v.Producto.Nombre + " - " + v.Nombre
}

// UnidadMedida of the parent product, UNIT when it was not loaded.
func (v *Variante) UnidadMedida() UnidadMedida {
	if v.Producto == nil {
		return UnidadUnidad
	}
	return v.Producto.UnidadMedida
}
