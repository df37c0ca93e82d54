package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Proveedor is a consignment owner: goods stay theirs until sold, and the
// shop owes them the snapshotted cost of what it sold once the customer paid.
type Proveedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"not null"`
	Telefono  *string
	Email     *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Productos []Producto `gorm:"foreignKey:ProveedorID"`
}

func (Proveedor) TableName() string { return "proveedores" }

func (p *Proveedor) BeforeCreate(*gorm.DB) error { nuevoID(&p.ID); return nil }
