package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Categoria classifies products (alimento, accesorios, higiene...).
type Categoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
}

func (Categoria) TableName() string { return "categorias" }

func (c *Categoria) BeforeCreate(*gorm.DB) error { nuevoID(&c.ID); return nil }
