package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Usuario stores staff accounts. Rol: "ADMIN" | "USER".
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          string    `gorm:"type:varchar(20);not null"`
	Activo       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *Usuario) BeforeCreate(*gorm.DB) error { nuevoID(&u.ID); return nil }

// Sesion is the authenticated caller as seen by the engines.
type Sesion struct {
	UsuarioID uuid.UUID
	Rol       string
}

func (s Sesion) EsAdmin() bool { return s.Rol == RolAdmin }
