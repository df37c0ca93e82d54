package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Turno is a grooming appointment occupying [Inicio, Fin).
type Turno struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	MascotaID uuid.UUID   `gorm:"type:uuid;not null;index"`
	Inicio    time.Time   `gorm:"not null;index"`
	Fin       time.Time   `gorm:"not null;index"`
	Estado    EstadoTurno `gorm:"type:varchar(10);not null"`
	Notas     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Mascota *Mascota `gorm:"foreignKey:MascotaID"`
}

func (t *Turno) BeforeCreate(*gorm.DB) error { nuevoID(&t.ID); return nil }

// transicionesTurno lists the allowed next states. BILLED and CANCELLED are terminal.
var transicionesTurno = map[EstadoTurno][]EstadoTurno{
	TurnoPendiente:  {TurnoConfirmado, TurnoCancelado},
	TurnoConfirmado: {TurnoCompletado, TurnoCancelado},
	TurnoCompletado: {TurnoFacturado},
}

// PuedePasarA reports whether the state machine allows desde → hacia.
func PuedePasarA(desde, hacia EstadoTurno) bool {
	for _, e := range transicionesTurno[desde] {
		if e == hacia {
			return true
		}
	}
	return false
}

// Mascota belongs to a customer; its name shows up in collision messages.
type Mascota struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ClienteID *uuid.UUID `gorm:"type:uuid;index"`
	Nombre    string     `gorm:"not null"`
	Especie   *string
	CreatedAt time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (Mascota) TableName() string { return "mascotas" }

func (m *Mascota) BeforeCreate(*gorm.DB) error { nuevoID(&m.ID); return nil }

type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"not null"`
	Telefono  *string
	Email     *string
	CreatedAt time.Time
}

func (c *Cliente) BeforeCreate(*gorm.DB) error { nuevoID(&c.ID); return nil }
