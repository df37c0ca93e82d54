package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

type TurnoRepository interface {
	CreateTx(tx *gorm.DB, t *model.Turno) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	// BuscarSolapadoTx returns a non-cancelled turno overlapping [inicio, fin),
	// ignoring excluirID, or nil when the slot is free.
	BuscarSolapadoTx(tx *gorm.DB, inicio, fin time.Time, excluirID *uuid.UUID) (*model.Turno, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, desde, hacia model.EstadoTurno) (int64, error)
	// FacturarTx marks a turno BILLED from any non-terminal state.
	FacturarTx(tx *gorm.DB, id uuid.UUID) (int64, error)
	List(ctx context.Context, desde, hasta time.Time) ([]model.Turno, error)
	DB() *gorm.DB
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) DB() *gorm.DB { return r.db }

func (r *turnoRepo) CreateTx(tx *gorm.DB, t *model.Turno) error {
	return tx.Omit("Mascota").Create(t).Error
}

func (r *turnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	if err := r.db.WithContext(ctx).Preload("Mascota").First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *turnoRepo) BuscarSolapadoTx(tx *gorm.DB, inicio, fin time.Time, excluirID *uuid.UUID) (*model.Turno, error) {
	q := tx.Preload("Mascota").
		Where("estado <> ?", model.TurnoCancelado).
		Where("inicio < ? AND fin > ?", fin, inicio)
	if excluirID != nil {
		q = q.Where("id <> ?", *excluirID)
	}
	var turnos []model.Turno
	if err := q.Order("inicio ASC").Limit(1).Find(&turnos).Error; err != nil {
		return nil, err
	}
	if len(turnos) == 0 {
		return nil, nil
	}
	return &turnos[0], nil
}

func (r *turnoRepo) CambiarEstado(ctx context.Context, id uuid.UUID, desde, hacia model.EstadoTurno) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Turno{}).
		Where("id = ? AND estado = ?", id, desde).
		Update("estado", hacia)
	return res.RowsAffected, res.Error
}

// Checkout is the only path allowed to bill a turno that never reached COMPLETED.
func (r *turnoRepo) FacturarTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Model(&model.Turno{}).
		Where("id = ? AND estado IN ?", id, []model.EstadoTurno{model.TurnoPendiente, model.TurnoConfirmado, model.TurnoCompletado}).
		Update("estado", model.TurnoFacturado)
	return res.RowsAffected, res.Error
}

func (r *turnoRepo) List(ctx context.Context, desde, hasta time.Time) ([]model.Turno, error) {
	var turnos []model.Turno
	err := r.db.WithContext(ctx).Preload("Mascota").
		Where("inicio >= ? AND inicio < ?", desde, hasta).
		Order("inicio ASC").
		Find(&turnos).Error
	return turnos, err
}
