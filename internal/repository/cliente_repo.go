package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

// ClienteRepository covers customers and their pets.
type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error)
	CreateMascota(ctx context.Context, m *model.Mascota) error
	FindMascotaByID(ctx context.Context, id uuid.UUID) (*model.Mascota, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *clienteRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	if err := tx.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) CreateMascota(ctx context.Context, m *model.Mascota) error {
	return r.db.WithContext(ctx).Omit("Cliente").Create(m).Error
}

func (r *clienteRepo) FindMascotaByID(ctx context.Context, id uuid.UUID) (*model.Mascota, error) {
	var m model.Mascota
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
