package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

// MovimientoStockFilter defines filters for listing stock movements.
type MovimientoStockFilter struct {
	VarianteID   *uuid.UUID
	ReferenciaID *uuid.UUID
	Tipo         string
	Page         int
	Limit        int
}

type MovimientoStockRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoStock) error
	List(ctx context.Context, filter MovimientoStockFilter) ([]model.MovimientoStock, int64, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Create(m).Error
}

func (r *movimientoStockRepo) List(ctx context.Context, filter MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{})
	if filter.VarianteID != nil {
		q = q.Where("variante_id = ?", *filter.VarianteID)
	}
	if filter.ReferenciaID != nil {
		q = q.Where("referencia_id = ?", *filter.ReferenciaID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizarPagina(filter.Page, filter.Limit)
	var movimientos []model.MovimientoStock
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&movimientos).Error
	return movimientos, total, err
}

func normalizarPagina(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return page, limit
}
