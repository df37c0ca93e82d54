package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

type LiquidacionRepository interface {
	// CreateTx inserts the settlement together with its Items.
	CreateTx(tx *gorm.DB, l *model.Liquidacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Liquidacion, error)

	CreateAjuste(ctx context.Context, a *model.AjusteSaldo) error
	CreateAjusteTx(tx *gorm.DB, a *model.AjusteSaldo) error
	FindAjustesByIDsTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.AjusteSaldo, error)
	// AplicarAjusteTx links the adjustment to a settlement only if it was still unapplied.
	AplicarAjusteTx(tx *gorm.DB, id, liquidacionID uuid.UUID) (int64, error)
	AjustesPendientes(ctx context.Context, proveedorID uuid.UUID) ([]model.AjusteSaldo, error)

	DB() *gorm.DB
}

type liquidacionRepo struct{ db *gorm.DB }

func NewLiquidacionRepository(db *gorm.DB) LiquidacionRepository { return &liquidacionRepo{db: db} }

func (r *liquidacionRepo) DB() *gorm.DB { return r.db }

func (r *liquidacionRepo) CreateTx(tx *gorm.DB, l *model.Liquidacion) error {
	return tx.Omit("Ajustes", "Proveedor").Create(l).Error
}

func (r *liquidacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Liquidacion, error) {
	var l model.Liquidacion
	err := r.db.WithContext(ctx).
		Preload("Proveedor").
		Preload("Items.VentaItem.Venta").
		Preload("Ajustes").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ── Ajustes de saldo ──────────────────────────────────────────────────────────

func (r *liquidacionRepo) CreateAjuste(ctx context.Context, a *model.AjusteSaldo) error {
	return r.CreateAjusteTx(r.db.WithContext(ctx), a)
}

func (r *liquidacionRepo) CreateAjusteTx(tx *gorm.DB, a *model.AjusteSaldo) error {
	return tx.Create(a).Error
}

func (r *liquidacionRepo) FindAjustesByIDsTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.AjusteSaldo, error) {
	out := make(map[uuid.UUID]*model.AjusteSaldo, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var list []model.AjusteSaldo
	if err := tx.Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

func (r *liquidacionRepo) AplicarAjusteTx(tx *gorm.DB, id, liquidacionID uuid.UUID) (int64, error) {
	res := tx.Model(&model.AjusteSaldo{}).
		Where("id = ? AND aplicado = ?", id, false).
		Updates(map[string]any{"aplicado": true, "liquidacion_id": liquidacionID})
	return res.RowsAffected, res.Error
}

func (r *liquidacionRepo) AjustesPendientes(ctx context.Context, proveedorID uuid.UUID) ([]model.AjusteSaldo, error) {
	var list []model.AjusteSaldo
	err := r.db.WithContext(ctx).
		Where("proveedor_id = ? AND aplicado = ?", proveedorID, false).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
