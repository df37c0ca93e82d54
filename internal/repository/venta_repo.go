package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

// VentaFilter narrows GET /v1/ventas. Hasta is exclusive.
type VentaFilter struct {
	Desde     *time.Time
	Hasta     *time.Time
	Estado    string
	ClienteID *uuid.UUID
	Page      int
	Limit     int
}

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// FindByIDTx loads items with their variant and product (owner, unit of measure).
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	// AnularTx flips COMPLETED → CANCELLED; zero rows means it was already cancelled.
	AnularTx(tx *gorm.DB, id uuid.UUID) (int64, error)
	List(ctx context.Context, filter VentaFilter) ([]model.Venta, int64, error)

	// Customer payments
	RegistrarPagoTx(tx *gorm.DB, id uuid.UUID, monto decimal.Decimal) (int64, error)
	CreateCobroTx(tx *gorm.DB, c *model.Cobro) error
	SaldoCliente(ctx context.Context, clienteID uuid.UUID) (decimal.Decimal, int64, error)

	// Sale lines, as seen by settlements
	FindItemsByIDsTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.VentaItem, error)
	// LiquidarItemTx adds cantidad to cantidad_liquidada only while the sum stays <= cantidad.
	LiquidarItemTx(tx *gorm.DB, id uuid.UUID, cantidad int) (int64, error)
	ItemsPendientes(ctx context.Context, proveedorID uuid.UUID) ([]model.VentaItem, error)

	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *ventaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := tx.Preload("Items.Variante.Producto").First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) AnularTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Model(&model.Venta{}).
		Where("id = ? AND estado = ?", id, model.VentaCompletada).
		Update("estado", model.VentaAnulada)
	return res.RowsAffected, res.Error
}

func (r *ventaRepo) List(ctx context.Context, filter VentaFilter) ([]model.Venta, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Desde != nil {
		q = q.Where("created_at >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		q = q.Where("created_at < ?", *filter.Hasta)
	}
	if filter.ClienteID != nil {
		q = q.Where("cliente_id = ?", *filter.ClienteID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizarPagina(filter.Page, filter.Limit)
	var ventas []model.Venta
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&ventas).Error
	return ventas, total, err
}

// ── Cobros ────────────────────────────────────────────────────────────────────

func (r *ventaRepo) RegistrarPagoTx(tx *gorm.DB, id uuid.UUID, monto decimal.Decimal) (int64, error) {
	res := tx.Model(&model.Venta{}).
		Where("id = ? AND estado = ? AND monto_pagado + ? <= total", id, model.VentaCompletada, monto).
		Updates(map[string]any{
			"monto_pagado": gorm.Expr("monto_pagado + ?", monto),
			"estado_pago": gorm.Expr("CASE WHEN monto_pagado + ? >= total THEN ? ELSE ? END",
				monto, model.EstadoPagoPagado, model.EstadoPagoParcial),
		})
	return res.RowsAffected, res.Error
}

func (r *ventaRepo) CreateCobroTx(tx *gorm.DB, c *model.Cobro) error {
	return tx.Create(c).Error
}

func (r *ventaRepo) SaldoCliente(ctx context.Context, clienteID uuid.UUID) (decimal.Decimal, int64, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Select("id", "total", "monto_pagado").
		Where("cliente_id = ? AND estado = ? AND estado_pago <> ?", clienteID, model.VentaCompletada, model.EstadoPagoPagado).
		Find(&ventas).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	saldo := decimal.Zero
	for i := range ventas {
		saldo = saldo.Add(ventas[i].Saldo())
	}
	return saldo, int64(len(ventas)), nil
}

// ── Items ─────────────────────────────────────────────────────────────────────

func (r *ventaRepo) FindItemsByIDsTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.VentaItem, error) {
	out := make(map[uuid.UUID]*model.VentaItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []model.VentaItem
	err := tx.Preload("Venta").Preload("Variante.Producto").
		Where("id IN ?", ids).Find(&items).Error
	if err != nil {
		return nil, err
	}
	for i := range items {
		out[items[i].ID] = &items[i]
	}
	return out, nil
}

func (r *ventaRepo) LiquidarItemTx(tx *gorm.DB, id uuid.UUID, cantidad int) (int64, error) {
	res := tx.Model(&model.VentaItem{}).
		Where("id = ? AND cantidad_liquidada + ? <= cantidad", id, cantidad).
		Update("cantidad_liquidada", gorm.Expr("cantidad_liquidada + ?", cantidad))
	return res.RowsAffected, res.Error
}

func (r *ventaRepo) ItemsPendientes(ctx context.Context, proveedorID uuid.UUID) ([]model.VentaItem, error) {
	var items []model.VentaItem
	err := r.db.WithContext(ctx).
		Joins("JOIN ventas ON ventas.id = venta_items.venta_id").
		Joins("JOIN variantes ON variantes.id = venta_items.variante_id").
		Joins("JOIN productos ON productos.id = variantes.producto_id").
		Where("productos.proveedor_id = ?", proveedorID).
		Where("ventas.estado = ? AND ventas.estado_pago = ?", model.VentaCompletada, model.EstadoPagoPagado).
		Where("venta_items.cantidad_liquidada < venta_items.cantidad").
		Preload("Venta").Preload("Variante.Producto").
		Order("ventas.created_at ASC").
		Find(&items).Error
	return items, err
}
