package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation.
type ProductoRepository interface {
	CreateTx(tx *gorm.DB, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	// Archivar deactivates the product only when none of its variants holds stock.
	Archivar(ctx context.Context, id uuid.UUID) (bool, error)
	Reactivar(ctx context.Context, id uuid.UUID) error
	TieneVentas(ctx context.Context, id uuid.UUID) (bool, error)
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) CreateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("Variantes", func(db *gorm.DB) *gorm.DB { return db.Order("nombre ASC") }).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *productoRepo) Archivar(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE productos SET activo = false, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		  AND NOT EXISTS (SELECT 1 FROM variantes WHERE producto_id = ? AND stock > 0)`,
		id, id)
	return res.RowsAffected == 1, res.Error
}

func (r *productoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *productoRepo) TieneVentas(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.VentaItem{}).
		Joins("JOIN variantes ON variantes.id = venta_items.variante_id").
		Where("variantes.producto_id = ?", id).
		Limit(1).Count(&n).Error
	return n > 0, err
}

// ── Variantes ─────────────────────────────────────────────────────────────────

// VarianteRepository owns the stock column. Only the inventory ledger calls
// the *StockTx methods.
type VarianteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Variante, error)
	FindByIDsTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.Variante, error)
	IncrementarStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) (int64, error)
	// DescontarStockTx decrements only while stock >= cantidad; zero rows means
	// insufficient stock (or a missing variant).
	DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) (int64, error)
	StockTx(tx *gorm.DB, id uuid.UUID) (int, error)
}

type varianteRepo struct{ db *gorm.DB }

func NewVarianteRepository(db *gorm.DB) VarianteRepository { return &varianteRepo{db: db} }

func (r *varianteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Variante, error) {
	var v model.Variante
	if err := r.db.WithContext(ctx).Preload("Producto").First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *varianteRepo) FindByIDsTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.Variante, error) {
	out := make(map[uuid.UUID]*model.Variante, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var list []model.Variante
	if err := tx.Preload("Producto").Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

func (r *varianteRepo) IncrementarStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) (int64, error) {
	res := tx.Model(&model.Variante{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", cantidad))
	return res.RowsAffected, res.Error
}

func (r *varianteRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) (int64, error) {
	res := tx.Model(&model.Variante{}).Where("id = ? AND stock >= ?", id, cantidad).
		Update("stock", gorm.Expr("stock - ?", cantidad))
	return res.RowsAffected, res.Error
}

func (r *varianteRepo) StockTx(tx *gorm.DB, id uuid.UUID) (int, error) {
	var v model.Variante
	if err := tx.Select("stock").First(&v, "id = ?", id).Error; err != nil {
		return 0, err
	}
	return v.Stock, nil
}
