package dao

import (
	"context"
	"errors"

	"carniceria/internal/model"

	"gorm.io/gorm"
)

// ErrInsufficientStock se devuelve cuando una reserva no cabe en el
// stock disponible del producto.
var ErrInsufficientStock = errors.New("stock insuficiente")

type ProductDao struct {
	db *gorm.DB
}

func NewProductDao(db *gorm.DB) *ProductDao {
	return &ProductDao{db: db}
}

// WithTx devuelve una copia del dao ligada a la transacción dada.
func (d *ProductDao) WithTx(tx *gorm.DB) *ProductDao {
	return &ProductDao{db: tx}
}

func (d *ProductDao) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	if err := d.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListActive devuelve productos activos, opcionalmente por categoría.
func (d *ProductDao) ListActive(ctx context.Context, categoria string) ([]model.Product, error) {
	q := d.db.WithContext(ctx).Where("activo = ?", true)
	if categoria != "" {
		q = q.Where("categoria = ?", categoria)
	}
	var list []model.Product
	err := q.Order("destacado DESC, nombre ASC").Find(&list).Error
	return list, err
}

// ReserveStock descuenta qty unidades de forma atómica. La condición
// stock >= qty dentro del propio UPDATE evita lecturas sucias y carreras
// entre checkouts concurrentes: si no afecta filas, no había stock.
func (d *ProductDao) ReserveStock(ctx context.Context, productID uint, qty int) error {
	res := d.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// RestoreStock repone qty unidades sin tope superior.
func (d *ProductDao) RestoreStock(ctx context.Context, productID uint, qty int) error {
	return d.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}

func (d *ProductDao) Create(ctx context.Context, p *model.Product) error {
	return d.db.WithContext(ctx).Create(p).Error
}

func (d *ProductDao) Update(ctx context.Context, p *model.Product) error {
	return d.db.WithContext(ctx).Save(p).Error
}

// SetStock fija el stock absoluto de un producto (ajuste de admin).
func (d *ProductDao) SetStock(ctx context.Context, productID uint, stock int) error {
	res := d.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", stock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
