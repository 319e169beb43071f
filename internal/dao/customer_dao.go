package dao

import (
	"context"

	"carniceria/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerDao struct {
	db *gorm.DB
}

func NewCustomerDao(db *gorm.DB) *CustomerDao {
	return &CustomerDao{db: db}
}

func (d *CustomerDao) Create(ctx context.Context, c *model.Customer) error {
	return d.db.WithContext(ctx).Create(c).Error
}

func (d *CustomerDao) GetByID(ctx context.Context, id uint) (*model.Customer, error) {
	var c model.Customer
	if err := d.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (d *CustomerDao) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var c model.Customer
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// AddPurchase acumula un pedido más y su importe en las estadísticas
// del cliente.
func (d *CustomerDao) AddPurchase(ctx context.Context, customerID uint, amount decimal.Decimal) error {
	return d.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]any{
			"total_pedidos": gorm.Expr("total_pedidos + 1"),
			"total_gastado": gorm.Expr("total_gastado + ?", amount),
		}).Error
}
