package dao

import (
	"context"
	"time"

	"carniceria/internal/model"

	"gorm.io/gorm"
)

type BizumDao struct {
	db *gorm.DB
}

func NewBizumDao(db *gorm.DB) *BizumDao {
	return &BizumDao{db: db}
}

func (d *BizumDao) Create(ctx context.Context, p *model.BizumPayment) error {
	return d.db.WithContext(ctx).Create(p).Error
}

func (d *BizumDao) GetByPaymentID(ctx context.Context, paymentID string) (*model.BizumPayment, error) {
	var p model.BizumPayment
	err := d.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Resolve fija el estado final de la referencia de forma condicionada:
// solo una transición PENDING -> final escribe. Devuelve false si otra
// petición la resolvió antes.
func (d *BizumDao) Resolve(ctx context.Context, paymentID string, to model.BizumStatus, at time.Time) (bool, error) {
	res := d.db.WithContext(ctx).Model(&model.BizumPayment{}).
		Where("payment_id = ? AND estado = ?", paymentID, model.BizumPending).
		Updates(map[string]any{
			"estado":      to,
			"resuelto_en": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
