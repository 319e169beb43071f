package dao

import (
	"context"
	"errors"
	"time"

	"carniceria/internal/model"
	"carniceria/internal/ordercode"

	"gorm.io/gorm"
)

// ErrOrderStatusChanged indica que el estado del pedido cambió entre la
// lectura y la escritura condicionada (actualización concurrente).
var ErrOrderStatusChanged = errors.New("el estado del pedido ha cambiado")

type OrderDao struct {
	db *gorm.DB
}

func NewOrderDao(db *gorm.DB) *OrderDao {
	return &OrderDao{db: db}
}

// WithTx devuelve una copia del dao ligada a la transacción dada.
func (d *OrderDao) WithTx(tx *gorm.DB) *OrderDao {
	return &OrderDao{db: tx}
}

// NextCode calcula el siguiente código de pedido del día leyendo el
// máximo comprometido. Debe ejecutarse dentro de la misma transacción
// que crea el pedido; la restricción UNIQUE de codigo_pedido cubre la
// carrera entre checkouts concurrentes (el llamante reintenta).
func (d *OrderDao) NextCode(ctx context.Context, date time.Time) (string, error) {
	var last model.Order
	err := d.db.WithContext(ctx).
		Where("codigo_pedido LIKE ?", ordercode.DayPrefix(date)+"%").
		Order("codigo_pedido DESC").
		First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ordercode.Next("", date)
		}
		return "", err
	}
	return ordercode.Next(last.CodigoPedido, date)
}

func (d *OrderDao) Create(ctx context.Context, order *model.Order) error {
	return d.db.WithContext(ctx).Create(order).Error
}

func (d *OrderDao) CreateItem(ctx context.Context, item *model.OrderItem) error {
	return d.db.WithContext(ctx).Create(item).Error
}

func (d *OrderDao) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := d.db.WithContext(ctx).Preload("Items").Preload("Items.Producto").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *OrderDao) GetByCode(ctx context.Context, code string) (*model.Order, error) {
	var order model.Order
	err := d.db.WithContext(ctx).Preload("Items").
		Where("codigo_pedido = ?", code).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *OrderDao) GetByPaymentID(ctx context.Context, paymentID string) (*model.Order, error) {
	var order model.Order
	err := d.db.WithContext(ctx).Preload("Items").
		Where("payment_id = ?", paymentID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *OrderDao) GetItems(ctx context.Context, orderID uint) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := d.db.WithContext(ctx).Where("pedido_id = ?", orderID).Find(&items).Error
	return items, err
}

// ListFilter son los filtros del listado de administración.
type ListFilter struct {
	Estado model.OrderStatus
	Search string // busca en código, nombre, email y teléfono
	Page   int
	Limit  int
}

// List devuelve pedidos paginados, los más recientes primero.
func (d *OrderDao) List(ctx context.Context, f ListFilter) ([]model.Order, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	q := d.db.WithContext(ctx).Model(&model.Order{})
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where(
			"codigo_pedido LIKE ? OR cliente_nombre LIKE ? OR cliente_email LIKE ? OR cliente_telefono LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := q.Order("created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&orders).Error
	return orders, total, err
}

// UpdateStatus pasa el pedido de fromStatus a toStatus de forma
// condicionada: si otra petición ganó la carrera no afecta filas.
func (d *OrderDao) UpdateStatus(ctx context.Context, orderID uint, fromStatus, toStatus model.OrderStatus, updates map[string]any) error {
	if updates == nil {
		updates = map[string]any{}
	}
	updates["estado"] = toStatus

	res := d.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND estado = ?", orderID, fromStatus).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderStatusChanged
	}
	return nil
}

// MarkPaid confirma el pago de forma idempotente: solo la primera
// llamada (pagado = false) escribe fecha_pago y cambia el estado.
func (d *OrderDao) MarkPaid(ctx context.Context, paymentID string, paidAt time.Time) (bool, error) {
	res := d.db.WithContext(ctx).Model(&model.Order{}).
		Where("payment_id = ? AND pagado = ?", paymentID, false).
		Where("estado IN ?", []model.OrderStatus{model.StatusPendiente, model.StatusPendientePago}).
		Updates(map[string]any{
			"estado":         model.StatusConfirmado,
			"pagado":         true,
			"fecha_pago":     paidAt,
			"payment_status": model.PaymentStatusCompleted,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete elimina el pedido y sus items en una transacción. El control
// de estados permitidos es responsabilidad del servicio.
func (d *OrderDao) Delete(ctx context.Context, orderID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pedido_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Order{}, orderID).Error
	})
}

// MarkNotified marca la notificación como enviada. Devuelve false si ya
// estaba marcada (mensaje duplicado).
func (d *OrderDao) MarkNotified(ctx context.Context, code string) (bool, error) {
	res := d.db.WithContext(ctx).Model(&model.Order{}).
		Where("codigo_pedido = ? AND notificacion_enviada = ?", code, false).
		UpdateColumn("notificacion_enviada", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// StatusCount agrupa pedidos por estado con su importe acumulado.
type StatusCount struct {
	Estado model.OrderStatus `json:"estado"`
	Count  int64             `json:"count"`
	Total  float64           `json:"total"`
}

// Stats devuelve el recuento e importe por estado.
func (d *OrderDao) Stats(ctx context.Context) ([]StatusCount, error) {
	var stats []StatusCount
	err := d.db.WithContext(ctx).Model(&model.Order{}).
		Select("estado, COUNT(id) AS count, COALESCE(SUM(total), 0) AS total").
		Group("estado").
		Scan(&stats).Error
	return stats, err
}
