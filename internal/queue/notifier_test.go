package queue

import (
	"context"
	"testing"

	"carniceria/internal/dao"
	"carniceria/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testOrderDao(t *testing.T) (*dao.OrderDao, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.Order{}, &model.OrderItem{}))
	return dao.NewOrderDao(db), db
}

func TestHandleOrderCreatedIdempotent(t *testing.T) {
	orders, db := testOrderDao(t)
	require.NoError(t, db.Create(&model.Order{
		CodigoPedido:    "PED-20250901-0001",
		ClienteNombre:   "María",
		ClienteTelefono: "612345678",
		Estado:          model.StatusPendiente,
		MetodoPago:      model.PagoEfectivo,
	}).Error)

	n := &Notifier{orders: orders}
	evt := OrderEvent{
		EventID:      "evt-1",
		Type:         EventOrderCreated,
		CodigoPedido: "PED-20250901-0001",
		Cliente:      "María",
		Telefono:     "612345678",
		Total:        "25.00",
	}

	require.NoError(t, n.Handle(context.Background(), evt))
	var order model.Order
	require.NoError(t, db.Where("codigo_pedido = ?", evt.CodigoPedido).First(&order).Error)
	assert.True(t, order.NotificacionEnviada)

	// El mismo evento redelivered no reenvía ni falla.
	require.NoError(t, n.Handle(context.Background(), evt))
}

func TestHandleDiscardsInvalidEvents(t *testing.T) {
	orders, _ := testOrderDao(t)
	n := &Notifier{orders: orders}

	// Eventos sucios se descartan sin error para no bloquear el consumo.
	assert.NoError(t, n.Handle(context.Background(), OrderEvent{}))
	assert.NoError(t, n.Handle(context.Background(), OrderEvent{
		EventID: "evt-2", Type: "order.exploded", CodigoPedido: "PED-20250901-0001",
	}))
}

func TestOrderEventValidate(t *testing.T) {
	valid := OrderEvent{EventID: "evt-1", Type: EventOrderPaid, CodigoPedido: "PED-20250901-0001"}
	assert.NoError(t, valid.Validate())

	for name, evt := range map[string]OrderEvent{
		"sin event_id": {Type: EventOrderCreated, CodigoPedido: "PED-20250901-0001"},
		"tipo raro":    {EventID: "e", Type: "nope", CodigoPedido: "PED-20250901-0001"},
		"sin código":   {EventID: "e", Type: EventOrderCreated},
	} {
		assert.Error(t, evt.Validate(), name)
	}
}
