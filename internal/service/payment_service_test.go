package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"carniceria/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// payFixture monta un pedido Bizum listo para pagar con relojes
// compartidos entre los dos servicios.
type payFixture struct {
	db       *gorm.DB
	orders   *OrderService
	payments *PaymentService
	order    *model.Order
	producto *model.Product
	clock    time.Time
}

func newPayFixture(t *testing.T) *payFixture {
	t.Helper()
	db := testDB(t)
	f := &payFixture{db: db, clock: testDay}
	now := func() time.Time { return f.clock }
	f.orders = NewOrderService(db, nil).WithClock(now)
	f.payments = NewPaymentService(db, f.orders, 120*time.Second, 15*time.Second).WithClock(now)

	f.producto = seedProduct(t, db, "Ternera", "12.50", 10)
	req := checkoutReq(CheckoutItem{ProductoID: f.producto.ID, Cantidad: qty("2")})
	req.MetodoPago = model.PagoBizum
	order, err := f.orders.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	f.order = order
	return f
}

func (f *payFixture) createPayment(t *testing.T) *BizumResponse {
	t.Helper()
	resp, err := f.payments.CreatePayment(context.Background(), BizumRequest{
		Telefono:     "612 34 56 78",
		Importe:      qty("25.00"),
		Nombre:       "María García",
		CodigoPedido: f.order.CodigoPedido,
	})
	require.NoError(t, err)
	return resp
}

func (f *payFixture) reloadOrder(t *testing.T) *model.Order {
	t.Helper()
	order, err := f.orders.GetOrder(context.Background(), f.order.ID)
	require.NoError(t, err)
	return order
}

func TestCreatePayment(t *testing.T) {
	f := newPayFixture(t)
	resp := f.createPayment(t)

	assert.True(t, strings.HasPrefix(resp.PaymentID, "BIZ-"), "id %s", resp.PaymentID)
	assert.Equal(t, string(model.BizumPending), resp.Status)
	assert.Equal(t, "+34612345678", resp.Telefono)
	assert.Equal(t, f.order.CodigoPedido, resp.CodigoPedido)
	assert.Equal(t, 120, resp.ExpirySeconds)
	assert.Equal(t, 5000, resp.CheckIntervalMS)

	order := f.reloadOrder(t)
	assert.Equal(t, model.StatusPendientePago, order.Estado)
	assert.Equal(t, resp.PaymentID, order.PaymentID)
	assert.Equal(t, "612345678", order.TelefonoBizum)
	assert.Equal(t, model.PaymentStatusPendingBizum, order.PaymentStatus)
}

func TestCreatePaymentValidation(t *testing.T) {
	f := newPayFixture(t)

	cases := map[string]BizumRequest{
		"sin nombre":      {Telefono: "612345678", Importe: qty("25.00"), CodigoPedido: f.order.CodigoPedido},
		"teléfono inválido": {Telefono: "512345678", Importe: qty("25.00"), Nombre: "María", CodigoPedido: f.order.CodigoPedido},
		"importe bajo":    {Telefono: "612345678", Importe: qty("0.40"), Nombre: "María", CodigoPedido: f.order.CodigoPedido},
		"importe alto":    {Telefono: "612345678", Importe: qty("1500"), Nombre: "María", CodigoPedido: f.order.CodigoPedido},
		"sin código":      {Telefono: "612345678", Importe: qty("25.00"), Nombre: "María"},
	}
	for name, req := range cases {
		_, err := f.payments.CreatePayment(context.Background(), req)
		require.Error(t, err, name)
		assert.True(t, IsValidation(err), name)
	}

	_, err := f.payments.CreatePayment(context.Background(), BizumRequest{
		Telefono: "612345678", Importe: qty("25.00"), Nombre: "María", CodigoPedido: "PED-19990101-0001",
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestCheckStatusPendingBeforeDelay(t *testing.T) {
	f := newPayFixture(t)
	resp := f.createPayment(t)

	f.clock = f.clock.Add(5 * time.Second)
	res, err := f.payments.CheckStatus(context.Background(), resp.PaymentID, "")
	require.NoError(t, err)
	assert.Equal(t, model.BizumPending, res.Status)
	require.NotNil(t, res.NextCheck)
	assert.Equal(t, 5000, *res.NextCheck)

	// Sondear no resuelve nada: el pedido sigue a la espera.
	assert.Equal(t, model.StatusPendientePago, f.reloadOrder(t).Estado)
}

func TestCheckStatusCompletedConfirmsOrder(t *testing.T) {
	f := newPayFixture(t)
	f.payments.WithOutcome(func() model.BizumStatus { return model.BizumCompleted })
	resp := f.createPayment(t)

	f.clock = f.clock.Add(16 * time.Second)
	res, err := f.payments.CheckStatus(context.Background(), resp.PaymentID, "")
	require.NoError(t, err)
	assert.Equal(t, model.BizumCompleted, res.Status)
	assert.Nil(t, res.NextCheck)

	order := f.reloadOrder(t)
	assert.Equal(t, model.StatusConfirmado, order.Estado)
	assert.True(t, order.Pagado)
	require.NotNil(t, order.FechaPago)
	firstPaidAt := *order.FechaPago

	// Nuevos sondeos devuelven el estado almacenado sin reaplicar nada.
	f.clock = f.clock.Add(10 * time.Minute)
	res, err = f.payments.CheckStatus(context.Background(), resp.PaymentID, "")
	require.NoError(t, err)
	assert.Equal(t, model.BizumCompleted, res.Status)
	order = f.reloadOrder(t)
	assert.Equal(t, firstPaidAt.Unix(), order.FechaPago.Unix())
}

func TestCheckStatusFailedKeepsOrderWaiting(t *testing.T) {
	f := newPayFixture(t)
	f.payments.WithOutcome(func() model.BizumStatus { return model.BizumFailed })
	resp := f.createPayment(t)

	f.clock = f.clock.Add(16 * time.Second)
	res, err := f.payments.CheckStatus(context.Background(), resp.PaymentID, "")
	require.NoError(t, err)
	assert.Equal(t, model.BizumFailed, res.Status)

	// Pedido Bizum rechazado: queda esperando un reintento, con el
	// stock reservado intacto.
	order := f.reloadOrder(t)
	assert.Equal(t, model.StatusPendientePago, order.Estado)
	assert.Equal(t, model.PaymentStatusFailed, order.PaymentStatus)
	assert.False(t, order.Pagado)
	assert.Equal(t, 8, productStock(t, f.db, f.producto.ID))
}

func TestCheckStatusExpired(t *testing.T) {
	f := newPayFixture(t)
	resp := f.createPayment(t)

	f.clock = f.clock.Add(121 * time.Second)
	res, err := f.payments.CheckStatus(context.Background(), resp.PaymentID, "")
	require.NoError(t, err)
	assert.Equal(t, model.BizumExpired, res.Status)

	order := f.reloadOrder(t)
	assert.Equal(t, model.StatusPendientePago, order.Estado)
	assert.False(t, order.Pagado)

	// La expiración es definitiva aunque el desenlace hubiera sido otro.
	f.clock = f.clock.Add(time.Second)
	res, err = f.payments.CheckStatus(context.Background(), resp.PaymentID, "completed")
	require.NoError(t, err)
	assert.Equal(t, model.BizumExpired, res.Status)
}

func TestCheckStatusSimulate(t *testing.T) {
	f := newPayFixture(t)
	resp := f.createPayment(t)

	// simulate fuerza el desenlace sin esperar al retardo.
	res, err := f.payments.CheckStatus(context.Background(), resp.PaymentID, "completed")
	require.NoError(t, err)
	assert.Equal(t, model.BizumCompleted, res.Status)
	assert.Equal(t, model.StatusConfirmado, f.reloadOrder(t).Estado)
}

func TestCheckStatusSimulateUnknownValue(t *testing.T) {
	f := newPayFixture(t)
	resp := f.createPayment(t)

	_, err := f.payments.CheckStatus(context.Background(), resp.PaymentID, "maybe")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCheckStatusBadReference(t *testing.T) {
	f := newPayFixture(t)

	_, err := f.payments.CheckStatus(context.Background(), "PAY-123", "")
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = f.payments.CheckStatus(context.Background(), "BIZ-NOEXISTE", "")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestNewBizumID(t *testing.T) {
	id := newBizumID(testDay)
	assert.True(t, strings.HasPrefix(id, "BIZ-"))
	assert.Equal(t, id, strings.ToUpper(id))
	assert.NotEqual(t, id, newBizumID(testDay), "dos referencias no colisionan")
}
