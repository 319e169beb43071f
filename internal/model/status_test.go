package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitions(t *testing.T) {
	allowed := map[[2]OrderStatus]bool{
		{StatusPendiente, StatusConfirmado}:     true,
		{StatusPendiente, StatusCancelado}:      true,
		{StatusPendientePago, StatusConfirmado}: true,
		{StatusPendientePago, StatusCancelado}:  true,
		{StatusConfirmado, StatusPreparando}:    true,
		{StatusConfirmado, StatusCancelado}:     true,
		{StatusPreparando, StatusEnviado}:       true,
		{StatusPreparando, StatusCancelado}:     true,
		{StatusEnviado, StatusEntregado}:        true,
		{StatusEnviado, StatusCancelado}:        true,
	}
	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			got := from.CanTransitionTo(to)
			assert.Equal(t, allowed[[2]OrderStatus{from, to}], got, "%s -> %s", from, to)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StatusEntregado.Terminal())
	assert.True(t, StatusCancelado.Terminal())
	for _, s := range []OrderStatus{StatusPendiente, StatusPendientePago, StatusConfirmado, StatusPreparando, StatusEnviado} {
		assert.False(t, s.Terminal(), "%s no es terminal", s)
	}
	// De un estado terminal no se sale, ni siquiera a cancelado.
	assert.False(t, StatusEntregado.CanTransitionTo(StatusCancelado))
	assert.False(t, StatusCancelado.CanTransitionTo(StatusPendiente))
}

func TestValid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, OrderStatus("enviando").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestDeletable(t *testing.T) {
	assert.True(t, StatusPendiente.Deletable())
	assert.True(t, StatusPendientePago.Deletable())
	assert.True(t, StatusCancelado.Deletable())
	for _, s := range []OrderStatus{StatusConfirmado, StatusPreparando, StatusEnviado, StatusEntregado} {
		assert.False(t, s.Deletable(), "%s no es borrable", s)
	}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusPendientePago, InitialStatus(PagoBizum))
	for _, m := range []PaymentMethod{PagoTarjeta, PagoTransferencia, PagoEfectivo, PagoContraReembolso} {
		assert.Equal(t, StatusPendiente, InitialStatus(m), "%s arranca en pendiente", m)
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range []PaymentMethod{PagoTarjeta, PagoTransferencia, PagoEfectivo, PagoContraReembolso, PagoBizum} {
		assert.True(t, m.Valid())
	}
	assert.False(t, PaymentMethod("paypal").Valid())
	assert.False(t, PaymentMethod("").Valid())
}
