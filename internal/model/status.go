package model

// OrderStatus es el estado de un pedido dentro de su ciclo de vida.
type OrderStatus string

const (
	StatusPendiente     OrderStatus = "pendiente"      // creado, pendiente de procesar
	StatusPendientePago OrderStatus = "pendiente_pago" // esperando confirmación de pago Bizum
	StatusConfirmado    OrderStatus = "confirmado"
	StatusPreparando    OrderStatus = "preparando"
	StatusEnviado       OrderStatus = "enviado"
	StatusEntregado     OrderStatus = "entregado" // terminal
	StatusCancelado     OrderStatus = "cancelado" // terminal
)

// transitions define el conjunto de estados siguientes permitidos.
// cancelado es alcanzable desde cualquier estado no terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPendiente:     {StatusConfirmado, StatusCancelado},
	StatusPendientePago: {StatusConfirmado, StatusCancelado},
	StatusConfirmado:    {StatusPreparando, StatusCancelado},
	StatusPreparando:    {StatusEnviado, StatusCancelado},
	StatusEnviado:       {StatusEntregado, StatusCancelado},
	StatusEntregado:     {},
	StatusCancelado:     {},
}

// AllStatuses lista los estados reconocidos, en orden de ciclo de vida.
var AllStatuses = []OrderStatus{
	StatusPendiente,
	StatusPendientePago,
	StatusConfirmado,
	StatusPreparando,
	StatusEnviado,
	StatusEntregado,
	StatusCancelado,
}

// deletableStatuses: un pedido que alcanzó confirmado o posterior ya no
// puede eliminarse, solo cancelarse.
var deletableStatuses = map[OrderStatus]bool{
	StatusPendiente:     true,
	StatusPendientePago: true,
	StatusCancelado:     true,
}

func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo comprueba si s -> target está permitido.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, n := range transitions[s] {
		if n == target {
			return true
		}
	}
	return false
}

// AllowedNext devuelve los estados alcanzables desde s.
func (s OrderStatus) AllowedNext() []OrderStatus {
	next := transitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// Deletable indica si un pedido en este estado puede eliminarse.
func (s OrderStatus) Deletable() bool {
	return deletableStatuses[s]
}

// PaymentMethod es el método de pago elegido en el checkout.
type PaymentMethod string

const (
	PagoTarjeta         PaymentMethod = "tarjeta"
	PagoTransferencia   PaymentMethod = "transferencia"
	PagoEfectivo        PaymentMethod = "efectivo"
	PagoContraReembolso PaymentMethod = "contra_reembolso"
	PagoBizum           PaymentMethod = "bizum"
)

var paymentMethods = map[PaymentMethod]bool{
	PagoTarjeta:         true,
	PagoTransferencia:   true,
	PagoEfectivo:        true,
	PagoContraReembolso: true,
	PagoBizum:           true,
}

func (m PaymentMethod) Valid() bool {
	return paymentMethods[m]
}

// InitialStatus devuelve el estado inicial de un pedido según el método
// de pago: Bizum espera confirmación externa, el resto entra pendiente.
func InitialStatus(m PaymentMethod) OrderStatus {
	if m == PagoBizum {
		return StatusPendientePago
	}
	return StatusPendiente
}

// Order payment_status values.
const (
	PaymentStatusPendingBizum = "pending_bizum"
	PaymentStatusCompleted    = "completed"
	PaymentStatusFailed       = "failed"
)
