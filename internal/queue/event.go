package queue

import "fmt"

// Tipos de evento de pedido publicados en Kafka.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderPaid          = "order.paid"
)

// OrderEvent es el evento que consume el notificador para avisar al
// cliente y a la tienda (WhatsApp/email simulados).
type OrderEvent struct {
	EventID      string `json:"event_id"`
	Type         string `json:"type"`
	CodigoPedido string `json:"codigo_pedido"`
	Estado       string `json:"estado"`
	Cliente      string `json:"cliente"`
	Telefono     string `json:"telefono"`
	Email        string `json:"email,omitempty"`
	Total        string `json:"total"`
	OccurredAt   int64  `json:"occurred_at"`
}

// Validate hace la comprobación mínima para no procesar mensajes sucios.
func (e OrderEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	switch e.Type {
	case EventOrderCreated, EventOrderStatusChanged, EventOrderPaid:
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.CodigoPedido == "" {
		return fmt.Errorf("codigo_pedido is required")
	}
	return nil
}
