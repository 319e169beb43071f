package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"carniceria/internal/dao"
	"carniceria/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Notifier consume eventos de pedido y "envía" las notificaciones
// (registro en log, igual que el bot de WhatsApp de la tienda), marcando
// notificacion_enviada de forma idempotente.
type Notifier struct {
	r      *kafka.Reader
	orders *dao.OrderDao
}

func NewNotifier(brokers []string, topic, groupID string, orders *dao.OrderDao) *Notifier {
	return &Notifier{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1e3,
			MaxBytes: 1e6,
		}),
		orders: orders,
	}
}

func (n *Notifier) Close() error { return n.r.Close() }

func (n *Notifier) Run(ctx context.Context) {
	for {
		m, err := n.r.ReadMessage(ctx)
		if err != nil {
			return // ctx cancelado o conexión caída
		}

		var evt OrderEvent
		if err := json.Unmarshal(m.Value, &evt); err != nil {
			logger.Warn("notifier: mensaje ilegible", "err", err)
			continue
		}
		if err := n.Handle(ctx, evt); err != nil {
			logger.Error("notifier: evento no procesado", "event_id", evt.EventID, "err", err)
		}
	}
}

// Handle procesa un evento. Los duplicados de order.created se detectan
// por el flag notificacion_enviada y se descartan sin reenviar.
func (n *Notifier) Handle(ctx context.Context, evt OrderEvent) error {
	if err := evt.Validate(); err != nil {
		logger.Warn("notifier: evento inválido, descartado", "err", err)
		return nil
	}

	switch evt.Type {
	case EventOrderCreated:
		first, err := n.orders.MarkNotified(ctx, evt.CodigoPedido)
		if err != nil {
			return err
		}
		if !first {
			logger.Debug("notifier: notificación ya enviada", "codigo", evt.CodigoPedido)
			return nil
		}
		logger.Info("whatsapp: nuevo pedido",
			"para", evt.Telefono,
			"mensaje", nuevoPedidoMsg(evt),
		)
	case EventOrderStatusChanged, EventOrderPaid:
		logger.Info("whatsapp: actualización de pedido",
			"para", evt.Telefono,
			"mensaje", fmt.Sprintf("Hola %s, tu pedido %s está %s.", evt.Cliente, evt.CodigoPedido, evt.Estado),
		)
	}
	return nil
}

func nuevoPedidoMsg(evt OrderEvent) string {
	return fmt.Sprintf(
		"NUEVO PEDIDO %s — Cliente: %s (%s) — Total: %s€. ¡Gracias por tu pedido! Te contactaremos pronto.",
		evt.CodigoPedido, evt.Cliente, evt.Telefono, evt.Total,
	)
}
