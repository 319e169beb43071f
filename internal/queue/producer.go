package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer envuelve el writer de Kafka para eventos de pedido.
type Producer struct {
	w *kafka.Writer
}

// NewProducer configura el writer:
// - Hash + key por código de pedido: los eventos de un mismo pedido
//   caen en la misma partición y conservan el orden.
// - RequireAll: espera confirmación de las réplicas ISR.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  5,
			WriteTimeout: 5 * time.Second,
			ReadTimeout:  5 * time.Second,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *Producer) Close() error { return p.w.Close() }

// Publish escribe un evento de pedido de forma síncrona.
func (p *Producer) Publish(ctx context.Context, evt OrderEvent) error {
	if err := evt.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.CodigoPedido),
		Value: b,
	})
}
