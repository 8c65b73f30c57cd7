package order

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

// Publisher announces placed orders to the kitchen side.
type Publisher interface {
	PublishOrder(ctx context.Context, r Receipt) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes one message per receipt, keyed by order id.
type KafkaPublisher struct {
	Writer messageWriter
}

func NewKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

// NewKafkaWriter builds the writer used in production for one topic.
func NewKafkaWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func (p *KafkaPublisher) PublishOrder(ctx context.Context, r Receipt) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "encode receipt")
	}
	if err := p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(r.OrderID),
		Value: payload,
	}); err != nil {
		return errors.Wrap(err, "publish order")
	}
	return nil
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrder(context.Context, Receipt) error { return nil }
