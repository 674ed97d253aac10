package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/sheikh-saqib/statement-ledger/internal/interfaces"
)

// Publisher writes JSON events to Kafka. The topic is chosen per message so one
// writer serves every event type.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

// keyed is implemented by events that should be partitioned by a key.
type keyed interface {
	PartitionKey() string
}

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	msg, err := newMessage(topic, event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func newMessage(topic string, event any) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}

	msg := kafka.Message{
		Topic: topic,
		Value: data,
	}
	if k, ok := event.(keyed); ok {
		msg.Key = []byte(k.PartitionKey())
	}
	return msg, nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
