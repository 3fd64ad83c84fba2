// Package kafka publishes ledger events to Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mmynk/tabungan/internal/events"
)

// Publisher writes events to a single topic.
type Publisher struct {
	writer *kafka.Writer
}

var _ events.Publisher = (*Publisher)(nil)

// NewPublisher creates a publisher for topic on the given brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = events.TopicTransactionRecorded
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Publish writes one event, keyed by student so a student's events stay ordered.
func (p *Publisher) Publish(ctx context.Context, event events.TransactionRecorded) error {
	msg, err := message(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close flushes pending writes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func message(event events.TransactionRecorded) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.StudentID, 10)),
		Value: data,
		Time:  event.OccurredAt,
	}, nil
}
