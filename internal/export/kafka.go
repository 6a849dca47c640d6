package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"balanceScope/internal/model"
)

// KafkaPublisher publishes timeline entries to a Kafka topic, keyed by
// transaction hash so re-exports stay idempotent for compacted topics.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, batchSize int, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    batchSize,
		BatchTimeout: 100 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &KafkaPublisher{writer: writer, logger: logger}
}

// Publish sends every entry to the topic.
func (p *KafkaPublisher) Publish(ctx context.Context, entries []model.TimelineEntry) error {
	if len(entries) == 0 {
		return nil
	}
	messages := make([]kafka.Message, 0, len(entries))
	for _, e := range entries {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal entry %s: %w", e.Hash, err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(e.Hash),
			Value: value,
		})
	}
	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("publish entries: %w", err)
	}
	p.logger.Info("entries published", zap.Int("count", len(messages)))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
