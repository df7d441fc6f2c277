package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/garenk02/callysta-pos-sub000/config"
	"github.com/garenk02/callysta-pos-sub000/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer writes domain events to the sales topic. Messages are keyed
// per entity and hashed to a partition, so events for one product or
// one order stay ordered.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer builds a producer from the Kafka section of the config.
func NewProducer(cfg config.KafkaConfig) *Producer {
	writeTimeout := time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicSales,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  attempts,
		WriteTimeout: writeTimeout,
		BatchTimeout: 20 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		logger: util.GetLogger(),
	}
}

// PublishEvent marshals the event and writes it under the given key.
func (p *Producer) PublishEvent(ctx context.Context, key string, event interface{}) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	p.logger.Debug("Published event",
		zap.String("key", key),
		zap.String("topic", p.writer.Topic))
	return nil
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// Consumer reads the sales topic as part of a consumer group. Offsets
// are committed only after the handler returns nil, so a crashed
// handler sees the message again.
type Consumer struct {
	reader *kafka.Reader
	logger *zap.Logger
}

// NewConsumer builds a group consumer from the Kafka section of the config.
func NewConsumer(cfg config.KafkaConfig) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.TopicSales,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	return &Consumer{
		reader: reader,
		logger: util.GetLogger(),
	}
}

// Close closes the consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// MessageHandler is a function type for handling messages
type MessageHandler func(ctx context.Context, msg kafka.Message) error

// StartConsuming fetches messages until the context is cancelled. A
// handler error skips the commit; a fetch error backs off briefly so a
// broker outage does not spin the loop.
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	c.logger.Info("Starting consumer",
		zap.String("topic", c.reader.Config().Topic),
		zap.String("group", c.reader.Config().GroupID))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				c.logger.Info("Consumer stopping", zap.Error(ctx.Err()))
				return ctx.Err()
			}
			c.logger.Warn("Fetch failed, backing off", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		if err := handler(ctx, msg); err != nil {
			c.logger.Error("Handler failed, leaving message uncommitted",
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Warn("Commit failed", zap.Error(err))
		}
	}
}
