package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/garenk02/callysta-pos-sub000/internal/models"
	"github.com/garenk02/callysta-pos-sub000/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderCompleted publishes OrderCompleted event
func (ep *EventPublisher) PublishOrderCompleted(ctx context.Context, event *models.OrderCompletedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishStockAdjusted publishes StockAdjusted event
func (ep *EventPublisher) PublishStockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) error {
	key := fmt.Sprintf("product-%d", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishLowStock publishes LowStock event
func (ep *EventPublisher) PublishLowStock(ctx context.Context, event *models.LowStockEvent) error {
	key := fmt.Sprintf("product-%d", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler handles incoming events
type EventHandler struct {
	logger           *zap.Logger
	onOrderCompleted func(context.Context, *models.OrderCompletedEvent) error
	onStockAdjusted  func(context.Context, *models.StockAdjustedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnOrderCompleted registers a handler for OrderCompleted events
func (eh *EventHandler) OnOrderCompleted(handler func(context.Context, *models.OrderCompletedEvent) error) {
	eh.onOrderCompleted = handler
}

// OnStockAdjusted registers a handler for StockAdjusted events
func (eh *EventHandler) OnStockAdjusted(handler func(context.Context, *models.StockAdjustedEvent) error) {
	eh.onStockAdjusted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeOrderCompleted:
		if eh.onOrderCompleted != nil {
			var event models.OrderCompletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderCompleted event: %w", err)
			}
			return eh.onOrderCompleted(ctx, &event)
		}

	case models.EventTypeStockAdjusted:
		if eh.onStockAdjusted != nil {
			var event models.StockAdjustedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal StockAdjusted event: %w", err)
			}
			return eh.onStockAdjusted(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
