package worker

import (
	"context"
	"time"

	"github.com/garenk02/callysta-pos-sub000/internal/broker"
	"github.com/garenk02/callysta-pos-sub000/internal/models"
	"github.com/garenk02/callysta-pos-sub000/internal/store"
	"github.com/garenk02/callysta-pos-sub000/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LowStockWorker watches sale and adjustment events and raises a LowStock
// alert whenever a touched product's quantity falls to or below its
// threshold.
type LowStockWorker struct {
	consumer       *broker.Consumer
	eventHandler   *broker.EventHandler
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewLowStockWorker creates a new low-stock worker
func NewLowStockWorker(
	consumer *broker.Consumer,
	store *store.Store,
	eventPublisher *broker.EventPublisher,
) *LowStockWorker {
	w := &LowStockWorker{
		consumer:       consumer,
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderCompleted(w.handleOrderCompleted)
	eventHandler.OnStockAdjusted(w.handleStockAdjusted)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *LowStockWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting low-stock worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *LowStockWorker) Stop() error {
	w.logger.Info("Stopping low-stock worker")
	return w.consumer.Close()
}

func (w *LowStockWorker) handleOrderCompleted(ctx context.Context, event *models.OrderCompletedEvent) error {
	ids := make([]int64, 0, len(event.Items))
	for _, item := range event.Items {
		ids = append(ids, item.ProductID)
	}
	return w.checkProducts(ctx, ids)
}

func (w *LowStockWorker) handleStockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) error {
	if event.Delta >= 0 {
		return nil
	}
	return w.checkProducts(ctx, []int64{event.ProductID})
}

func (w *LowStockWorker) checkProducts(ctx context.Context, ids []int64) error {
	products, err := w.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}

	for _, p := range products {
		if p.LowStockThreshold <= 0 || p.StockQuantity > p.LowStockThreshold {
			continue
		}

		util.LowStockAlertsTotal.Inc()
		w.logger.Warn("Low stock",
			zap.Int64("product_id", p.ID),
			zap.String("name", p.Name),
			zap.Int("stock", p.StockQuantity),
			zap.Int("threshold", p.LowStockThreshold))

		alert := &models.LowStockEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeLowStock,
				Timestamp: time.Now(),
			},
			ProductID:     p.ID,
			ProductName:   p.Name,
			StockQuantity: p.StockQuantity,
			Threshold:     p.LowStockThreshold,
		}
		if err := w.eventPublisher.PublishLowStock(ctx, alert); err != nil {
			w.logger.Error("Failed to publish LowStock event", zap.Error(err))
		}
	}

	return nil
}
