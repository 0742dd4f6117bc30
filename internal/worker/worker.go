package worker

import (
	"context"
	"fmt"
	"time"

	"inventory-console/internal/broker"
	"inventory-console/internal/models"
	"inventory-console/internal/store"
	"inventory-console/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockWorker applies stock deltas from submitted orders: sales decrement,
// purchases increment. Processing is idempotent per event.
type StockWorker struct {
	consumer       *broker.Consumer
	eventHandler   *broker.EventHandler
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewStockWorker creates a stock worker
func NewStockWorker(
	consumer *broker.Consumer,
	store *store.Store,
	eventPublisher *broker.EventPublisher,
) *StockWorker {
	w := &StockWorker{
		consumer:       consumer,
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.NamedLogger("stock-worker"),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderSubmitted(w.handleOrderSubmitted)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *StockWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting stock worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StockWorker) Stop() error {
	w.logger.Info("Stopping stock worker")
	return w.consumer.Close()
}

func (w *StockWorker) handleOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		w.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	sign := 1
	if event.Kind == models.OrderKindSales {
		sign = -1
	}

	for _, item := range event.Items {
		delta := sign * item.Quantity
		if err := w.store.AdjustStock(ctx, item.ProductID, delta); err != nil {
			w.logger.Error("Failed to adjust stock",
				zap.String("order_id", event.OrderID),
				zap.String("product_id", item.ProductID),
				zap.Int("delta", delta),
				zap.Error(err))
			continue
		}

		util.StockAdjustmentsTotal.WithLabelValues(event.Kind).Inc()

		adjusted := &models.StockAdjustedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeStockAdjusted,
				Timestamp: time.Now(),
			},
			OrderID:   event.OrderID,
			ProductID: item.ProductID,
			Delta:     delta,
		}
		if err := w.eventPublisher.PublishStockAdjusted(ctx, adjusted); err != nil {
			w.logger.Error("Failed to publish StockAdjusted event", zap.Error(err))
		}
	}

	if err := w.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}

	w.logger.Info("Stock deltas applied",
		zap.String("order_id", event.OrderID),
		zap.String("kind", event.Kind),
		zap.Int("items", len(event.Items)))
	return nil
}
