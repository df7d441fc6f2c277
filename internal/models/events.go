package models

import "time"

// Event types
const (
	EventTypeOrderCompleted = "ORDER_COMPLETED"
	EventTypeStockAdjusted  = "STOCK_ADJUSTED"
	EventTypeLowStock       = "LOW_STOCK"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCompletedEvent published when an order is persisted and stock decremented
type OrderCompletedEvent struct {
	BaseEvent
	OrderID       int64           `json:"order_id"`
	CashierID     int64           `json:"cashier_id"`
	Total         int64           `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	Items         []OrderItemData `json:"items"`
}

// StockAdjustedEvent published on manual stock adjustments
type StockAdjustedEvent struct {
	BaseEvent
	ProductID int64  `json:"product_id"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason"`
	ActorID   int64  `json:"actor_id"`
	NewStock  int    `json:"new_stock"`
}

// LowStockEvent published when a product's stock falls to or below its threshold
type LowStockEvent struct {
	BaseEvent
	ProductID     int64  `json:"product_id"`
	ProductName   string `json:"product_name"`
	StockQuantity int    `json:"stock_quantity"`
	Threshold     int    `json:"threshold"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}
