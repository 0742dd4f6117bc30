package models

import "time"

// Event types
const (
	EventTypeOrderSubmitted = "ORDER_SUBMITTED"
	EventTypeStockAdjusted  = "STOCK_ADJUSTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderSubmittedEvent published when a draft is submitted and recorded
type OrderSubmittedEvent struct {
	BaseEvent
	OrderID        string          `json:"order_id"`
	Kind           string          `json:"kind"`
	CounterpartyID string          `json:"counterparty_id"`
	TotalAmount    float64         `json:"total_amount"`
	TotalItems     int             `json:"total_items"`
	Items          []OrderItemData `json:"items"`
}

// StockAdjustedEvent published after the stock worker applies order deltas
type StockAdjustedEvent struct {
	BaseEvent
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID  string  `json:"product_id"`
	SupplierID string  `json:"supplier_id,omitempty"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"price"`
}
