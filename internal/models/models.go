package models

import "time"

// Product represents a product in the catalog
type Product struct {
	ID         string    `db:"id" json:"id"`
	SKU        string    `db:"sku" json:"sku"`
	Name       string    `db:"name" json:"name"`
	Price      float64   `db:"price" json:"price"`
	Stock      int       `db:"stock" json:"stock"`
	CategoryID string    `db:"category_id" json:"category_id,omitempty"`
	SupplierID string    `db:"supplier_id" json:"supplier_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Category groups products
type Category struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Supplier represents a purchase-order counterparty
type Supplier struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	CompanyName  string    `db:"company_name" json:"company_name"`
	Email        string    `db:"email" json:"email,omitempty"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	Address      string    `db:"address" json:"address,omitempty"`
	Status       string    `db:"status" json:"status"`
	SupplierType string    `db:"supplier_type" json:"supplier_type,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Customer represents a sales-order counterparty
type Customer struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	CompanyName string    `db:"company_name" json:"company_name"`
	Email       string    `db:"email" json:"email,omitempty"`
	Phone       string    `db:"phone" json:"phone,omitempty"`
	Address     string    `db:"address" json:"address,omitempty"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// User is a console operator account
type User struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      string    `db:"role" json:"role"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Order represents a recorded sales or purchase order
type Order struct {
	ID             string    `db:"id" json:"id"`
	Kind           string    `db:"kind" json:"kind"`
	CounterpartyID string    `db:"counterparty_id" json:"counterparty_id"`
	OrderDate      time.Time `db:"order_date" json:"order_date"`
	Status         string    `db:"status" json:"order_status"`
	VATPercent     float64   `db:"vat_percent" json:"vat"`
	SubTotal       float64   `db:"sub_total" json:"sub_total"`
	TotalAmount    float64   `db:"total_amount" json:"total_amount"`
	TotalItems     int       `db:"total_items" json:"total_items"`
	Notes          string    `db:"notes" json:"notes,omitempty"`
	IdempotencyKey string    `db:"idempotency_key" json:"idempotency_key,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem represents one line of a recorded order
type OrderItem struct {
	ID         int64   `db:"id" json:"id"`
	OrderID    string  `db:"order_id" json:"order_id"`
	ProductID  string  `db:"product_id" json:"product_id"`
	SupplierID string  `db:"supplier_id" json:"supplier_id,omitempty"`
	Quantity   int     `db:"quantity" json:"quantity"`
	UnitPrice  float64 `db:"unit_price" json:"price"`
	Position   int     `db:"position" json:"position"`
}

// StockLevel is the per-product stock view
type StockLevel struct {
	ProductID string    `db:"product_id" json:"product_id"`
	SKU       string    `db:"sku" json:"sku"`
	Name      string    `db:"name" json:"name"`
	Stock     int       `db:"stock" json:"stock"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Order kinds
const (
	OrderKindSales    = "sales"
	OrderKindPurchase = "purchase"
)

// Order statuses (sales: pending/processing/completed/cancelled,
// purchase: pending/approved/completed/cancelled)
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusApproved   = "approved"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Counterparty statuses
const (
	PartyStatusActive   = "active"
	PartyStatusInactive = "inactive"
)

// ProcessedEvent for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
