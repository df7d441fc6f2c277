package models

import "time"

// Product represents a catalog entry. Price is in minor currency units.
type Product struct {
	ID                int64     `db:"id" json:"id"`
	SKU               string    `db:"sku" json:"sku,omitempty"`
	Name              string    `db:"name" json:"name"`
	Price             int64     `db:"price" json:"price"`
	Category          string    `db:"category" json:"category,omitempty"`
	StockQuantity     int       `db:"stock_quantity" json:"stock_quantity"`
	LowStockThreshold int       `db:"low_stock_threshold" json:"low_stock_threshold"`
	IsActive          bool      `db:"is_active" json:"is_active"`
	ImageURL          string    `db:"image_url" json:"image_url,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// User is a dashboard user. Role gates which routes are reachable.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      string    `db:"role" json:"role"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// User roles
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// Payment methods. Only cash and bank_transfer are accepted at the
// counter today; the rest exist in the data model for staged rollout.
const (
	PaymentCash          = "cash"
	PaymentBankTransfer  = "bank_transfer"
	PaymentCard          = "card"
	PaymentMobilePayment = "mobile_payment"
	PaymentGiftCard      = "gift_card"
)

// Order is a completed sale. Immutable after creation; line items carry
// name/price snapshots so later product edits never rewrite history.
type Order struct {
	ID               int64     `db:"id" json:"id"`
	CashierID        int64     `db:"cashier_id" json:"cashier_id"`
	CashierName      string    `db:"cashier_name" json:"cashier_name"`
	Subtotal         int64     `db:"subtotal" json:"subtotal"`
	Total            int64     `db:"total" json:"total"`
	PaymentMethod    string    `db:"payment_method" json:"payment_method"`
	AmountTendered   int64     `db:"amount_tendered" json:"amount_tendered,omitempty"`
	ChangeDue        int64     `db:"change_due" json:"change_due,omitempty"`
	PaymentReference string    `db:"payment_reference" json:"payment_reference,omitempty"`
	IdempotencyKey   string    `db:"idempotency_key" json:"idempotency_key,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// OrderItem is a snapshotted line on a completed order.
type OrderItem struct {
	ID          int64  `db:"id" json:"id"`
	OrderID     int64  `db:"order_id" json:"order_id"`
	ProductID   int64  `db:"product_id" json:"product_id"`
	ProductName string `db:"product_name" json:"product_name"`
	UnitPrice   int64  `db:"unit_price" json:"unit_price"`
	Quantity    int    `db:"quantity" json:"quantity"`
}

// PaymentDetails is the method-specific breakdown stored on an order.
type PaymentDetails struct {
	AmountTendered int64  `json:"amount_tendered,omitempty"`
	ChangeDue      int64  `json:"change_due,omitempty"`
	Reference      string `json:"reference,omitempty"`
}

// StockAdjustment is the audit trail for every stock mutation.
type StockAdjustment struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Delta     int       `db:"delta" json:"delta"`
	Reason    string    `db:"reason" json:"reason"`
	ActorID   int64     `db:"actor_id" json:"actor_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Stock adjustment reasons
const (
	AdjustReasonRestock    = "restock"
	AdjustReasonCorrection = "correction"
	AdjustReasonDamage     = "damage"
	AdjustReasonSale       = "sale"
)
