package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garenk02/callysta-pos-sub000/internal/models"
)

// requiredQuantities sums the requested quantity per product, so a stock
// check sees the order's full demand even when a product appears on more
// than one line.
func requiredQuantities(items []models.OrderItem) map[int64]int {
	required := make(map[int64]int, len(items))
	for _, item := range items {
		required[item.ProductID] += item.Quantity
	}
	return required
}

// CreateOrderTx persists the order header and line items and decrements each
// product's stock as one transaction. Each product's stock is checked under
// FOR UPDATE against the summed demand across all of its lines; any
// insufficiency aborts the whole order, so no partial order and no negative
// stock can ever be observed.
func (s *Store) CreateOrderTx(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for productID, quantity := range requiredQuantities(items) {
		var available int
		err = tx.GetContext(ctx, &available,
			"SELECT stock_quantity FROM products WHERE id = $1 FOR UPDATE", productID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("product %d: %w", productID, models.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to lock product %d: %w", productID, err)
		}

		if available < quantity {
			return fmt.Errorf("product %d: available=%d, requested=%d: %w",
				productID, available, quantity, models.ErrInsufficientStock)
		}
	}

	query := `
		INSERT INTO orders (cashier_id, cashier_name, subtotal, total, payment_method,
		                    amount_tendered, change_due, payment_reference, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err = tx.GetContext(ctx, order, query,
		order.CashierID, order.CashierName, order.Subtotal, order.Total, order.PaymentMethod,
		order.AmountTendered, order.ChangeDue, order.PaymentReference, order.IdempotencyKey)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID

		err = tx.GetContext(ctx, &items[i].ID, `
			INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			items[i].OrderID, items[i].ProductID, items[i].ProductName, items[i].UnitPrice, items[i].Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE products SET stock_quantity = stock_quantity - $1, updated_at = NOW() WHERE id = $2",
			items[i].Quantity, items[i].ProductID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock for product %d: %w", items[i].ProductID, err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO stock_adjustments (product_id, delta, reason, actor_id) VALUES ($1, $2, $3, $4)",
			items[i].ProductID, -items[i].Quantity, models.AdjustReasonSale, order.CashierID)
		if err != nil {
			return fmt.Errorf("failed to record sale adjustment: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByIdempotencyKey retrieves an order by idempotency key. A nil
// order with nil error means no prior submission used this key.
func (s *Store) GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE idempotency_key = $1", key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderItemsByOrderID retrieves all items for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// ListOrdersByCashier retrieves recent orders for a cashier
func (s *Store) ListOrdersByCashier(ctx context.Context, cashierID int64, limit, offset int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE cashier_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		cashierID, limit, offset)
	return orders, err
}
