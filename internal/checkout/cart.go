// Package checkout implements the in-memory sale workflow: cart state,
// search/scan matching, payment validation and receipt rendering. Nothing
// in this package performs I/O; the cart exists only for the duration of a
// checkout session and is never persisted.
package checkout

import (
	"fmt"

	"github.com/garenk02/callysta-pos-sub000/internal/models"
)

// CartItem is one cart line. The product is captured at add time; stock
// limits are enforced against that capture.
type CartItem struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Subtotal returns the line total
func (ci CartItem) Subtotal() int64 {
	return ci.Product.Price * int64(ci.Quantity)
}

// Summary is the derived cart total, never stored. Tax is zero in this
// system so total always equals subtotal.
type Summary struct {
	Subtotal  int64 `json:"subtotal"`
	Tax       int64 `json:"tax"`
	Total     int64 `json:"total"`
	ItemCount int   `json:"item_count"`
	LineCount int   `json:"line_count"`
}

// Cart holds the lines of an in-progress sale. It is owned by exactly one
// session and mutated synchronously under the session lock.
type Cart struct {
	lines []CartItem
}

// NewCart returns an empty cart
func NewCart() *Cart {
	return &Cart{}
}

// Add inserts the product with quantity 1 or increments an existing line.
// Inactive products, zero-stock products and increments beyond the
// available stock are rejected without mutating the cart.
func (c *Cart) Add(p models.Product) error {
	if !p.IsActive {
		return fmt.Errorf("%s: %w", p.Name, models.ErrProductInactive)
	}
	if p.StockQuantity <= 0 {
		return fmt.Errorf("%s: %w", p.Name, models.ErrOutOfStock)
	}

	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			if c.lines[i].Quantity+1 > c.lines[i].Product.StockQuantity {
				return fmt.Errorf("%s: only %d in stock: %w",
					p.Name, c.lines[i].Product.StockQuantity, models.ErrStockExceeded)
			}
			c.lines[i].Quantity++
			return nil
		}
	}

	c.lines = append(c.lines, CartItem{Product: p, Quantity: 1})
	return nil
}

// SetQuantity sets a line's quantity. A quantity <= 0 removes the line.
// Quantities above the product's stock are clamped to the stock and
// ErrStockExceeded is returned so the caller can warn the user.
func (c *Cart) SetQuantity(productID int64, qty int) error {
	if qty <= 0 {
		c.Remove(productID)
		return nil
	}

	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			if qty > c.lines[i].Product.StockQuantity {
				c.lines[i].Quantity = c.lines[i].Product.StockQuantity
				return fmt.Errorf("%s: only %d in stock: %w",
					c.lines[i].Product.Name, c.lines[i].Product.StockQuantity, models.ErrStockExceeded)
			}
			c.lines[i].Quantity = qty
			return nil
		}
	}

	return fmt.Errorf("product %d not in cart: %w", productID, models.ErrNotFound)
}

// Remove deletes a line. Removing an absent product is a no-op.
func (c *Cart) Remove(productID int64) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = nil
}

// Items returns a copy of the cart lines in insertion order
func (c *Cart) Items() []CartItem {
	items := make([]CartItem, len(c.lines))
	copy(items, c.lines)
	return items
}

// Quantity returns the current quantity for a product, 0 if absent
func (c *Cart) Quantity(productID int64) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return c.lines[i].Quantity
		}
	}
	return 0
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Summarize recomputes the totals from the current lines
func (c *Cart) Summarize() Summary {
	var s Summary
	for _, line := range c.lines {
		s.Subtotal += line.Subtotal()
		s.ItemCount += line.Quantity
	}
	s.LineCount = len(c.lines)
	s.Total = s.Subtotal + s.Tax
	return s
}
