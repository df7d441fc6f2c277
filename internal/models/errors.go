package models

import "errors"

// Domain errors. Handlers map these to HTTP statuses; everything here is
// scoped to the failing operation and leaves prior state intact.
var (
	ErrNotFound            = errors.New("not found")
	ErrProductInactive     = errors.New("product is inactive")
	ErrOutOfStock          = errors.New("product is out of stock")
	ErrStockExceeded       = errors.New("quantity exceeds available stock")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInsufficientPayment = errors.New("amount tendered is less than total")
	ErrUnsupportedPayment  = errors.New("unsupported payment method")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrDuplicateLine       = errors.New("duplicate order line for product")
	ErrSubmitInFlight      = errors.New("order submission already in progress")
	ErrDuplicateSubmit     = errors.New("duplicate order submission")
)
