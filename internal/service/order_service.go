package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garenk02/callysta-pos-sub000/internal/broker"
	"github.com/garenk02/callysta-pos-sub000/internal/checkout"
	"github.com/garenk02/callysta-pos-sub000/internal/models"
	"github.com/garenk02/callysta-pos-sub000/internal/redisclient"
	"github.com/garenk02/callysta-pos-sub000/internal/store"
	"github.com/garenk02/callysta-pos-sub000/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order submission and retrieval
type OrderService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
	idemTTL        time.Duration
}

// NewOrderService creates a new order service
func NewOrderService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	idemTTL time.Duration,
) *OrderService {
	return &OrderService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
		idemTTL:        idemTTL,
	}
}

// OrderItemRequest is one requested line. Only product and quantity come
// from the client; price and name snapshots are taken from the database.
type OrderItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	CashierID      int64
	CashierName    string
	Items          []OrderItemRequest
	Payment        checkout.PaymentRequest
	IdempotencyKey string
}

// CreateOrderResponse represents the response after creating an order
type CreateOrderResponse struct {
	OrderID   int64 `json:"order_id"`
	Total     int64 `json:"total"`
	ChangeDue int64 `json:"change_due,omitempty"`
}

// CreateOrder persists an order: idempotency dedup, item revalidation
// against live products, payment validation, then one transaction that
// writes the header + items and decrements stock. Any failure leaves no
// trace; the same idempotency key resubmitted after success returns the
// original order.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderSubmitLatency.Observe(time.Since(start).Seconds())
	}()

	if len(req.Items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("empty_order").Inc()
		return nil, models.ErrEmptyCart
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}

	if resp, err := s.findExisting(ctx, req.IdempotencyKey); err != nil || resp != nil {
		return resp, err
	}

	claimed, err := s.redis.ClaimIdempotencyKey(ctx, req.IdempotencyKey, s.idemTTL)
	if err != nil {
		s.logger.Warn("Idempotency claim failed, relying on DB unique key", zap.Error(err))
	} else if !claimed {
		// Another submission with this key is racing us or already won.
		if resp, err := s.findExisting(ctx, req.IdempotencyKey); err != nil || resp != nil {
			return resp, err
		}
		util.OrdersFailedTotal.WithLabelValues("duplicate_submit").Inc()
		return nil, models.ErrDuplicateSubmit
	}

	resp, err := s.createOrder(ctx, req)
	if err != nil {
		// Free the key so the cashier's manual retry is not locked out.
		if relErr := s.redis.ReleaseIdempotencyKey(ctx, req.IdempotencyKey); relErr != nil {
			s.logger.Warn("Failed to release idempotency key", zap.Error(relErr))
		}
		return nil, err
	}
	return resp, nil
}

func (s *OrderService) createOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	products, err := s.validateItems(ctx, req.Items)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	var subtotal int64
	items := make([]models.OrderItem, 0, len(req.Items))
	eventItems := make([]models.OrderItemData, 0, len(req.Items))
	for _, line := range req.Items {
		p := products[line.ProductID]
		subtotal += p.Price * int64(line.Quantity)
		items = append(items, models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    line.Quantity,
		})
		eventItems = append(eventItems, models.OrderItemData{
			ProductID: p.ID,
			Quantity:  line.Quantity,
			UnitPrice: p.Price,
		})
	}
	total := subtotal // tax-free system

	details, err := checkout.ValidatePayment(req.Payment, total)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_payment").Inc()
		return nil, err
	}

	order := &models.Order{
		CashierID:        req.CashierID,
		CashierName:      req.CashierName,
		Subtotal:         subtotal,
		Total:            total,
		PaymentMethod:    req.Payment.Method,
		AmountTendered:   details.AmountTendered,
		ChangeDue:        details.ChangeDue,
		PaymentReference: details.Reference,
		IdempotencyKey:   req.IdempotencyKey,
	}

	if err := s.store.CreateOrderTx(ctx, order, items); err != nil {
		if errors.Is(err, models.ErrInsufficientStock) {
			util.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
		} else {
			util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	util.OrderValueTotal.Add(float64(total))
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("cashier_id", order.CashierID),
		zap.Int64("total", total))

	// Stock changed; cached product pages are stale.
	if err := s.redis.InvalidateCatalog(ctx); err != nil {
		s.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}

	event := &models.OrderCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCompleted,
			Timestamp: time.Now(),
		},
		OrderID:       order.ID,
		CashierID:     order.CashierID,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		Items:         eventItems,
	}
	if err := s.eventPublisher.PublishOrderCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCompleted event", zap.Error(err))
	}

	return &CreateOrderResponse{
		OrderID:   order.ID,
		Total:     order.Total,
		ChangeDue: order.ChangeDue,
	}, nil
}

func (s *OrderService) findExisting(ctx context.Context, key string) (*CreateOrderResponse, error) {
	existing, err := s.store.GetOrderByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if existing == nil {
		return nil, nil
	}

	s.logger.Info("Duplicate order request detected",
		zap.String("idempotency_key", key),
		zap.Int64("order_id", existing.ID))
	return &CreateOrderResponse{
		OrderID:   existing.ID,
		Total:     existing.Total,
		ChangeDue: existing.ChangeDue,
	}, nil
}

// validateItems checks that every requested product exists, is active, and
// appears on at most one line. The cart merges lines per product, so a
// duplicate here is a malformed request; accepting it would let the stock
// check see each line against the full stock.
func (s *OrderService) validateItems(ctx context.Context, items []OrderItemRequest) (map[int64]*models.Product, error) {
	productIDs := make([]int64, len(items))
	seen := make(map[int64]bool, len(items))
	for i, item := range items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("product %d: quantity %d: %w", item.ProductID, item.Quantity, models.ErrStockExceeded)
		}
		if seen[item.ProductID] {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, models.ErrDuplicateLine)
		}
		seen[item.ProductID] = true
		productIDs[i] = item.ProductID
	}

	products, err := s.store.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[int64]*models.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	for _, item := range items {
		p, ok := productMap[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, models.ErrNotFound)
		}
		if !p.IsActive {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, models.ErrProductInactive)
		}
	}

	return productMap, nil
}

// GetOrder retrieves an order with its line items
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderItem, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// ListOrders retrieves recent orders for a cashier
func (s *OrderService) ListOrders(ctx context.Context, cashierID int64, limit, offset int) ([]models.Order, error) {
	return s.store.ListOrdersByCashier(ctx, cashierID, limit, offset)
}
