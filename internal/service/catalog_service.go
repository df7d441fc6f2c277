package service

import (
	"context"
	"fmt"
	"time"

	"github.com/garenk02/callysta-pos-sub000/internal/broker"
	"github.com/garenk02/callysta-pos-sub000/internal/models"
	"github.com/garenk02/callysta-pos-sub000/internal/redisclient"
	"github.com/garenk02/callysta-pos-sub000/internal/store"
	"github.com/garenk02/callysta-pos-sub000/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService handles product listing, CRUD and stock adjustment.
// List reads go through a Redis cache with a short TTL; every write
// invalidates the whole catalog cache.
type CatalogService struct {
	store           *store.Store
	redis           *redisclient.Client
	eventPublisher  *broker.EventPublisher
	logger          *zap.Logger
	cacheTTL        time.Duration
	defaultLowStock int
}

// NewCatalogService creates a new catalog service. defaultLowStock is
// the low-stock threshold given to products created without one.
func NewCatalogService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	cacheTTL time.Duration,
	defaultLowStock int,
) *CatalogService {
	return &CatalogService{
		store:           store,
		redis:           redis,
		eventPublisher:  eventPublisher,
		logger:          util.GetLogger(),
		cacheTTL:        cacheTTL,
		defaultLowStock: defaultLowStock,
	}
}

// ProductPage is a page of products plus the total count for the filter
type ProductPage struct {
	Items []models.Product `json:"items"`
	Total int              `json:"total_count"`
}

// ListProducts returns a filtered, paginated product page, served from
// cache when possible.
func (cs *CatalogService) ListProducts(ctx context.Context, f store.ProductFilter) (*ProductPage, error) {
	key := fmt.Sprintf("products:q=%s:cat=%s:active=%t:limit=%d:offset=%d",
		f.Query, f.Category, f.ActiveOnly, f.Limit, f.Offset)

	var cached ProductPage
	hit, err := cs.redis.GetCachedJSON(ctx, key, &cached)
	if err != nil {
		cs.logger.Warn("Catalog cache read failed", zap.Error(err))
	}
	if hit {
		util.CatalogCacheHits.Inc()
		return &cached, nil
	}
	util.CatalogCacheMisses.Inc()

	items, total, err := cs.store.ListProducts(ctx, f)
	if err != nil {
		return nil, err
	}

	page := &ProductPage{Items: items, Total: total}
	if err := cs.redis.SetCachedJSON(ctx, key, page, cs.cacheTTL); err != nil {
		cs.logger.Warn("Catalog cache write failed", zap.Error(err))
	}

	return page, nil
}

// ActiveProducts returns every active product, for the scan matcher's
// local catalog snapshot.
func (cs *CatalogService) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	page, err := cs.ListProducts(ctx, store.ProductFilter{ActiveOnly: true, Limit: 10000})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetProduct retrieves a product by ID
func (cs *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return cs.store.GetProductByID(ctx, id)
}

// normalizeProduct fills in the configured low-stock threshold when the
// request left it unset, so every product triggers reorder alerts.
func (cs *CatalogService) normalizeProduct(p *models.Product) {
	if p.LowStockThreshold <= 0 {
		p.LowStockThreshold = cs.defaultLowStock
	}
}

// CreateProduct creates a product and invalidates the cache
func (cs *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	cs.normalizeProduct(p)
	if err := cs.store.CreateProduct(ctx, p); err != nil {
		return err
	}
	cs.invalidateCache(ctx)
	cs.logger.Info("Product created", zap.Int64("product_id", p.ID), zap.String("name", p.Name))
	return nil
}

// UpdateProduct updates a product and invalidates the cache
func (cs *CatalogService) UpdateProduct(ctx context.Context, p *models.Product) error {
	if err := cs.store.UpdateProduct(ctx, p); err != nil {
		return err
	}
	cs.invalidateCache(ctx)
	return nil
}

// DeactivateProduct soft-deletes a product and invalidates the cache
func (cs *CatalogService) DeactivateProduct(ctx context.Context, id int64) error {
	if err := cs.store.DeactivateProduct(ctx, id); err != nil {
		return err
	}
	cs.invalidateCache(ctx)
	return nil
}

// AdjustStock applies a manual stock delta with an audit row, then
// publishes a StockAdjusted event for the low-stock watcher.
func (cs *CatalogService) AdjustStock(ctx context.Context, productID int64, delta int, reason string, actorID int64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.AdjustStock")
	defer span.End()

	product, err := cs.store.AdjustStockTx(ctx, productID, delta, reason, actorID)
	if err != nil {
		return nil, err
	}

	util.StockAdjustmentsTotal.WithLabelValues(reason).Inc()
	cs.invalidateCache(ctx)

	event := &models.StockAdjustedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeStockAdjusted,
			Timestamp: time.Now(),
		},
		ProductID: productID,
		Delta:     delta,
		Reason:    reason,
		ActorID:   actorID,
		NewStock:  product.StockQuantity,
	}
	if err := cs.eventPublisher.PublishStockAdjusted(ctx, event); err != nil {
		cs.logger.Error("Failed to publish StockAdjusted event", zap.Error(err))
	}

	cs.logger.Info("Stock adjusted",
		zap.Int64("product_id", productID),
		zap.Int("delta", delta),
		zap.String("reason", reason),
		zap.Int("new_stock", product.StockQuantity))

	return product, nil
}

// StockHistory returns the adjustment audit trail for a product
func (cs *CatalogService) StockHistory(ctx context.Context, productID int64, limit int) ([]models.StockAdjustment, error) {
	return cs.store.GetStockAdjustments(ctx, productID, limit)
}

func (cs *CatalogService) invalidateCache(ctx context.Context) {
	if err := cs.redis.InvalidateCatalog(ctx); err != nil {
		cs.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}
