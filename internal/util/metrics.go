package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_orders_failed_total",
		Help: "Total number of failed order submissions",
	}, []string{"reason"})

	OrderSubmitLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_order_submit_latency_seconds",
		Help:    "Latency of order submission including the stock decrement transaction",
		Buckets: prometheus.DefBuckets,
	})

	OrderValueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_order_value_total",
		Help: "Cumulative value of completed orders in minor currency units",
	})

	StockAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_stock_adjustments_total",
		Help: "Total number of stock adjustments",
	}, []string{"reason"})

	LowStockAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_low_stock_alerts_total",
		Help: "Total number of low stock alerts raised",
	})

	CatalogCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_catalog_cache_hits_total",
		Help: "Total number of catalog cache hits",
	})

	CatalogCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_catalog_cache_misses_total",
		Help: "Total number of catalog cache misses",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
