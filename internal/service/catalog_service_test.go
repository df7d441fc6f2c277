package service

import (
	"testing"

	"github.com/garenk02/callysta-pos-sub000/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeProductAppliesDefaultThreshold(t *testing.T) {
	cs := &CatalogService{defaultLowStock: 5}

	p := &models.Product{Name: "Espresso", Price: 15000, StockQuantity: 20}
	cs.normalizeProduct(p)
	assert.Equal(t, 5, p.LowStockThreshold)

	// An explicit threshold is kept.
	p = &models.Product{Name: "Latte", Price: 20000, StockQuantity: 20, LowStockThreshold: 12}
	cs.normalizeProduct(p)
	assert.Equal(t, 12, p.LowStockThreshold)
}
