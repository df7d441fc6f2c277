package checkout

import (
	"testing"

	"github.com/garenk02/callysta-pos-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Coffee Beans 1kg", SKU: "8991234567890", Price: 120000, StockQuantity: 10, IsActive: true},
		{ID: 2, Name: "Green Tea Box", SKU: "GT-100", Price: 45000, StockQuantity: 5, IsActive: true},
		{ID: 3, Name: "Sugar 500g", SKU: "", Price: 15000, StockQuantity: 20, IsActive: true},
	}
}

func TestLooksLikeBarcode(t *testing.T) {
	m := NewMatcher(8)

	assert.True(t, m.LooksLikeBarcode("8991234567890")) // long + numeric
	assert.True(t, m.LooksLikeBarcode("12345"))         // short but all digits
	assert.True(t, m.LooksLikeBarcode("ABCD1234"))      // length >= 8
	assert.False(t, m.LooksLikeBarcode("tea"))
	assert.False(t, m.LooksLikeBarcode(""))
	assert.False(t, m.LooksLikeBarcode("  "))
}

func TestMatchScansExactSKU(t *testing.T) {
	m := NewMatcher(8)

	result := m.Match("8991234567890", testCatalog())
	require.Equal(t, OutcomeScanned, result.Outcome)
	require.NotNil(t, result.Product)
	assert.Equal(t, int64(1), result.Product.ID)
}

func TestMatchSearchIsCaseInsensitiveSubstring(t *testing.T) {
	m := NewMatcher(8)

	result := m.Match("green TEA", testCatalog())
	require.Equal(t, OutcomeResults, result.Outcome)
	require.Len(t, result.Results, 1)
	assert.Equal(t, int64(2), result.Results[0].ID)

	// SKU substring matches too.
	result = m.Match("gt-1", testCatalog())
	require.Equal(t, OutcomeResults, result.Outcome)
	assert.Equal(t, int64(2), result.Results[0].ID)
}

func TestMatchDistinguishesNotFoundKinds(t *testing.T) {
	m := NewMatcher(8)

	scan := m.Match("9990000000000", testCatalog())
	assert.Equal(t, OutcomeBarcodeNotFound, scan.Outcome)

	search := m.Match("pineapple", testCatalog())
	assert.Equal(t, OutcomeNoResults, search.Outcome)
}

func TestMatchShortNumericFallsBackToSearch(t *testing.T) {
	m := NewMatcher(8)
	catalog := []models.Product{
		{ID: 7, Name: "Battery AA 500 pack", SKU: "BAT500", Price: 30000, StockQuantity: 3, IsActive: true},
	}

	// "500" is scan-shaped (all digits) but matches no SKU exactly; the
	// matcher still surfaces the name substring hit.
	result := m.Match("500", catalog)
	require.Equal(t, OutcomeResults, result.Outcome)
	assert.Equal(t, int64(7), result.Results[0].ID)
}
