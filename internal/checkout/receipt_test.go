package checkout

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/garenk02/callysta-pos-sub000/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleOrder() (*models.Order, []models.OrderItem) {
	order := &models.Order{
		ID:             42,
		CashierName:    "Ayu",
		Subtotal:       25000,
		Total:          25000,
		PaymentMethod:  models.PaymentCash,
		AmountTendered: 30000,
		ChangeDue:      5000,
		CreatedAt:      time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC),
	}
	items := []models.OrderItem{
		{ProductName: "Coffee Beans 1kg", UnitPrice: 10000, Quantity: 2},
		{ProductName: "Green Tea Box", UnitPrice: 5000, Quantity: 1},
	}
	return order, items
}

func TestRenderReceiptContents(t *testing.T) {
	info := StoreInfo{Name: "Callysta POS", Address: "Jl. Melati 10", Phone: "0812-0000-0000"}
	order, items := sampleOrder()

	text := RenderReceipt(info, order, items)

	assert.Contains(t, text, "Callysta POS")
	assert.Contains(t, text, "Order   : #42")
	assert.Contains(t, text, "Cashier : Ayu")
	assert.Contains(t, text, "Coffee Beans 1kg")
	assert.Contains(t, text, "2 x 10,000")
	assert.Contains(t, text, "25,000")
	assert.Contains(t, text, "Change")
	assert.Contains(t, text, "5,000")
}

func TestRenderReceiptIsDeterministic(t *testing.T) {
	info := StoreInfo{Name: "Callysta POS"}
	order, items := sampleOrder()

	first := RenderReceipt(info, order, items)
	second := RenderReceipt(info, order, items)
	assert.Equal(t, first, second)
}

func TestRenderReceiptBankTransfer(t *testing.T) {
	order, items := sampleOrder()
	order.PaymentMethod = models.PaymentBankTransfer
	order.PaymentReference = "TRF-001"
	order.AmountTendered = 0
	order.ChangeDue = 0

	text := RenderReceipt(StoreInfo{Name: "Callysta POS"}, order, items)
	assert.Contains(t, text, "bank transfer")
	assert.Contains(t, text, "TRF-001")
	assert.False(t, strings.Contains(text, "Change"))
}

func TestReceiptPaddingCountsRunes(t *testing.T) {
	// "Kopi Susu Spésial" is 17 runes but 18 bytes; byte-based padding
	// would push the line total past 40 columns.
	line := padBetween("Kopi Susu Spésial", "10,000")
	assert.Equal(t, 40, utf8.RuneCountInString(line))

	order, items := sampleOrder()
	text := RenderReceipt(StoreInfo{Name: "Kafé Callysta"}, order, items)
	for _, l := range strings.Split(text, "\n") {
		assert.LessOrEqual(t, utf8.RuneCountInString(l), 40, "line %q", l)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(0))
	assert.Equal(t, "500", FormatAmount(500))
	assert.Equal(t, "25,000", FormatAmount(25000))
	assert.Equal(t, "1,234,567", FormatAmount(1234567))
	assert.Equal(t, "-5,000", FormatAmount(-5000))
}
