package checkout

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/garenk02/callysta-pos-sub000/internal/models"
)

const receiptWidth = 40

// StoreInfo is the business header printed on every receipt
type StoreInfo struct {
	Name    string
	Address string
	Phone   string
}

// RenderReceipt lays out a completed order as printable text. It is a pure
// function of the order snapshot: re-rendering the same order always yields
// the same bytes.
func RenderReceipt(info StoreInfo, order *models.Order, items []models.OrderItem) string {
	var b strings.Builder

	rule := strings.Repeat("=", receiptWidth)
	thin := strings.Repeat("-", receiptWidth)

	center(&b, info.Name)
	if info.Address != "" {
		center(&b, info.Address)
	}
	if info.Phone != "" {
		center(&b, info.Phone)
	}
	b.WriteString(rule + "\n")

	fmt.Fprintf(&b, "Order   : #%d\n", order.ID)
	fmt.Fprintf(&b, "Date    : %s\n", order.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Cashier : %s\n", order.CashierName)
	b.WriteString(thin + "\n")

	for _, item := range items {
		b.WriteString(item.ProductName + "\n")
		line := fmt.Sprintf("  %d x %s", item.Quantity, FormatAmount(item.UnitPrice))
		amount := FormatAmount(item.UnitPrice * int64(item.Quantity))
		b.WriteString(padBetween(line, amount) + "\n")
	}

	b.WriteString(thin + "\n")
	b.WriteString(padBetween("Subtotal", FormatAmount(order.Subtotal)) + "\n")
	b.WriteString(padBetween("TOTAL", FormatAmount(order.Total)) + "\n")
	b.WriteString(thin + "\n")

	switch order.PaymentMethod {
	case models.PaymentCash:
		b.WriteString(padBetween("Cash", FormatAmount(order.AmountTendered)) + "\n")
		b.WriteString(padBetween("Change", FormatAmount(order.ChangeDue)) + "\n")
	case models.PaymentBankTransfer:
		b.WriteString("Paid by bank transfer\n")
		if order.PaymentReference != "" {
			fmt.Fprintf(&b, "Ref: %s\n", order.PaymentReference)
		}
	default:
		fmt.Fprintf(&b, "Paid by %s\n", order.PaymentMethod)
	}

	b.WriteString(rule + "\n")
	center(&b, "Thank you!")

	return b.String()
}

// FormatAmount renders a minor-unit amount with thousands separators
func FormatAmount(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

// Widths are counted in runes, not bytes, so product and store names
// outside ASCII keep the 40-column layout.
func center(b *strings.Builder, s string) {
	width := utf8.RuneCountInString(s)
	if width >= receiptWidth {
		b.WriteString(s + "\n")
		return
	}
	pad := (receiptWidth - width) / 2
	b.WriteString(strings.Repeat(" ", pad) + s + "\n")
}

func padBetween(left, right string) string {
	gap := receiptWidth - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
