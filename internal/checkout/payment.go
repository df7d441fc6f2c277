package checkout

import (
	"fmt"

	"github.com/garenk02/callysta-pos-sub000/internal/models"
)

// PaymentRequest is what the payment form collects
type PaymentRequest struct {
	Method         string `json:"payment_method" binding:"required"`
	AmountTendered int64  `json:"amount_tendered,omitempty"`
	Reference      string `json:"reference,omitempty"`
}

// ChangeDue returns the change owed for a cash payment, never negative
func ChangeDue(tendered, total int64) int64 {
	if tendered <= total {
		return 0
	}
	return tendered - total
}

// ValidatePayment checks a payment against the order total and returns the
// method-specific details to record on the order. Validation failure blocks
// submission entirely; there is no partial acceptance.
//
// Cash requires tendered >= total. Bank transfer carries an informational
// reference and is always valid. The remaining enum variants (card, mobile
// payment, gift card) are defined in the data model but not accepted at the
// counter, so they are rejected as unsupported.
func ValidatePayment(req PaymentRequest, total int64) (models.PaymentDetails, error) {
	switch req.Method {
	case models.PaymentCash:
		if req.AmountTendered < total {
			return models.PaymentDetails{}, fmt.Errorf(
				"tendered %d against total %d: %w", req.AmountTendered, total, models.ErrInsufficientPayment)
		}
		return models.PaymentDetails{
			AmountTendered: req.AmountTendered,
			ChangeDue:      ChangeDue(req.AmountTendered, total),
		}, nil

	case models.PaymentBankTransfer:
		return models.PaymentDetails{Reference: req.Reference}, nil

	case models.PaymentCard, models.PaymentMobilePayment, models.PaymentGiftCard:
		return models.PaymentDetails{}, fmt.Errorf("%s: %w", req.Method, models.ErrUnsupportedPayment)

	default:
		return models.PaymentDetails{}, fmt.Errorf("%q: %w", req.Method, models.ErrUnsupportedPayment)
	}
}
