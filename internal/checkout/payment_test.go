package checkout

import (
	"testing"

	"github.com/garenk02/callysta-pos-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCashPayment(t *testing.T) {
	tests := []struct {
		name       string
		tendered   int64
		total      int64
		wantChange int64
		wantErr    bool
	}{
		{"exact amount", 25000, 25000, 0, false},
		{"overpayment", 30000, 25000, 5000, false},
		{"underpayment", 20000, 25000, 0, true},
		{"zero tendered", 0, 25000, 0, true},
		{"free order", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details, err := ValidatePayment(PaymentRequest{
				Method:         models.PaymentCash,
				AmountTendered: tt.tendered,
			}, tt.total)

			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInsufficientPayment)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.tendered, details.AmountTendered)
			assert.Equal(t, tt.wantChange, details.ChangeDue)
		})
	}
}

func TestChangeDueNeverNegative(t *testing.T) {
	assert.Equal(t, int64(0), ChangeDue(10000, 25000))
	assert.Equal(t, int64(0), ChangeDue(25000, 25000))
	assert.Equal(t, int64(5000), ChangeDue(30000, 25000))
}

func TestValidateBankTransferAlwaysValid(t *testing.T) {
	details, err := ValidatePayment(PaymentRequest{
		Method:    models.PaymentBankTransfer,
		Reference: "TRF-20260829-001",
	}, 99000)

	require.NoError(t, err)
	assert.Equal(t, "TRF-20260829-001", details.Reference)
	assert.Zero(t, details.AmountTendered)
}

func TestValidateUnsupportedMethods(t *testing.T) {
	for _, method := range []string{
		models.PaymentCard,
		models.PaymentMobilePayment,
		models.PaymentGiftCard,
		"cryptocoin",
		"",
	} {
		_, err := ValidatePayment(PaymentRequest{Method: method, AmountTendered: 100000}, 1000)
		assert.ErrorIs(t, err, models.ErrUnsupportedPayment, "method %q", method)
	}
}
