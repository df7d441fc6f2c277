package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/garenk02/callysta-pos-sub000/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStatusForDomainErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("product 3: %w", models.ErrNotFound), http.StatusNotFound},
		{models.ErrInsufficientStock, http.StatusConflict},
		{models.ErrStockExceeded, http.StatusConflict},
		{models.ErrOutOfStock, http.StatusConflict},
		{models.ErrSubmitInFlight, http.StatusConflict},
		{models.ErrDuplicateSubmit, http.StatusConflict},
		{models.ErrProductInactive, http.StatusBadRequest},
		{models.ErrInsufficientPayment, http.StatusBadRequest},
		{models.ErrUnsupportedPayment, http.StatusBadRequest},
		{models.ErrEmptyCart, http.StatusBadRequest},
		{models.ErrDuplicateLine, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "error %v", tt.err)
	}
}
