package checkout

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/garenk02/callysta-pos-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillCart(t *testing.T, s *Session, products ...models.Product) {
	t.Helper()
	for _, p := range products {
		require.NoError(t, s.WithCart(func(c *Cart) error { return c.Add(p) }))
	}
}

func TestSubmitHappyPath(t *testing.T) {
	s := NewSession(7)
	a := activeProduct(1, 10000, 10)
	b := activeProduct(2, 5000, 10)
	fillCart(t, s, a, a, b)

	_, summary := s.Snapshot()
	require.Equal(t, int64(25000), summary.Total)

	var submitted []CartItem
	var gotKey string
	orderID, err := s.Submit(context.Background(),
		PaymentRequest{Method: models.PaymentCash, AmountTendered: 30000},
		func(ctx context.Context, items []CartItem, pay PaymentRequest, key string) (int64, error) {
			submitted = items
			gotKey = key
			return 42, nil
		})

	require.NoError(t, err)
	assert.Equal(t, int64(42), orderID)
	assert.NotEmpty(t, gotKey)

	require.Len(t, submitted, 2)
	assert.Equal(t, 2, submitted[0].Quantity)
	assert.Equal(t, 1, submitted[1].Quantity)

	// Cart cleared only after confirmed success.
	items, summary := s.Snapshot()
	assert.Empty(t, items)
	assert.Equal(t, int64(0), summary.Total)
}

func TestSubmitRejectsInsufficientCash(t *testing.T) {
	s := NewSession(7)
	fillCart(t, s, activeProduct(1, 25000, 10))

	called := false
	_, err := s.Submit(context.Background(),
		PaymentRequest{Method: models.PaymentCash, AmountTendered: 20000},
		func(ctx context.Context, items []CartItem, pay PaymentRequest, key string) (int64, error) {
			called = true
			return 0, nil
		})

	assert.ErrorIs(t, err, models.ErrInsufficientPayment)
	assert.False(t, called, "validation failure must block submission entirely")

	items, _ := s.Snapshot()
	assert.Len(t, items, 1)
}

func TestSubmitEmptyCart(t *testing.T) {
	s := NewSession(7)
	_, err := s.Submit(context.Background(),
		PaymentRequest{Method: models.PaymentBankTransfer},
		func(ctx context.Context, items []CartItem, pay PaymentRequest, key string) (int64, error) {
			return 0, nil
		})
	assert.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestSubmitFailureLeavesCartIntact(t *testing.T) {
	s := NewSession(7)
	fillCart(t, s, activeProduct(1, 10000, 10))

	_, err := s.Submit(context.Background(),
		PaymentRequest{Method: models.PaymentCash, AmountTendered: 10000},
		func(ctx context.Context, items []CartItem, pay PaymentRequest, key string) (int64, error) {
			return 0, assert.AnError
		})
	require.Error(t, err)

	items, summary := s.Snapshot()
	assert.Len(t, items, 1)
	assert.Equal(t, int64(10000), summary.Total)
}

func TestIdempotencyKeySurvivesFailureRotatesOnSuccess(t *testing.T) {
	s := NewSession(7)
	fillCart(t, s, activeProduct(1, 10000, 10))

	var keys []string
	record := func(fail bool) SubmitFunc {
		return func(ctx context.Context, items []CartItem, pay PaymentRequest, key string) (int64, error) {
			keys = append(keys, key)
			if fail {
				return 0, assert.AnError
			}
			return 1, nil
		}
	}
	pay := PaymentRequest{Method: models.PaymentCash, AmountTendered: 10000}

	_, err := s.Submit(context.Background(), pay, record(true))
	require.Error(t, err)
	_, err = s.Submit(context.Background(), pay, record(false))
	require.NoError(t, err)

	// Retrying the same sale reuses the key so the server dedupes.
	require.Len(t, keys, 2)
	assert.Equal(t, keys[0], keys[1])

	fillCart(t, s, activeProduct(2, 5000, 10))
	_, err = s.Submit(context.Background(), pay, record(false))
	require.NoError(t, err)

	// A new sale gets a new key.
	require.Len(t, keys, 3)
	assert.NotEqual(t, keys[1], keys[2])
}

func TestDoubleSubmitProducesOneOrder(t *testing.T) {
	s := NewSession(7)
	fillCart(t, s, activeProduct(1, 10000, 10))

	var calls int32
	entered := make(chan struct{})
	release := make(chan struct{})

	blocking := func(ctx context.Context, items []CartItem, pay PaymentRequest, key string) (int64, error) {
		atomic.AddInt32(&calls, 1)
		close(entered)
		<-release
		return 42, nil
	}
	pay := PaymentRequest{Method: models.PaymentCash, AmountTendered: 10000}

	var wg sync.WaitGroup
	wg.Add(1)
	var firstID int64
	var firstErr error
	go func() {
		defer wg.Done()
		firstID, firstErr = s.Submit(context.Background(), pay, blocking)
	}()

	<-entered

	// Second click while the first is in flight.
	_, err := s.Submit(context.Background(), pay, blocking)
	assert.ErrorIs(t, err, models.ErrSubmitInFlight)

	// Cart mutations are also refused mid-flight.
	err = s.WithCart(func(c *Cart) error { return c.Add(activeProduct(2, 5000, 10)) })
	assert.ErrorIs(t, err, models.ErrSubmitInFlight)

	close(release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, int64(42), firstID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	items, _ := s.Snapshot()
	assert.Empty(t, items)
}

func TestSessionManagerReturnsSameSession(t *testing.T) {
	sm := NewSessionManager()
	first := sm.Get(1)
	second := sm.Get(1)
	other := sm.Get(2)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}
