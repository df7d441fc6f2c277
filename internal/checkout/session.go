package checkout

import (
	"context"
	"sync"

	"github.com/garenk02/callysta-pos-sub000/internal/models"

	"github.com/google/uuid"
)

// SubmitFunc performs the actual order submission. It receives a snapshot
// of the cart taken under the session lock plus the idempotency key that
// identifies this sale attempt.
type SubmitFunc func(ctx context.Context, items []CartItem, payment PaymentRequest, idempotencyKey string) (orderID int64, err error)

// Session owns the cart for one cashier's in-progress sale. All cart
// mutations run under the session lock, and Submit is single-flight: a
// second submit while one is outstanding is refused, so double-clicking
// the pay button can never produce two orders.
type Session struct {
	mu        sync.Mutex
	cashierID int64
	cart      *Cart
	inFlight  bool

	// idemKey survives failed submissions so a manual retry of the same
	// sale dedupes server-side; it rotates only after success.
	idemKey string
}

// NewSession creates a session with an empty cart
func NewSession(cashierID int64) *Session {
	return &Session{
		cashierID: cashierID,
		cart:      NewCart(),
	}
}

// CashierID returns the owning cashier
func (s *Session) CashierID() int64 {
	return s.cashierID
}

// WithCart runs fn with exclusive access to the cart. Mutations are
// refused while a submission is in flight; the snapshot already taken
// would silently drop them otherwise.
func (s *Session) WithCart(fn func(*Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return models.ErrSubmitInFlight
	}
	return fn(s.cart)
}

// Snapshot returns the current cart lines and summary without blocking
// other readers for long.
func (s *Session) Snapshot() ([]CartItem, Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items(), s.cart.Summarize()
}

// Submit validates and submits the cart as an order. The cart is cleared
// only after submit reports success; on failure it is left intact for the
// cashier to retry or adjust.
func (s *Session) Submit(ctx context.Context, payment PaymentRequest, submit SubmitFunc) (int64, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return 0, models.ErrSubmitInFlight
	}
	if s.cart.IsEmpty() {
		s.mu.Unlock()
		return 0, models.ErrEmptyCart
	}

	if _, err := ValidatePayment(payment, s.cart.Summarize().Total); err != nil {
		s.mu.Unlock()
		return 0, err
	}

	if s.idemKey == "" {
		s.idemKey = uuid.New().String()
	}
	items := s.cart.Items()
	key := s.idemKey
	s.inFlight = true
	s.mu.Unlock()

	orderID, err := submit(ctx, items, payment, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		return 0, err
	}

	s.cart.Clear()
	s.idemKey = ""
	return orderID, nil
}

// SessionManager hands out one session per cashier. Sessions live in
// process memory only; a restart drops in-progress carts, matching the
// transient nature of the sale.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewSessionManager creates an empty session manager
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[int64]*Session)}
}

// Get returns the cashier's session, creating it on first use
func (sm *SessionManager) Get(cashierID int64) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if s, ok := sm.sessions[cashierID]; ok {
		return s
	}
	s := NewSession(cashierID)
	sm.sessions[cashierID] = s
	return s
}
