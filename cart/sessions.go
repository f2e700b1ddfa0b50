package cart

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/burgerhouse/models"
)

var ErrCheckoutInProgress = errors.New("checkout already in progress")

// Sessions owns one Cart per signed-in customer.
type Sessions struct {
	mu          sync.Mutex
	carts       map[uuid.UUID]*Cart
	checkingOut map[uuid.UUID]bool
}

func NewSessions() *Sessions {
	return &Sessions{
		carts:       make(map[uuid.UUID]*Cart),
		checkingOut: make(map[uuid.UUID]bool),
	}
}

func (s *Sessions) cart(userID uuid.UUID) *Cart {
	c, ok := s.carts[userID]
	if !ok {
		c = New()
		s.carts[userID] = c
	}
	return c
}

// With runs fn against the customer's cart, creating it on first use. No other
// call for any customer runs while fn does, so fn must not block.
func (s *Sessions) With(userID uuid.UUID, fn func(c *Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cart(userID))
}

// Snapshot copies the customer's lines and subtotal.
func (s *Sessions) Snapshot(userID uuid.UUID) ([]models.CartItem, decimal.Decimal) {
	var (
		items    []models.CartItem
		subtotal decimal.Decimal
	)
	s.With(userID, func(c *Cart) {
		items = c.Items()
		subtotal = c.Subtotal()
	})
	return items, subtotal
}

// Clear forgets the customer's cart entirely, e.g. on sign-out.
func (s *Sessions) Clear(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// Checkout hands fn a copy of the customer's lines and subtotal. fn may block;
// other cart calls keep running meanwhile, but a second Checkout for the same
// customer fails with ErrCheckoutInProgress. When fn succeeds exactly the
// copied lines are removed, so lines added during fn stay in the cart.
func (s *Sessions) Checkout(userID uuid.UUID, fn func(lines []models.CartItem, subtotal decimal.Decimal) error) error {
	s.mu.Lock()
	if s.checkingOut[userID] {
		s.mu.Unlock()
		return ErrCheckoutInProgress
	}
	c := s.cart(userID)
	lines, subtotal := c.Items(), c.Subtotal()
	s.checkingOut[userID] = true
	s.mu.Unlock()

	placed := false
	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.checkingOut, userID)
		if !placed {
			return
		}
		if c, ok := s.carts[userID]; ok {
			for _, line := range lines {
				c.RemoveItem(line.CartID)
			}
		}
	}()

	if err := fn(lines, subtotal); err != nil {
		return err
	}
	placed = true
	return nil
}
