package cart

import (
	"context"
	"errors"
	"log"

	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/domain"
)

// Service owns the cart aggregate for the active session. Mutations are
// applied in memory and mirrored to the persistent slot; a slot that fails
// to load is treated as a cold start rather than an error.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get loads the persisted cart, falling back to an empty cart when the slot
// is absent, corrupt, or unreadable.
func (s *Service) Get(ctx context.Context, userID string) *domain.Cart {
	loaded, err := s.store.Load(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNoSavedCart) {
			log.Printf("cart load failed for user %s, starting cold: %v", userID, err)
		}
		return &domain.Cart{UserID: userID}
	}
	return loaded
}

// AddItem merges the line into the cart (same product id increments the
// existing quantity) and syncs the slot.
func (s *Service) AddItem(ctx context.Context, userID string, line domain.CartLine) (*domain.Cart, error) {
	if line.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	c := s.Get(ctx, userID)
	c.Add(line)
	s.sync(ctx, c)
	return c, nil
}

// RemoveItem deletes the matching line; removing an absent product is a
// no-op. When the last line goes, the persisted slot is cleared rather than
// storing an empty list.
func (s *Service) RemoveItem(ctx context.Context, userID string, productID int64) *domain.Cart {
	c := s.Get(ctx, userID)
	c.Remove(productID)
	s.sync(ctx, c)
	return c
}

// UpdateQuantity replaces a line's quantity. Quantities below 1 are
// rejected and leave both the aggregate and the slot untouched. No clamping
// to stock happens here.
func (s *Service) UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	c := s.Get(ctx, userID)
	if c.SetQuantity(productID, quantity) {
		s.sync(ctx, c)
	}
	return c, nil
}

// Clear empties the cart and removes the persisted slot. Used after a
// successful order placement and on explicit user action.
func (s *Service) Clear(ctx context.Context, userID string) {
	if err := s.store.Clear(ctx, userID); err != nil {
		log.Printf("cart slot clear failed for user %s: %v", userID, err)
	}
}

// ItemCount returns the badge count for the user's cart.
func (s *Service) ItemCount(ctx context.Context, userID string) int {
	return s.Get(ctx, userID).ItemCount()
}

// sync mirrors the aggregate into the slot. An empty cart removes the slot
// so "no cart" and "empty cart" stay distinguishable. Persistence failures
// are logged, never surfaced to the caller.
func (s *Service) sync(ctx context.Context, c *domain.Cart) {
	var err error
	if c.IsEmpty() {
		err = s.store.Clear(ctx, c.UserID)
	} else {
		err = s.store.Save(ctx, c)
	}
	if err != nil {
		log.Printf("cart sync failed for user %s: %v", c.UserID, err)
	}
}
