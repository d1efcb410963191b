package cart

import (
	"context"
	"errors"

	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/domain"
)

// Store is the durable key-value slot that mirrors the cart aggregate
// between sessions. An empty cart is represented by the absence of the slot,
// never by a stored empty list.
type Store interface {
	Load(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Clear(ctx context.Context, userID string) error
}

// ErrNoSavedCart is returned by Load when no slot exists for the user, or
// when the stored payload was corrupt and has been discarded.
var ErrNoSavedCart = errors.New("no saved cart")

// ErrInvalidQuantity rejects quantity updates below 1.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")
