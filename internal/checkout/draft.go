package checkout

import (
	"errors"
	"time"

	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/domain"
)

// ErrEmptyCart guards the checkout entry point: the HTTP layer answers it
// with a redirect back to the cart view, never an error page.
var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// Builder turns a cart snapshot plus validated shipping and payment forms
// into an order draft. Form validation happens upstream; the builder assumes
// its input is valid.
type Builder struct {
	shippingFee float64
	taxRate     float64
}

func NewBuilder(shippingFee, taxRate float64) *Builder {
	return &Builder{shippingFee: shippingFee, taxRate: taxRate}
}

// Build computes the draft totals: subtotal from the captured lines, a flat
// shipping fee, and tax as a fixed percentage of the subtotal.
func (b *Builder) Build(cart *domain.Cart, shipping domain.ShippingInfo, method domain.PaymentMethod, details domain.PaymentDetails) (*domain.OrderDraft, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	items := make([]domain.CartLine, len(cart.Lines))
	copy(items, cart.Lines)

	subtotal := cart.Subtotal()
	tax := subtotal * b.taxRate

	return &domain.OrderDraft{
		Shipping:       shipping,
		PaymentMethod:  method,
		PaymentDetails: details,
		Items:          items,
		Subtotal:       subtotal,
		ShippingFee:    b.shippingFee,
		Tax:            tax,
		Total:          subtotal + b.shippingFee + tax,
		CapturedAt:     time.Now(),
	}, nil
}
