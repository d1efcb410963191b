package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/cart"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/checkout"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/domain"
)

type CheckoutHandler struct {
	carts    *cart.Service
	builder  *checkout.Builder
	pipeline *checkout.Pipeline
}

func NewCheckoutHandler(carts *cart.Service, builder *checkout.Builder, pipeline *checkout.Pipeline) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, builder: builder, pipeline: pipeline}
}

type PlaceOrderRequestDTO struct {
	IdempotencyKey string                `json:"idempotency_key"`
	Shipping       domain.ShippingInfo   `json:"shipping"`
	PaymentMethod  domain.PaymentMethod  `json:"payment_method"`
	PaymentDetails domain.PaymentDetails `json:"payment_details"`
}

// POST /api/v1/checkout
//
// Shipping and payment field validation happens upstream in the form layer;
// this endpoint only checks structural basics before snapshotting the cart.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.IdempotencyKey == "" {
		respondError(w, http.StatusBadRequest, "missing_idempotency_key", "idempotency_key is required")
		return
	}
	if !req.PaymentMethod.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_payment_method", "unknown payment method")
		return
	}

	snapshot := h.carts.Get(r.Context(), userID)

	draft, err := h.builder.Build(snapshot, req.Shipping, req.PaymentMethod, req.PaymentDetails)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			// Reaching checkout with an empty cart is a navigation
			// problem, not an error: send the client back to the cart.
			http.Redirect(w, r, "/cart", http.StatusSeeOther)
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "failed to build order draft")
		return
	}

	confirmation, err := h.pipeline.Submit(r.Context(), userID, draft, req.IdempotencyKey)
	if err != nil {
		var partial *checkout.PartialWriteError
		if errors.As(err, &partial) {
			log.Printf("partial order write for user %s: %v", userID, partial)
			respondError(w, http.StatusInternalServerError, "order_incomplete",
				"your order could not be completed; your cart is unchanged, please retry")
			return
		}
		log.Printf("order submission failed for user %s: %v", userID, err)
		respondError(w, http.StatusServiceUnavailable, "store_unavailable",
			"order could not be placed; please retry")
		return
	}

	respondJSON(w, http.StatusCreated, confirmation)
}
