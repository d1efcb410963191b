package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/metrics"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/pkg/auth"
)

type RouterDeps struct {
	Auth     *auth.Manager
	Metrics  *metrics.ServerMetrics
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Products *ProductHandler
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(RequestIDMiddleware)
	if deps.Metrics != nil {
		r.Use(MetricsMiddleware(deps.Metrics))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", deps.Products.ListProducts)
		r.Get("/products/{productID}", deps.Products.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(deps.Auth))

			r.Get("/cart", deps.Cart.GetCart)
			r.Post("/cart/items", deps.Cart.AddItem)
			r.Patch("/cart/items/{productID}", deps.Cart.UpdateQuantity)
			r.Delete("/cart/items/{productID}", deps.Cart.RemoveItem)
			r.Delete("/cart", deps.Cart.ClearCart)

			r.Post("/checkout", deps.Checkout.PlaceOrder)

			r.Get("/orders", deps.Orders.ListOrders)
			r.Get("/orders/stream", deps.Orders.StreamUpdates)
		})
	})

	return r
}
