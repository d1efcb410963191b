package http

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/domain"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/repository"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/status"
)

// SourceFactory opens a fresh push subscription scoped to one user. Each
// event-stream connection owns its subscription and tears it down on
// disconnect.
type SourceFactory func(userID string) status.EventSource

type OrdersHandler struct {
	repo    repository.OrderRepository
	sources SourceFactory
}

func NewOrdersHandler(repo repository.OrderRepository, sources SourceFactory) *OrdersHandler {
	return &OrdersHandler{repo: repo, sources: sources}
}

type OrderLineDTO struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type OrderResponseDTO struct {
	ID          int64          `json:"id"`
	Number      string         `json:"number"`
	Status      string         `json:"status"`
	StatusLabel string         `json:"status_label"`
	Total       float64        `json:"total"`
	Lines       []OrderLineDTO `json:"lines"`
	CreatedAt   string         `json:"created_at"`
}

func convertOrder(o *domain.Order) OrderResponseDTO {
	lines := make([]OrderLineDTO, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, OrderLineDTO{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Price:       line.Price,
		})
	}
	return OrderResponseDTO{
		ID:          o.ID,
		Number:      o.Number,
		Status:      o.Status.String(),
		StatusLabel: o.Status.Label(),
		Total:       o.Total,
		Lines:       lines,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
	}
}

// GET /api/v1/orders
//
// The wholesale refresh path: the full list with nested lines and product
// names, newest first.
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.repo.ListOrdersByUser(r.Context(), userID)
	if err != nil {
		log.Printf("failed to list orders for user %s: %v", userID, err)
		respondError(w, http.StatusBadGateway, "store_unavailable", "could not load orders")
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, convertOrder(o))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/stream
//
// Server-sent events: an initial "orders" snapshot followed by a "status"
// event per observed change. The subscription lives exactly as long as the
// connection; closing the stream tears it down.
func (h *OrdersHandler) StreamUpdates(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming_unsupported", "response writer cannot stream")
		return
	}

	ctx := r.Context()
	observer := status.NewObserver(userID, h.repo, h.sources(userID))
	defer func() {
		if err := observer.Close(); err != nil {
			log.Printf("failed to close status subscription for user %s: %v", userID, err)
		}
	}()
	go observer.Run(ctx)

	orders, err := observer.Refresh(ctx)
	if err != nil {
		respondError(w, http.StatusBadGateway, "store_unavailable", "could not load orders")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, convertOrder(o))
	}
	writeSSE(w, "orders", dtos)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-observer.Notifications():
			writeSSE(w, "status", n)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", event, err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
