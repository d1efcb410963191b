package status

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/domain"
)

// Event is a pushed row-update for a single order. The back office drives
// these; this service only observes them.
type Event struct {
	OrderID   int64              `json:"order_id"`
	UserID    string             `json:"user_id"`
	Status    domain.OrderStatus `json:"status"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Notification is the user-visible message emitted when an observed order
// changes status.
type Notification struct {
	OrderNumber string             `json:"order_number"`
	Status      domain.OrderStatus `json:"status"`
	Message     string             `json:"message"`
	At          time.Time          `json:"at"`
}

// EventSource abstracts the push subscription feeding the observer.
type EventSource interface {
	ReadEvent(ctx context.Context) (Event, error)
	Close() error
}

// OrderLister is the repository slice used by the manual refresh path.
type OrderLister interface {
	ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
}

// Observer keeps the displayed order list of one user consistent with
// externally driven status changes. Push events merge by order id; a manual
// refresh replaces the list wholesale. Both paths funnel through the Run
// loop so they cannot corrupt each other.
type Observer struct {
	userID string
	repo   OrderLister
	source EventSource
	sfg    singleflight.Group

	events   chan Event
	replacec chan []*domain.Order
	notifs   chan Notification

	mu     sync.RWMutex
	orders []*domain.Order
}

func NewObserver(userID string, repo OrderLister, source EventSource) *Observer {
	return &Observer{
		userID:   userID,
		repo:     repo,
		source:   source,
		events:   make(chan Event, 16),
		replacec: make(chan []*domain.Order, 1),
		notifs:   make(chan Notification, 16),
	}
}

// Run owns all writes to the order list. It returns when ctx is cancelled;
// in-flight results arriving afterwards are dropped.
func (o *Observer) Run(ctx context.Context) {
	go o.readLoop(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-o.events:
			o.apply(ev)
		case orders := <-o.replacec:
			o.replace(orders)
		}
	}
}

func (o *Observer) readLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		ev, err := o.source.ReadEvent(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("status event read failed: %v", err)
			continue
		}
		select {
		case o.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Refresh re-fetches the full order list (with lines and product names) and
// hands it to the reducer as a wholesale replacement. This is the only path
// that surfaces newly created orders, since the subscription observes
// updates, not inserts. Concurrent refreshes collapse into one fetch.
//
// The returned slice belongs to the caller; the reducer works on its own
// copy, so later push events never mutate it.
func (o *Observer) Refresh(ctx context.Context) ([]*domain.Order, error) {
	v, err, _ := o.sfg.Do(o.userID, func() (interface{}, error) {
		return o.repo.ListOrdersByUser(ctx, o.userID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to refresh orders: %w", err)
	}
	orders := v.([]*domain.Order)

	select {
	case o.replacec <- cloneOrders(orders):
	case <-ctx.Done():
		// View already gone; the reducer never sees this result, but the
		// caller still gets the fetched list.
	}
	return orders, nil
}

// Orders returns a snapshot of the locally held list. The structs are
// copies; the reducer keeps mutating only its own.
func (o *Observer) Orders() []*domain.Order {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return cloneOrders(o.orders)
}

// Notifications delivers status-change messages for display. Slow consumers
// lose messages rather than blocking the reducer.
func (o *Observer) Notifications() <-chan Notification {
	return o.notifs
}

func (o *Observer) Close() error {
	return o.source.Close()
}

// apply merges one push event into the local list by order id. Events for
// other users or for orders not currently listed are ignored, not appended.
// No transition legality is enforced; the backend value is trusted verbatim.
func (o *Observer) apply(ev Event) {
	if ev.UserID != o.userID {
		return
	}

	o.mu.Lock()
	var hit *domain.Order
	for _, order := range o.orders {
		if order.ID == ev.OrderID {
			hit = order
			break
		}
	}
	if hit == nil {
		o.mu.Unlock()
		log.Printf("ignoring status event for unlisted order %d", ev.OrderID)
		return
	}
	if !ev.Status.Known() {
		log.Printf("order %s: unrecognised status %q from backend, rendering as-is", hit.Number, ev.Status)
	}
	hit.Status = ev.Status
	if !ev.UpdatedAt.IsZero() {
		hit.UpdatedAt = ev.UpdatedAt
	}
	number := hit.Number
	o.mu.Unlock()

	o.notify(Notification{
		OrderNumber: number,
		Status:      ev.Status,
		Message:     fmt.Sprintf("Order %s is now %s", number, ev.Status.Label()),
		At:          time.Now(),
	})
}

func (o *Observer) replace(orders []*domain.Order) {
	o.mu.Lock()
	o.orders = orders
	o.mu.Unlock()
}

func cloneOrders(orders []*domain.Order) []*domain.Order {
	out := make([]*domain.Order, len(orders))
	for i, order := range orders {
		c := *order
		c.Lines = append([]domain.OrderLine(nil), order.Lines...)
		out[i] = &c
	}
	return out
}

func (o *Observer) notify(n Notification) {
	select {
	case o.notifs <- n:
	default:
		log.Printf("dropping notification for order %s: consumer too slow", n.OrderNumber)
	}
}
