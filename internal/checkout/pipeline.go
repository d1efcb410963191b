package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/domain"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/repository"
)

// CartClearer is the slice of the cart service the pipeline needs once an
// order is durably committed.
type CartClearer interface {
	Clear(ctx context.Context, userID string)
}

// Confirmation carries the human-facing order number shown after placement.
type Confirmation struct {
	OrderID   int64     `json:"order_id"`
	Number    string    `json:"number"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// PartialWriteError marks the known inconsistency where the order header was
// persisted but its lines were not. The cart is left intact so the user can
// retry; no compensating delete is attempted.
type PartialWriteError struct {
	OrderID int64
	Number  string
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("order %s persisted without lines: %v", e.Number, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// Pipeline commits an order draft to the external store: one order header,
// then one row per line at the draft's captured prices. The circuit breaker
// keeps a flapping backend from being hammered by retries.
type Pipeline struct {
	repo    repository.OrderRepository
	carts   CartClearer
	breaker *gobreaker.CircuitBreaker[*domain.Order]
}

func NewPipeline(repo repository.OrderRepository, carts CartClearer) *Pipeline {
	breaker := gobreaker.NewCircuitBreaker[*domain.Order](gobreaker.Settings{
		Name: "order-store",
	})
	return &Pipeline{repo: repo, carts: carts, breaker: breaker}
}

// Submit persists the draft. A retry after a failed header insert is safe
// (nothing was persisted); a retry after a failed line insert finds the
// existing order via the idempotency key instead of duplicating it.
func (p *Pipeline) Submit(ctx context.Context, userID string, draft *domain.OrderDraft, idempotencyKey string) (*Confirmation, error) {
	if draft == nil || len(draft.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if idempotencyKey == "" {
		return nil, errors.New("idempotency key is required")
	}

	existing, err := p.repo.FindOrderByIdempotencyKey(ctx, idempotencyKey)
	if err != nil && !errors.Is(err, repository.ErrOrderNotFound) {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if existing != nil {
		log.Printf("duplicate submission detected, idempotency_key=%s order=%s", idempotencyKey, existing.Number)
		return p.resume(ctx, userID, existing, draft)
	}

	order := &domain.Order{
		Number:         newOrderNumber(),
		UserID:         userID,
		Status:         domain.OrderStatusPending,
		Total:          draft.Total,
		IdempotencyKey: idempotencyKey,
	}

	order, err = p.breaker.Execute(func() (*domain.Order, error) {
		if e := p.repo.CreateOrder(ctx, order); e != nil {
			return nil, e
		}
		return order, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSubmission) {
			// Lost a race with a concurrent retry; the winner's order
			// is the one to report.
			winner, findErr := p.repo.FindOrderByIdempotencyKey(ctx, idempotencyKey)
			if findErr != nil {
				return nil, fmt.Errorf("failed to load racing submission: %w", findErr)
			}
			return confirmationFor(winner), nil
		}
		// Nothing persisted; the caller may re-invoke the same action.
		return nil, fmt.Errorf("order not persisted: %w", err)
	}

	if err := p.repo.InsertOrderLines(ctx, order.ID, linesFor(order.ID, draft.Items)); err != nil {
		// Known gap: the order header exists with no lines. The cart is
		// deliberately NOT cleared so the user can retry.
		return nil, &PartialWriteError{OrderID: order.ID, Number: order.Number, Err: err}
	}

	p.carts.Clear(ctx, userID)
	return confirmationFor(order), nil
}

// resume converges a replayed submission. A complete order is re-confirmed
// as-is. An order left lineless by an earlier partial write gets its lines
// inserted from the retried draft before confirming; until that succeeds the
// replay keeps reporting PartialWriteError, never a confirmation for an
// empty order.
func (p *Pipeline) resume(ctx context.Context, userID string, order *domain.Order, draft *domain.OrderDraft) (*Confirmation, error) {
	if len(order.Lines) > 0 {
		return confirmationFor(order), nil
	}

	if err := p.repo.InsertOrderLines(ctx, order.ID, linesFor(order.ID, draft.Items)); err != nil {
		return nil, &PartialWriteError{OrderID: order.ID, Number: order.Number, Err: err}
	}

	p.carts.Clear(ctx, userID)
	return confirmationFor(order), nil
}

func linesFor(orderID int64, items []domain.CartLine) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.OrderLine{
			OrderID:     orderID,
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			Price:       item.UnitPrice,
		})
	}
	return lines
}

func confirmationFor(order *domain.Order) *Confirmation {
	return &Confirmation{
		OrderID:   order.ID,
		Number:    order.Number,
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
	}
}

func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("EH%s%s", time.Now().Format("060102"), suffix)
}
