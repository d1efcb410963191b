package repository

import (
	"context"
	"errors"

	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/domain"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateSubmission signals that an order with the same
	// idempotency key was already persisted.
	ErrDuplicateSubmission = errors.New("order for this submission already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderRepository defines the storefront's view of the external order store.
// Consumers define this interface, not the Postgres implementation.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	InsertOrderLines(ctx context.Context, orderID int64, lines []domain.OrderLine) error
	FindOrderByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
}

type ProductRepository interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
}
