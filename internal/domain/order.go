package domain

import "time"

// OrderStatus values are driven by the back office and observed, not
// initiated, by this service except for the initial "pending" write.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Known reports whether the status is one of the closed enum values. The
// backend is trusted verbatim, so unknown values are still rendered; callers
// use Known to decide whether to log them.
func (s OrderStatus) Known() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Label returns the human-facing form of the status. Out-of-range values
// are displayed as-is rather than crashing the render path.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusProcessing:
		return "Processing"
	case OrderStatusShipped:
		return "Shipped"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

func (s OrderStatus) String() string {
	return string(s)
}

// OrderLine captures the price at order time; it is historical and never
// re-linked to the live catalog price.
type OrderLine struct {
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type Order struct {
	ID             int64       `json:"id"`
	Number         string      `json:"number"`
	UserID         string      `json:"user_id"`
	Status         OrderStatus `json:"status"`
	Total          float64     `json:"total"`
	IdempotencyKey string      `json:"-"`
	Lines          []OrderLine `json:"lines"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Product is the catalog read model consumed when a cart line is created.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}
