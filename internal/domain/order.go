package domain

import "time"

// OrderStatus represents lifecycle states for an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is a placed order with a snapshot of the cart at placement time.
type Order struct {
	ID        string
	UserID    string
	Reference string
	Status    OrderStatus
	Total     float64
	Lines     []OrderLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine copies name and unit price from the cart line; later catalog
// price changes do not affect placed orders.
type OrderLine struct {
	ProductID string
	Name      string
	UnitPrice float64
	Quantity  int
}
