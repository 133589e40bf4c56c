package entity

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus is the fixed lifecycle enum the gateway uses for orders.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether the status is one of the gateway's known values.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order mirrors the gateway's order resource. UserID is a weak reference: the
// order exists independently of whether the user lookup succeeds.
type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"userId"`
	Product     string      `json:"product"`
	Price       float64     `json:"price"`
	Quantity    int         `json:"quantity"`
	Status      OrderStatus `json:"status"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// OrderWithUser is the composite the gateway assembles by joining an order
// with its user at query time. It is a transient view, never cached as an
// entity of its own.
type OrderWithUser struct {
	OrderID     int64       `json:"orderId"`
	Product     string      `json:"product"`
	Price       float64     `json:"price"`
	Quantity    int         `json:"quantity"`
	Status      OrderStatus `json:"status"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	User        *User       `json:"user"`
}

// CreateOrderRequest is the POST /orders body.
type CreateOrderRequest struct {
	UserID      int64       `json:"userId"`
	Product     string      `json:"product"`
	Price       float64     `json:"price"`
	Quantity    int         `json:"quantity,omitempty"`
	Description string      `json:"description,omitempty"`
	Status      OrderStatus `json:"status,omitempty"`
}

// UpdateOrderRequest is the PUT /orders/{id} body, same shape as create.
type UpdateOrderRequest = CreateOrderRequest

// Validate performs the required/min/max checks the form layer relies on.
func (r CreateOrderRequest) Validate() error {
	if r.UserID <= 0 {
		return fmt.Errorf("userId is required")
	}
	if strings.TrimSpace(r.Product) == "" {
		return fmt.Errorf("product is required")
	}
	if r.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	// Zero means the field was left unset; omitempty drops it from the
	// body and the gateway applies its default.
	if r.Quantity != 0 && r.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	if r.Status != "" && !r.Status.Valid() {
		return fmt.Errorf("unknown order status %q", r.Status)
	}
	return nil
}

// OrderStatistics is a read-only aggregate snapshot computed by the gateway.
type OrderStatistics struct {
	TotalOrders     int64 `json:"totalOrders"`
	PendingOrders   int64 `json:"pendingOrders"`
	ConfirmedOrders int64 `json:"confirmedOrders"`
	ShippedOrders   int64 `json:"shippedOrders"`
	DeliveredOrders int64 `json:"deliveredOrders"`
	CancelledOrders int64 `json:"cancelledOrders"`
}

// UserOrderStatistics aggregates one user's order history.
type UserOrderStatistics struct {
	UserID          int64   `json:"userId"`
	TotalOrders     int64   `json:"totalOrders"`
	TotalOrderValue float64 `json:"totalOrderValue"`
}
