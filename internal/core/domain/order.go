package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// validOrderTransitions defines the allowed state machine transitions.
var validOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusConfirmed:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:        {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
}

var ErrInvalidOrderTransition = errors.New("invalid order status transition")

// CanTransitionTo reports whether a transition from the current status to next
// is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validOrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a snapshot of a cart line at order time. Price is copied so
// later catalog edits do not rewrite order history.
type OrderItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Name      string  `json:"name" bson:"name"`
	Qty       int     `json:"qty" bson:"qty"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
	Currency  string  `json:"currency" bson:"currency"`
}

// StatusHistoryEntry records a single status transition on an order.
type StatusHistoryEntry struct {
	Status    OrderStatus `json:"status" bson:"status"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
	Notes     string      `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Order is placed from a cart and owns an immutable item snapshot.
type Order struct {
	ID            string               `json:"id" bson:"_id,omitempty"`
	OrderNumber   string               `json:"order_number" bson:"order_number"`
	UserID        string               `json:"user_id" bson:"user_id"`
	CartID        string               `json:"cart_id" bson:"cart_id"`
	Items         []OrderItem          `json:"items" bson:"items"`
	Total         float64              `json:"total" bson:"total"`
	Currency      string               `json:"currency" bson:"currency"`
	Status        OrderStatus          `json:"status" bson:"status"`
	StatusHistory []StatusHistoryEntry `json:"status_history" bson:"status_history"`
	IsActive      bool                 `json:"is_active" bson:"is_active"`
	IsDeleted     bool                 `json:"is_deleted" bson:"is_deleted"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
}
