package ports

import (
	"context"
	"time"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
)

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	List(ctx context.Context, in ListOrdersInput) ([]domain.Order, int64, error)
	// UpdateStatus atomically sets the order status and appends a history
	// entry.
	UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus, ts time.Time, notes string) error
}

// ListOrdersInput carries filters and pagination for order listing. An empty
// UserID lists across all users (admin only).
type ListOrdersInput struct {
	UserID string
	Status string
	Page   int
	Limit  int
}

// ListOrdersResult is the paginated order view.
type ListOrdersResult struct {
	Items      []domain.Order
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// OrderService defines order use cases.
type OrderService interface {
	// PlaceOrder snapshots the user's cart into an order and clears the cart.
	// The confirmation notification is dispatched asynchronously.
	PlaceOrder(ctx context.Context, userID string) (*domain.Order, error)
	Get(ctx context.Context, orderNumber, userID string, isAdmin bool) (*domain.Order, error)
	List(ctx context.Context, in ListOrdersInput) (*ListOrdersResult, error)
	UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus, notes string) error
}

// OrderNotification is handed to the notification dispatcher after an order
// is placed.
type OrderNotification struct {
	Email       string
	OrderNumber string
	Total       float64
	Currency    string
}
