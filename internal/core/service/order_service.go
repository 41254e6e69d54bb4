package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

// NotificationDispatcher enqueues order notifications for asynchronous
// delivery.
type NotificationDispatcher interface {
	Enqueue(n ports.OrderNotification)
}

// OrderService places orders from carts and manages their status lifecycle.
type OrderService struct {
	orders     ports.OrderRepository
	carts      ports.CartRepository
	products   ports.ProductRepository
	users      ports.UserRepository
	dispatcher NotificationDispatcher
	log        zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, carts ports.CartRepository, products ports.ProductRepository, users ports.UserRepository, dispatcher NotificationDispatcher, log zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, carts: carts, products: products, users: users, dispatcher: dispatcher, log: log}
}

// PlaceOrder snapshots the user's cart into an order and clears the cart.
// Prices are copied at order time. The confirmation email is dispatched
// asynchronously and never blocks the order.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string) (*domain.Order, error) {
	cart, err := s.carts.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	now := time.Now().UTC()
	var (
		items    []domain.OrderItem
		total    float64
		currency string
	)
	for _, line := range cart.Items {
		product, err := s.products.FindActiveByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve cart item %s: %w", line.ProductID, err)
		}
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Qty:       line.Qty,
			UnitPrice: product.Price,
			Currency:  product.Currency,
		})
		total += product.Price * float64(line.Qty)
		currency = product.Currency
	}

	order := &domain.Order{
		OrderNumber: generateOrderNumber(),
		UserID:      userID,
		CartID:      cart.ID,
		Items:       items,
		Total:       total,
		Currency:    currency,
		Status:      domain.OrderStatusConfirmed,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: domain.OrderStatusConfirmed, Timestamp: now},
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	// Clearing the cart is best effort; a stale cart is harmless next to a
	// missing order.
	if _, err := s.carts.ReplaceItems(ctx, cart.ID, nil); err != nil {
		s.log.Warn().Err(err).Str("cart_id", cart.ID).Msg("failed to clear cart after order")
	}

	if s.dispatcher != nil {
		if user, err := s.users.FindActiveByID(ctx, userID); err == nil && user.Email != "" {
			s.dispatcher.Enqueue(ports.OrderNotification{
				Email:       user.Email,
				OrderNumber: created.OrderNumber,
				Total:       created.Total,
				Currency:    created.Currency,
			})
		}
	}

	s.log.Info().Str("order_number", created.OrderNumber).Str("user_id", userID).Float64("total", total).Msg("order placed")
	return created, nil
}

func (s *OrderService) Get(ctx context.Context, orderNumber, userID string, isAdmin bool) (*domain.Order, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	in.Page, in.Limit = normalizePage(in.Page, in.Limit)

	items, total, err := s.orders.List(ctx, in)
	if err != nil {
		return nil, err
	}
	return &ports.ListOrdersResult{
		Items:      items,
		Total:      total,
		Page:       in.Page,
		Limit:      in.Limit,
		TotalPages: totalPages(total, in.Limit),
	}, nil
}

// UpdateStatus applies a status transition after validating it against the
// order state machine.
func (s *OrderService) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus, notes string) error {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidOrderTransition, order.Status, status)
	}
	return s.orders.UpdateStatus(ctx, orderNumber, status, time.Now().UTC(), notes)
}

// generateOrderNumber returns a unique order number in the format ORD-XXXXXXXX.
func generateOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
