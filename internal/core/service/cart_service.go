package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

// CartService implements cart use cases, always scoped to the calling user.
// A cart is created lazily on the first AddItem.
type CartService struct {
	carts    ports.CartRepository
	products ports.ProductRepository
	log      zerolog.Logger
}

func NewCartService(carts ports.CartRepository, products ports.ProductRepository, log zerolog.Logger) *CartService {
	return &CartService{carts: carts, products: products, log: log}
}

func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.carts.FindActiveByUser(ctx, userID)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	if qty < 1 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.products.FindActiveByID(ctx, productID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	cart, err := s.carts.FindActiveByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrCartNotFound) {
			return nil, err
		}
		return s.carts.Create(ctx, &domain.Cart{
			UserID:    userID,
			Items:     []domain.CartItem{{ProductID: productID, Qty: qty, AddedAt: now}},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if line := cart.Item(productID); line != nil {
		line.Qty += qty
	} else {
		cart.Items = append(cart.Items, domain.CartItem{ProductID: productID, Qty: qty, AddedAt: now})
	}
	return s.carts.ReplaceItems(ctx, cart.ID, cart.Items)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	if qty < 1 {
		return nil, domain.ErrInvalidInput
	}
	cart, err := s.carts.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	line := cart.Item(productID)
	if line == nil {
		return nil, domain.ErrProductNotFound
	}
	line.Qty = qty
	return s.carts.ReplaceItems(ctx, cart.ID, cart.Items)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	cart, err := s.carts.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	kept := cart.Items[:0]
	found := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return nil, domain.ErrProductNotFound
	}
	return s.carts.ReplaceItems(ctx, cart.ID, kept)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	cart, err := s.carts.FindActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.carts.ReplaceItems(ctx, cart.ID, nil)
	return err
}
