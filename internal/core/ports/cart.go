package ports

import (
	"context"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
)

// CartRepository persists per-user carts.
type CartRepository interface {
	Create(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
	FindActiveByUser(ctx context.Context, userID string) (*domain.Cart, error)
	ReplaceItems(ctx context.Context, cartID string, items []domain.CartItem) (*domain.Cart, error)
	SoftDelete(ctx context.Context, cartID string) error
}

// CartService defines cart use cases, always scoped to the calling user.
type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	// AddItem appends a product line, or bumps the quantity when the product
	// is already in the cart.
	AddItem(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) error
}
