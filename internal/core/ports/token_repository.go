package ports

import (
	"context"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
)

// TokenRepository persists issued session tokens. Records are append-only;
// revocation marks them expired instead of deleting.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.SessionToken) (*domain.SessionToken, error)
	FindByToken(ctx context.Context, token string) (*domain.SessionToken, error)
	MarkExpired(ctx context.Context, id string) error
}
