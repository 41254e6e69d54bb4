package ports

import (
	"context"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
)

// ProductRepository defines catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	FindActiveByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, in ListProductsInput) ([]domain.Product, int64, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error)
	SoftDelete(ctx context.Context, id string) error
}

// CreateProductInput carries the data for a new catalog item.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Currency    string
	Category    string
	ImageURL    string
	AddedBy     string
}

// ProductPatch carries partial catalog updates. Nil fields are untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	ImageURL    *string
	UpdatedBy   string
}

// ListProductsInput carries filters and pagination for catalog listing.
type ListProductsInput struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// ListProductsResult is the paginated catalog view.
type ListProductsResult struct {
	Items      []domain.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ProductService defines catalog use cases. Mutations are admin-only and
// enforced at the transport layer.
type ProductService interface {
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, in ListProductsInput) (*ListProductsResult, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error)
	SoftDelete(ctx context.Context, id string) error
}
