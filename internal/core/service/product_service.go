package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ProductService implements catalog use cases over the product repository.
type ProductService struct {
	repo ports.ProductRepository
	log  zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, log zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, log: log}
}

func (s *ProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	if in.Name == "" || in.Price <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}

	now := time.Now().UTC()
	product := &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Currency:    in.Currency,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		AddedBy:     in.AddedBy,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return created, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindActiveByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, in ports.ListProductsInput) (*ports.ListProductsResult, error) {
	in.Page, in.Limit = normalizePage(in.Page, in.Limit)

	items, total, err := s.repo.List(ctx, in)
	if err != nil {
		return nil, err
	}
	return &ports.ListProductsResult{
		Items:      items,
		Total:      total,
		Page:       in.Page,
		Limit:      in.Limit,
		TotalPages: totalPages(total, in.Limit),
	}, nil
}

func (s *ProductService) Update(ctx context.Context, id string, patch ports.ProductPatch) (*domain.Product, error) {
	if patch.Price != nil && *patch.Price <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *ProductService) SoftDelete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
