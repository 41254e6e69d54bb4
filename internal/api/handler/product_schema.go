package handler

import "github.com/shopstack/ecommerce-api/internal/core/domain"

type createProductRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Currency    string  `json:"currency"    validate:"omitempty,len=3"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

type updateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Category    *string  `json:"category,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listProductsResponse struct {
	Data       []domain.Product   `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
