package handler

import "github.com/shopstack/ecommerce-api/internal/core/domain"

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

type listOrdersResponse struct {
	Data       []domain.Order     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
