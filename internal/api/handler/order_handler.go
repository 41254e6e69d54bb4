package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shopstack/ecommerce-api/internal/api/metrics"
	"github.com/shopstack/ecommerce-api/internal/api/middleware"
	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

// OrderHandler exposes order placement and tracking. Regular users only see
// their own orders, admins see everything and drive status transitions.
type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func isAdmin(c echo.Context) bool {
	return c.Get(middleware.CtxUserType).(domain.UserType) == domain.UserTypeAdmin
}

// Place converts the caller's cart into an order.
//
// @Summary      Place an order
// @Tags         orders
// @Produce      json
// @Success      201  {object}  domain.Order
// @Failure      422  {object}  errorResponse
// @Router       /orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	order, err := h.orders.PlaceOrder(c.Request().Context(), callerID(c))
	if err != nil {
		return err
	}

	metrics.OrdersPlacedTotal.WithLabelValues(order.Currency).Inc()
	return c.JSON(http.StatusCreated, order)
}

// Get returns a single order by its order number.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        orderNumber  path      string  true  "Order number"
// @Success      200          {object}  domain.Order
// @Failure      404          {object}  errorResponse
// @Router       /orders/{orderNumber} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.orders.Get(c.Request().Context(), c.Param("orderNumber"), callerID(c), isAdmin(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// List returns a paginated order view. Regular users are pinned to their own
// orders, admins may filter by user or see all.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        status   query     string  false  "Filter by status"
// @Param        user_id  query     string  false  "Filter by user (admin only)"
// @Param        page     query     int     false  "Page number"
// @Param        limit    query     int     false  "Page size"
// @Success      200      {object}  listOrdersResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	userID := callerID(c)
	if isAdmin(c) {
		userID = c.QueryParam("user_id")
	}

	result, err := h.orders.List(c.Request().Context(), ports.ListOrdersInput{
		UserID: userID,
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listOrdersResponse{
		Data: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// UpdateStatus moves an order through its lifecycle.
//
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        orderNumber  path      string                    true  "Order number"
// @Param        body         body      updateOrderStatusRequest  true  "Target status"
// @Success      200          {object}  messageResponse
// @Failure      404          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /orders/{orderNumber}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	err := h.orders.UpdateStatus(c.Request().Context(), c.Param("orderNumber"), domain.OrderStatus(req.Status), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "order status updated"})
}
