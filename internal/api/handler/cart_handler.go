package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopstack/ecommerce-api/internal/api/middleware"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

// CartHandler exposes the calling user's cart. The user ID always comes from
// the session, never from the request, so a cart cannot be addressed across
// users.
type CartHandler struct {
	carts ports.CartService
}

func NewCartHandler(carts ports.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

func callerID(c echo.Context) string {
	return c.Get(middleware.CtxUserID).(string)
}

// Get returns the caller's cart.
//
// @Summary      Get cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  domain.Cart
// @Failure      404  {object}  errorResponse
// @Router       /cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	cart, err := h.carts.Get(c.Request().Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// AddItem adds a product to the caller's cart.
//
// @Summary      Add a cart item
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      addCartItemRequest  true  "Product and quantity"
// @Success      200   {object}  domain.Cart
// @Failure      404   {object}  errorResponse
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	cart, err := h.carts.AddItem(c.Request().Context(), callerID(c), req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// UpdateItem sets the quantity of a cart line.
//
// @Summary      Update a cart item
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        productId  path      string                 true  "Product ID"
// @Param        body       body      updateCartItemRequest  true  "New quantity"
// @Success      200        {object}  domain.Cart
// @Failure      404        {object}  errorResponse
// @Router       /cart/items/{productId} [put]
func (h *CartHandler) UpdateItem(c echo.Context) error {
	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	cart, err := h.carts.UpdateItem(c.Request().Context(), callerID(c), c.Param("productId"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// RemoveItem drops a cart line.
//
// @Summary      Remove a cart item
// @Tags         cart
// @Produce      json
// @Param        productId  path      string  true  "Product ID"
// @Success      200        {object}  domain.Cart
// @Failure      404        {object}  errorResponse
// @Router       /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	cart, err := h.carts.RemoveItem(c.Request().Context(), callerID(c), c.Param("productId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Clear empties the caller's cart.
//
// @Summary      Clear cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	if err := h.carts.Clear(c.Request().Context(), callerID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "cart cleared"})
}
