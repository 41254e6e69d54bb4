package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopstack/ecommerce-api/internal/api/middleware"
	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

// UserHandler exposes self-service profile operations. All routes sit behind
// the auth middleware, so the subject is always the token owner.
type UserHandler struct {
	users ports.UserRepository
}

func NewUserHandler(users ports.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the caller's profile.
//
// @Summary      Get own profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, ok := c.Get(middleware.CtxUser).(*domain.User)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return c.JSON(http.StatusOK, userResponse{Data: user.Public()})
}

// Update patches the caller's profile fields.
//
// @Summary      Update own profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to update"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  errorResponse
// @Router       /user/me [put]
func (h *UserHandler) Update(c echo.Context) error {
	userID, ok := c.Get(middleware.CtxUserID).(string)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	updated, err := h.users.UpdateProfile(c.Request().Context(), userID, ports.ProfilePatch{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Data: updated.Public()})
}

// SoftDelete marks the caller's account deleted.
//
// @Summary      Soft delete own account
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /user/me [delete]
func (h *UserHandler) SoftDelete(c echo.Context) error {
	userID, ok := c.Get(middleware.CtxUserID).(string)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	if err := h.users.SoftDelete(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "account deleted"})
}
