package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pricewatch/pricewatch/internal/store"
	domain "github.com/pricewatch/pricewatch/pkg/types"
)

// UserHandler handles user CRUD operations.
type UserHandler struct {
	store store.Store
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(s store.Store) *UserHandler {
	return &UserHandler{store: s}
}

// Create handles POST /api/v1/users.
//
// @Summary Register a user
// @Description Creates a new user. Username and email must be unique.
// @Tags users
// @Accept json
// @Produce json
// @Param user body domain.User true "User to create"
// @Success 201 {object} domain.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var u domain.User
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if u.Username == "" || u.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "username and email are required",
		})
	}

	if err := h.store.CreateUser(c.Request().Context(), &u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return c.JSON(http.StatusConflict, map[string]string{
				"error": "username or email already taken",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "creating user: " + err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, u)
}

// Get handles GET /api/v1/users/:id.
//
// @Summary Get a user by ID
// @Description Returns a single user by its UUID.
// @Tags users
// @Produce json
// @Param id path string true "User UUID"
// @Success 200 {object} domain.User
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.store.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "user not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "getting user: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /api/v1/users/:id. The user's products and their
// price history are removed with it.
//
// @Summary Delete a user
// @Description Deletes a user together with its products and price history.
// @Tags users
// @Produce json
// @Param id path string true "User UUID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.store.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "user not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "deleting user: " + err.Error(),
		})
	}

	return c.NoContent(http.StatusNoContent)
}
