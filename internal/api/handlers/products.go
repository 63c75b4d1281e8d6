package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pricewatch/pricewatch/internal/store"
	domain "github.com/pricewatch/pricewatch/pkg/types"
)

// ProductHandler handles product CRUD and price history operations.
type ProductHandler struct {
	store store.Store
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(s store.Store) *ProductHandler {
	return &ProductHandler{store: s}
}

// ProductListResponse is the paginated product list body.
type ProductListResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// List handles GET /api/v1/products.
//
// @Summary List products
// @Description Returns tracked products with optional filters and pagination.
// @Tags products
// @Produce json
// @Param user_id query string false "Filter by owning user UUID"
// @Param notifications_enabled query string false "Filter by notification flag" Enums(true, false)
// @Param limit query int false "Page size (default 50, max 500)"
// @Param offset query int false "Page offset"
// @Param order_by query string false "Sort order" Enums(created_at, name, last_checked_at)
// @Success 200 {object} ProductListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	q := &store.ProductQuery{
		OrderBy: c.QueryParam("order_by"),
	}

	if v := c.QueryParam("user_id"); v != "" {
		q.UserID = &v
	}
	if v := c.QueryParam("notifications_enabled"); v != "" {
		enabled := v == "true"
		q.NotificationsEnabled = &enabled
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Offset = n
		}
	}

	products, total, err := h.store.ListProducts(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "listing products: " + err.Error(),
		})
	}

	if products == nil {
		products = []domain.Product{}
	}

	return c.JSON(http.StatusOK, ProductListResponse{
		Products: products,
		Total:    total,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
}

// Get handles GET /api/v1/products/:id.
//
// @Summary Get a product by ID
// @Description Returns a single product with its full price history.
// @Tags products
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := h.store.GetProduct(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "product not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "getting product: " + err.Error(),
		})
	}

	p.History, err = h.store.ListPriceHistory(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "loading price history: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, p)
}

// Create handles POST /api/v1/products.
//
// @Summary Track a product
// @Description Starts tracking a product URL for an existing user.
// @Tags products
// @Accept json
// @Produce json
// @Param product body domain.Product true "Product to track"
// @Success 201 {object} domain.Product
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var p domain.Product
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if p.Name == "" || p.URL == "" || p.UserID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "name, url and user_id are required",
		})
	}

	if err := h.store.CreateProduct(c.Request().Context(), &p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "owning user not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "creating product: " + err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /api/v1/products/:id. Only name, url, target price and
// the notification flag are editable; the current price belongs to the
// monitoring sweep.
//
// @Summary Update a product
// @Description Updates a product's editable fields by its UUID.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product UUID"
// @Param product body domain.Product true "Updated product"
// @Success 200 {object} domain.Product
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var p domain.Product
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}
	p.ID = c.Param("id")

	if p.Name == "" || p.URL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "name and url are required",
		})
	}

	if err := h.store.UpdateProduct(c.Request().Context(), &p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "product not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "updating product: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /api/v1/products/:id. The product's price history
// is removed with it.
//
// @Summary Stop tracking a product
// @Description Deletes a product together with its price history.
// @Tags products
// @Produce json
// @Param id path string true "Product UUID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.store.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "product not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "deleting product: " + err.Error(),
		})
	}

	return c.NoContent(http.StatusNoContent)
}

// History handles GET /api/v1/products/:id/history.
//
// @Summary Get price history
// @Description Returns a product's recorded prices, newest first.
// @Tags products
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {array} domain.PriceHistoryEntry
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/products/{id}/history [get]
func (h *ProductHandler) History(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	// Distinguish an unknown product from one with no history yet.
	if _, err := h.store.GetProduct(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "product not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "getting product: " + err.Error(),
		})
	}

	history, err := h.store.ListPriceHistory(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "loading price history: " + err.Error(),
		})
	}

	if history == nil {
		history = []domain.PriceHistoryEntry{}
	}

	return c.JSON(http.StatusOK, history)
}
