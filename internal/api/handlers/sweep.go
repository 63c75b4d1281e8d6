package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pricewatch/pricewatch/internal/engine"
	"github.com/pricewatch/pricewatch/internal/fetch"
	"github.com/pricewatch/pricewatch/internal/store"
	domain "github.com/pricewatch/pricewatch/pkg/types"
)

// Sweeper defines the engine operations exposed over HTTP.
type Sweeper interface {
	RunSweep(ctx context.Context) (engine.SweepStats, error)
	CheckProduct(ctx context.Context, productID string) (*domain.Product, error)
}

// SweepHandler handles manual sweep and single product check requests.
type SweepHandler struct {
	sweeper Sweeper
}

// NewSweepHandler creates a new SweepHandler.
func NewSweepHandler(s Sweeper) *SweepHandler {
	return &SweepHandler{sweeper: s}
}

// Sweep handles POST /api/v1/sweep. A sweep that is already running is
// not duplicated; the response reports the skip.
//
// @Summary Trigger a monitoring sweep
// @Description Checks the price of every tracked product once.
// @Tags sweep
// @Produce json
// @Success 200 {object} engine.SweepStats
// @Success 202 {object} engine.SweepStats
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/sweep [post]
func (h *SweepHandler) Sweep(c echo.Context) error {
	stats, err := h.sweeper.RunSweep(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "sweep failed: " + err.Error(),
		})
	}

	if stats.Skipped {
		return c.JSON(http.StatusAccepted, stats)
	}
	return c.JSON(http.StatusOK, stats)
}

// Check handles POST /api/v1/products/:id/check, running one price check
// for a single product outside the schedule.
//
// @Summary Check one product now
// @Description Fetches and records the product's current price immediately.
// @Tags sweep
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/products/{id}/check [post]
func (h *SweepHandler) Check(c echo.Context) error {
	p, err := h.sweeper.CheckProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "product not found",
			})
		case errors.Is(err, fetch.ErrUnavailable):
			return c.JSON(http.StatusBadGateway, map[string]string{
				"error": "price unavailable: " + err.Error(),
			})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "price check failed: " + err.Error(),
			})
		}
	}

	return c.JSON(http.StatusOK, p)
}
