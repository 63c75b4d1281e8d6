// Package handlers implements the pricewatch HTTP handlers.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pricewatch/pricewatch/internal/store"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store store.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(s store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

// Healthz handles GET /healthz. It answers 200 whenever the process is up;
// no dependencies are consulted.
//
// @Summary Liveness check
// @Description Returns 200 while the process is running.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /healthz [get]
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz handles GET /readyz. Readiness means the database answers a ping;
// anything else makes the instance unfit for traffic.
//
// @Summary Readiness check
// @Description Returns 200 when the database is reachable, 503 otherwise.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} StatusResponse
// @Router /readyz [get]
func (h *HealthHandler) Readyz(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		return c.JSON(
			http.StatusServiceUnavailable,
			StatusResponse{Status: "unavailable"},
		)
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
