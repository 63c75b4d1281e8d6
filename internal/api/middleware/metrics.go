package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pricewatch/pricewatch/internal/metrics"
)

// instrumented reports whether a route takes part in the HTTP request
// histogram and counter. Probes and the scrape endpoint itself only add
// noise there.
func instrumented(route string) bool {
	switch route {
	case "/metrics", "/healthz", "/readyz":
		return false
	}
	return true
}

// probeGauge returns the up/down gauge for a health probe route, or nil for
// every other route.
func probeGauge(route string) prometheus.Gauge {
	switch route {
	case "/healthz":
		return metrics.HealthzUp
	case "/readyz":
		return metrics.ReadyzUp
	}
	return nil
}

// Metrics records a duration histogram and a request counter per request,
// labeled by method, route, and status. The two health probes instead drive
// 0/1 gauges.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}

			if !instrumented(route) {
				err := next(c)
				if gauge := probeGauge(route); gauge != nil {
					status := c.Response().Status
					if status >= 200 && status < 300 {
						gauge.Set(1)
					} else {
						gauge.Set(0)
					}
				}
				return err
			}

			start := time.Now()
			err := next(c)

			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)
			metrics.HTTPRequestDuration.
				WithLabelValues(method, route, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, route, status).
				Inc()

			return err
		}
	}
}
