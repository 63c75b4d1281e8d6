package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLog_GeneratesRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestLog(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	err := handler(c)
	require.NoError(t, err)

	reqID := rec.Header().Get("X-Request-ID")
	assert.NotEmpty(t, reqID)
	assert.Equal(t, reqID, c.Get("request_id"))
	assert.Contains(t, buf.String(), "request_id="+reqID)
	assert.Contains(t, buf.String(), "path=/api/v1/products")
}

func TestRequestLog_PropagatesExistingRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestLog(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	err := handler(c)
	require.NoError(t, err)

	assert.Equal(t, "client-supplied-id", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), "request_id=client-supplied-id")
}

func TestRequestLog_LogsStatus(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sweep", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestLog(logger)(func(c echo.Context) error {
		return c.NoContent(http.StatusAccepted)
	})

	err := handler(c)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "status=202")
	assert.Contains(t, buf.String(), "method=POST")
}
