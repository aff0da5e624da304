package loggingmw

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedEcho(buf *bytes.Buffer) *echo.Echo {
	e := echo.New()
	e.Use(RequestLogger(slog.New(slog.NewJSONHandler(buf, nil))))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/denied", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusForbidden, "nope")
	})
	return e
}

func record(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestRequestLogger_Success(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := newLoggedEcho(&buf)

	req := httptest.NewRequest(http.MethodGet, "/ok?x=1", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	e.ServeHTTP(httptest.NewRecorder(), req)

	entry := record(t, &buf)
	assert.Equal(t, "http_request", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/ok", entry["route"])
	assert.Equal(t, "/ok?x=1", entry["uri"])
	assert.Equal(t, "req-123", entry["request_id"])
	assert.EqualValues(t, http.StatusNoContent, entry["status"])
}

func TestRequestLogger_HandlerError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := newLoggedEcho(&buf)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/denied", nil))

	// the middleware runs the error handler itself, so the response and the
	// logged status agree
	assert.Equal(t, http.StatusForbidden, rec.Code)

	entry := record(t, &buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.EqualValues(t, http.StatusForbidden, entry["status"])
	assert.Contains(t, entry["error"], "nope")
}
