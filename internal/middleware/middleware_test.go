package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreflight_AnswersBeforeRouting(t *testing.T) {
	e := echo.New()
	e.Pre(Preflight([]string{"*"}))

	req := httptest.NewRequest(http.MethodOptions, "/api/does-not-exist", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodDelete)
}

func TestPreflight_SpecificOrigins(t *testing.T) {
	e := echo.New()
	e.Pre(Preflight([]string{"https://app.example"}))

	req := httptest.NewRequest(http.MethodOptions, "/api/transactions", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(http.MethodOptions, "/api/transactions", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestPreflight_PassesOtherMethods(t *testing.T) {
	e := echo.New()
	e.Pre(Preflight(nil))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "pong", rec.Body.String())
}

func TestRequestLogger_RendersHandlerError(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger())
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestMetrics_RecordsRequests(t *testing.T) {
	m, err := NewMetrics("budgetloop")
	require.NoError(t, err)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/transactions/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/fail", func(c echo.Context) error {
		return errors.New("unexpected")
	})
	e.GET("/metrics", m.Handler())

	for _, path := range []string{"/api/transactions/a", "/api/transactions/b", "/fail"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	text := string(body)

	assert.Contains(t, text, `budgetloop_http_requests_total{method="GET",route="/api/transactions/:id",status="204"} 2`)
	assert.Contains(t, text, `budgetloop_http_requests_total{method="GET",route="/fail",status="500"} 1`)
	assert.True(t, strings.Contains(text, "budgetloop_http_request_duration_seconds_bucket"))
	assert.Contains(t, text, "go_goroutines")
}
