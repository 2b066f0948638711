package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AllowedMethods are the methods announced to cross-origin clients.
var AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}

// AllowedHeaders are the request headers announced to cross-origin clients.
var AllowedHeaders = []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID}

// Preflight answers every OPTIONS request with a bare 200 before routing,
// so unknown paths still pass preflight. Register it with e.Pre.
func Preflight(origins []string) echo.MiddlewareFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	methods := strings.Join(AllowedMethods, ",")
	headers := strings.Join(AllowedHeaders, ",")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodOptions {
				return next(c)
			}

			h := c.Response().Header()
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			switch {
			case allowAll:
				h.Set(echo.HeaderAccessControlAllowOrigin, "*")
			case allowed[origin]:
				h.Set(echo.HeaderAccessControlAllowOrigin, origin)
				h.Add(echo.HeaderVary, echo.HeaderOrigin)
			}
			h.Set(echo.HeaderAccessControlAllowMethods, methods)
			h.Set(echo.HeaderAccessControlAllowHeaders, headers)
			h.Set(echo.HeaderAccessControlMaxAge, "86400")
			return c.NoContent(http.StatusOK)
		}
	}
}
