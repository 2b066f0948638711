package middleware

import (
	"fmt"
	"net/http"

	"github.com/budgetloop/budgetloop-backend/internal/api"
	"github.com/labstack/echo/v4"
)

// tooManyRequests writes the 429 response of the rate limiter
func tooManyRequests(c echo.Context, retryAfter int) error {
	return c.JSON(http.StatusTooManyRequests, api.ErrorResponse{
		Error: fmt.Sprintf("Too many requests. Please retry after %d seconds.", retryAfter),
	})
}
