package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/budgetloop/budgetloop-backend/internal/api"
	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// NewErrorResponse writes an error body with the given status
func NewErrorResponse(c echo.Context, status int, message string) error {
	return c.JSON(status, api.ErrorResponse{Error: message})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, message string, errs []api.FieldError) error {
	return c.JSON(http.StatusBadRequest, api.ErrorResponse{
		Error:  message,
		Errors: errs,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, message string) error {
	return NewErrorResponse(c, http.StatusNotFound, message)
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, message string) error {
	return NewErrorResponse(c, http.StatusServiceUnavailable, message)
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, message string) error {
	return NewErrorResponse(c, http.StatusInternalServerError, message)
}

// bindStrict decodes a JSON patch body, rejecting keys the target does not
// declare. An empty body leaves v untouched.
func bindStrict(c echo.Context, v interface{}) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// invalidBody is returned when a request body cannot be decoded.
func invalidBody(c echo.Context, err error) error {
	return NewValidationError(c, "Invalid request body", []api.FieldError{
		{Field: "body", Message: err.Error()},
	})
}

// invalidParam is returned when a path or query parameter cannot be parsed.
func invalidParam(c echo.Context, field, message string) error {
	return NewValidationError(c, "Validation failed", []api.FieldError{
		{Field: field, Message: message},
	})
}

// respondError maps a service error to its HTTP response.
func respondError(c echo.Context, err error) error {
	var fieldErr *domain.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return NewValidationError(c, fieldErr.Err.Error(), []api.FieldError{
			{Field: fieldErr.Field, Message: fieldErr.Err.Error()},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, notFoundMessage(err))
	case errors.Is(err, service.ErrAttachmentsNotConfigured):
		return NewServiceUnavailableError(c, "Attachment storage is not configured")
	case errors.Is(err, domain.ErrNetwork):
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Remote repository unavailable")
		return NewServiceUnavailableError(c, "Remote repository unavailable")
	case errors.Is(err, domain.ErrStorage):
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Storage failure")
		return NewInternalError(c, "Storage failure")
	default:
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Unhandled error")
		return NewInternalError(c, "Internal server error")
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return "Transaction not found"
	case errors.Is(err, domain.ErrBudgetNotFound):
		return "Budget not found"
	case errors.Is(err, domain.ErrGoalNotFound):
		return "Goal not found"
	case errors.Is(err, domain.ErrMilestoneNotFound):
		return "Milestone not found"
	case errors.Is(err, domain.ErrAttachmentNotFound):
		return "Attachment not found"
	default:
		return "Resource not found"
	}
}

// HTTPErrorHandler renders errors that reach echo, including unknown routes
// and recovered panics, in the API error format.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		} else if he.Message != nil {
			message = fmt.Sprint(he.Message)
		}
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Request failed")
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = NewErrorResponse(c, he.Code, message)
		}
	} else {
		err = respondError(c, err)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to write error response")
	}
}
