package handler

import (
	"net/http"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// SettingsHandler serves user settings and the saved transaction filters
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings godoc
// @Summary Get settings
// @Tags settings
// @Produce json
// @Success 200 {object} domain.Settings
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings, err := h.settingsService.GetSettings(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary Update settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body domain.SettingsPatch true "Fields to change"
// @Success 200 {object} domain.Settings
// @Failure 400 {object} api.ErrorResponse
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var patch domain.SettingsPatch
	if err := bindStrict(c, &patch); err != nil {
		return invalidBody(c, err)
	}

	settings, err := h.settingsService.UpdateSettings(c.Request().Context(), &patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, settings)
}

// ResetSettings godoc
// @Summary Restore the default settings
// @Tags settings
// @Produce json
// @Success 200 {object} domain.Settings
// @Router /settings [delete]
func (h *SettingsHandler) ResetSettings(c echo.Context) error {
	settings, err := h.settingsService.ResetSettings(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, settings)
}

// GetFilters godoc
// @Summary Get the saved transaction filters
// @Tags settings
// @Produce json
// @Success 200 {object} domain.TransactionFilters
// @Router /filters [get]
func (h *SettingsHandler) GetFilters(c echo.Context) error {
	filters, err := h.settingsService.GetFilters(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, filters)
}

// SaveFilters godoc
// @Summary Save the transaction filters
// @Tags settings
// @Accept json
// @Produce json
// @Param request body domain.TransactionFilters true "Filters"
// @Success 200 {object} domain.TransactionFilters
// @Failure 400 {object} api.ErrorResponse
// @Router /filters [put]
func (h *SettingsHandler) SaveFilters(c echo.Context) error {
	var filters domain.TransactionFilters
	if err := c.Bind(&filters); err != nil {
		return invalidBody(c, err)
	}

	saved, err := h.settingsService.SaveFilters(c.Request().Context(), &filters)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}

// ResetFilters godoc
// @Summary Restore the default transaction filters
// @Tags settings
// @Produce json
// @Success 200 {object} domain.TransactionFilters
// @Router /filters [delete]
func (h *SettingsHandler) ResetFilters(c echo.Context) error {
	filters, err := h.settingsService.ResetFilters(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, filters)
}
