package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/budgetloop/budgetloop-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// MIMETextCSV is the content type of every export.
const MIMETextCSV = "text/csv; charset=utf-8"

// ExportHandler serves CSV downloads
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportTransactions godoc
// @Summary Export transactions as CSV
// @Description Accepts the same filters as the list endpoint. Pagination is ignored.
// @Tags export
// @Produce text/csv
// @Param locale query string false "pt-BR, en-US or es-ES"
// @Success 200 {string} string "CSV document"
// @Failure 400 {object} api.ErrorResponse
// @Router /export/transactions [get]
func (h *ExportHandler) ExportTransactions(c echo.Context) error {
	filters, err := parseTransactionFilters(c)
	if err != nil {
		return respondError(c, err)
	}

	file, err := h.exportService.ExportTransactions(c.Request().Context(), filters, c.QueryParam("locale"))
	if err != nil {
		return respondError(c, err)
	}
	return sendCSV(c, file)
}

// ExportBudgets godoc
// @Summary Export budgets as CSV
// @Tags export
// @Produce text/csv
// @Param locale query string false "pt-BR, en-US or es-ES"
// @Success 200 {string} string "CSV document"
// @Router /export/budgets [get]
func (h *ExportHandler) ExportBudgets(c echo.Context) error {
	file, err := h.exportService.ExportBudgets(c.Request().Context(), c.QueryParam("locale"))
	if err != nil {
		return respondError(c, err)
	}
	return sendCSV(c, file)
}

// ExportGoals godoc
// @Summary Export goals as CSV
// @Tags export
// @Produce text/csv
// @Param locale query string false "pt-BR, en-US or es-ES"
// @Success 200 {string} string "CSV document"
// @Router /export/goals [get]
func (h *ExportHandler) ExportGoals(c echo.Context) error {
	file, err := h.exportService.ExportGoals(c.Request().Context(), c.QueryParam("locale"))
	if err != nil {
		return respondError(c, err)
	}
	return sendCSV(c, file)
}

func sendCSV(c echo.Context, file *service.ExportFile) error {
	log.Info().
		Str("filename", file.Filename).
		Int("rows", file.Rows).
		Msg("Export generated")

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	header.Set("X-Export-Rows", strconv.Itoa(file.Rows))
	return c.Blob(http.StatusOK, MIMETextCSV, []byte(file.Content))
}
