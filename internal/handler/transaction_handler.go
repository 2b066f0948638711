package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/budgetloop/budgetloop-backend/internal/api"
	"github.com/budgetloop/budgetloop-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// MaxImportSize caps the size of an uploaded CSV import.
const MaxImportSize = 10 * 1024 * 1024 // 10MB

// HeaderTotalCount carries the number of matches before pagination.
const HeaderTotalCount = "X-Total-Count"

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// GetTransactions godoc
// @Summary List transactions
// @Description List transactions matching the filters. The total before pagination is returned in X-Total-Count.
// @Tags transactions
// @Produce json
// @Param type query string false "income, expense or all"
// @Param category query string false "Category or all"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Param minAmount query number false "Minimum absolute amount"
// @Param maxAmount query number false "Maximum absolute amount"
// @Param search query string false "Search in description, notes and tags"
// @Param tags query string false "Comma separated tags"
// @Param sortBy query string false "date, amount, description, category or createdAt"
// @Param sortOrder query string false "asc or desc"
// @Param page query int false "Page, starting at 1"
// @Param pageSize query int false "Page size"
// @Success 200 {array} api.Transaction
// @Failure 400 {object} api.ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	filters, err := parseTransactionFilters(c)
	if err != nil {
		return respondError(c, err)
	}

	page, err := h.transactionService.ListTransactions(c.Request().Context(), filters)
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(HeaderTotalCount, strconv.Itoa(page.Total))
	return c.JSON(http.StatusOK, api.NewTransactions(page.Items))
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} api.Transaction
// @Failure 404 {object} api.ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	transaction, err := h.transactionService.GetTransaction(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, api.NewTransaction(transaction))
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create a new income or expense transaction. Any id in the body is ignored.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body api.CreateTransactionRequest true "Transaction"
// @Success 201 {object} api.Transaction
// @Failure 400 {object} api.ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req api.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}

	input, err := req.ToDomain()
	if err != nil {
		return respondError(c, err)
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	log.Info().
		Str("transaction_id", transaction.ID).
		Str("type", string(transaction.Type)).
		Msg("Transaction created")

	return c.JSON(http.StatusCreated, api.NewTransaction(transaction))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Merge the given fields into the transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body api.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} api.Transaction
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	var req api.UpdateTransactionRequest
	if err := bindStrict(c, &req); err != nil {
		return invalidBody(c, err)
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request().Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, api.NewTransaction(transaction))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	if err := h.transactionService.DeleteTransaction(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// BulkDeleteTransactions godoc
// @Summary Delete several transactions
// @Description Unknown ids are ignored
// @Tags transactions
// @Accept json
// @Param request body api.IDsRequest true "Transaction IDs"
// @Success 204
// @Failure 400 {object} api.ErrorResponse
// @Router /transactions/bulk-delete [post]
func (h *TransactionHandler) BulkDeleteTransactions(c echo.Context) error {
	var req api.IDsRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}

	if err := h.transactionService.DeleteTransactions(c.Request().Context(), req.IDs); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ImportTransactions godoc
// @Summary Import transactions from CSV
// @Description Accepts a CSV export either as the raw body or as a multipart "file" field. Invalid rows are reported and skipped.
// @Tags transactions
// @Accept text/csv
// @Produce json
// @Param locale query string false "pt-BR, en-US or es-ES"
// @Success 200 {object} api.ImportResult
// @Failure 400 {object} api.ErrorResponse
// @Router /transactions/import [post]
func (h *TransactionHandler) ImportTransactions(c echo.Context) error {
	body, closeBody, err := importBody(c)
	if err != nil {
		return NewValidationError(c, "No file provided", []api.FieldError{
			{Field: "file", Message: "File is required"},
		})
	}
	defer closeBody()

	result, err := h.transactionService.ImportTransactions(c.Request().Context(), io.LimitReader(body, MaxImportSize), c.QueryParam("locale"))
	if err != nil {
		return respondError(c, err)
	}

	resp := api.ImportResult{
		Imported: len(result.Imported),
		Errors:   make([]api.LineError, len(result.Errors)),
	}
	for i, le := range result.Errors {
		resp.Errors[i] = api.LineError{Line: le.Line, Message: le.Message}
	}
	return c.JSON(http.StatusOK, resp)
}

// importBody returns the uploaded file for multipart requests and the raw
// body otherwise.
func importBody(c echo.Context) (io.Reader, func(), error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		file, err := c.FormFile("file")
		if err != nil {
			return nil, nil, err
		}
		src, err := file.Open()
		if err != nil {
			return nil, nil, err
		}
		return src, func() { src.Close() }, nil
	}
	return c.Request().Body, func() {}, nil
}
